package synth

import (
	"fmt"
	"time"

	"github.com/hexsound/kokoctl/pkg/net"
)

const (
	DefaultText   = "Hello from Kokoro. This is a quick check of the hosted text to speech endpoint."
	DefaultVoice  = "af_bella" // Kokoro preset voice
	DefaultModel  = "hexgrad/Kokoro-82M"
	DefaultFormat = "wav"
)

// ValidFormats lists the output formats the Kokoro endpoint accepts.
var ValidFormats = map[string]bool{
	"mp3":  true,
	"opus": true,
	"flac": true,
	"wav":  true,
	"pcm":  true,
}

// Config is the full per-run configuration. It is built once from flags and
// the environment and never mutated afterwards.
type Config struct {
	Text   string
	Voice  string
	Model  string // endpoint model or name in the registry
	Format string

	// OutputPath overrides the default kokoro_out.<format> name.
	OutputPath string

	// WrapWAV wraps raw pcm output in a WAV container before writing.
	WrapWAV bool

	Play    bool
	Timeout time.Duration
}

func NewConfig() Config {
	return Config{
		Text:    DefaultText,
		Voice:   DefaultVoice,
		Model:   DefaultModel,
		Format:  DefaultFormat,
		Timeout: net.DefaultTimeout,
	}
}

// Validate checks the precondition part of the pipeline that does not need
// the environment.
func (c Config) Validate() error {
	if c.Text == "" {
		return &ConfigError{Msg: "text must not be empty"}
	}
	if !ValidFormats[c.Format] {
		return &ConfigError{Msg: fmt.Sprintf("invalid output format %q (mp3/opus/flac/wav/pcm)", c.Format)}
	}
	return nil
}

// OutputFile returns the destination path for the decoded audio.
func (c Config) OutputFile() string {
	if c.OutputPath != "" {
		return c.OutputPath
	}
	ext := c.Format
	if c.WrapWAV && c.Format == "pcm" {
		ext = "wav"
	}
	return "kokoro_out." + ext
}
