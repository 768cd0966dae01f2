// Package synth runs the synthesis pipeline: resolve credential, call the
// inference endpoint, parse the envelope, extract and decode the audio
// payload, persist it, optionally play it. Five stages, strictly linear,
// every failure terminal.
package synth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hexsound/kokoctl/pkg/audio"
	"github.com/hexsound/kokoctl/pkg/inference"
	"github.com/hexsound/kokoctl/pkg/net"
	log "github.com/sirupsen/logrus"
)

const maxDiagnosticDump = 2000

// Runner executes one synthesis run. The player is injectable so tests can
// substitute a recording stub for the real speaker.
type Runner struct {
	cfg    Config
	player audio.Player
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:    cfg,
		player: audio.DefaultPlayer(cfg.Format),
	}
}

// SetPlayer replaces the playback capability.
func (r *Runner) SetPlayer(p audio.Player) {
	r.player = p
}

// Run performs the whole pipeline. On success the output file has been
// written; playback state never influences the returned error.
func (r *Runner) Run() error {
	if err := r.cfg.Validate(); err != nil {
		return err
	}

	// credential resolution happens here, before any network I/O
	eps := inference.GetAPIEndpointInfo(inference.FunctionTypeTextToSpeech, r.cfg.Model)
	if len(eps) == 0 {
		return &ConfigError{Msg: "Set DEEPINFRA_API_KEY or DEEPINFRA_API_TOKEN first."}
	}

	req := &inference.TextToSpeechRequest{
		Text:   r.cfg.Text,
		Voice:  r.cfg.Voice,
		Format: r.cfg.Format,
	}
	resp, err := inference.TextToSpeech(eps[0], req, r.cfg.Timeout)
	if err != nil {
		var de *inference.DecodeError
		if errors.As(err, &de) {
			return err
		}
		return &TransportError{Err: err}
	}

	data, ok := audio.ExtractAudio(resp.Envelope)
	if !ok {
		fmt.Printf("No decodable audio in response. Full payload follows:\n%s\n",
			diagnosticDump(resp.Envelope))
		return ErrNoAudio
	}

	if r.cfg.WrapWAV && r.cfg.Format == "pcm" {
		data, err = audio.WrapPCMBytes(data, audio.KokoroSampleRate, 1)
		if err != nil {
			return fmt.Errorf("error wrapping PCM data: %w", err)
		}
	}

	outFile := r.cfg.OutputFile()
	if err := writeFileAtomic(outFile, data); err != nil {
		return fmt.Errorf("error writing %s: %w", outFile, err)
	}
	fmt.Printf("Wrote %s\n", outFile)

	if r.cfg.Play {
		audio.BestEffortPlay(r.player, outFile)
	}
	return nil
}

// diagnosticDump pretty-prints the envelope for the no-audio error path,
// capped at maxDiagnosticDump characters.
func diagnosticDump(envelope map[string]interface{}) string {
	dump, _ := json.MarshalIndent(envelope, "", "  ")
	return net.Truncate(string(dump), maxDiagnosticDump)
}

// writeFileAtomic writes data to a temp file in the destination directory
// and renames it into place, so no partial file is ever observable.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".kokoro-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	log.Debugf("Wrote %d bytes to %s", len(data), path)
	return nil
}
