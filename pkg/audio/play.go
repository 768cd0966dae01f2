package audio

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/schollz/progressbar/v3"

	log "github.com/sirupsen/logrus"
)

// Player plays one audio file. Callers always ignore the returned error;
// playback is best-effort and must never affect the caller's exit status.
type Player func(path string) error

// DefaultPlayer picks a playback strategy for the given container format:
// the platform command player when one is on the PATH, the in-process
// speaker for formats with a decoder, otherwise a hint telling the user to
// open the file themselves.
func DefaultPlayer(format string) Player {
	if runtime.GOOS == "darwin" {
		if _, err := exec.LookPath("afplay"); err == nil {
			return func(path string) error {
				return exec.Command("afplay", path).Run()
			}
		}
	}
	switch format {
	case "mp3", "wav", "flac":
		return func(path string) error {
			return Play(path, format)
		}
	}
	return func(path string) error {
		fmt.Printf("Open the file to listen (e.g. `open %s` on macOS).\n", path)
		return nil
	}
}

// Play decodes the file with the decoder matching format and plays it on the
// default speaker, spinning a progress bar until the stream ends.
func Play(filePath, format string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("could not open audio file: %w", err)
	}
	defer f.Close()

	var stream beep.StreamSeekCloser
	var bformat beep.Format
	switch format {
	case "mp3":
		stream, bformat, err = mp3.Decode(f)
	case "wav":
		stream, bformat, err = wav.Decode(f)
	case "flac":
		stream, bformat, err = flac.Decode(f)
	default:
		return fmt.Errorf("no decoder for format %q", format)
	}
	if err != nil {
		return fmt.Errorf("could not decode audio file: %w", err)
	}
	defer stream.Close()

	// Initialize the speaker with the sample rate
	err = speaker.Init(bformat.SampleRate, bformat.SampleRate.N(time.Second/10))
	if err != nil {
		return fmt.Errorf("could not initialize speaker: %w", err)
	}

	// create progress bar
	bar := progressbar.NewOptions64(
		-1,
		progressbar.OptionSetDescription("Speaking..."),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(10),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
	)

	// Play the audio stream
	done := make(chan bool)
	speaker.Play(beep.Seq(stream, beep.Callback(func() {
		done <- true
	})))

	for {
		// update the progress bar
		bar.Add(stream.Position())
		select {
		case <-done:
			bar.Describe("Done")
			bar.Close()
			return nil
		default:
			time.Sleep(100 * time.Millisecond)
		}
	}
}

// BestEffortPlay runs p on path and swallows any failure.
func BestEffortPlay(p Player, path string) {
	if p == nil {
		return
	}
	if err := p(path); err != nil {
		log.Debugf("Playback of %s failed: %v", path, err)
	}
}
