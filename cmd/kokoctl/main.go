package main

import (
	"errors"
	"os"
	"time"

	"github.com/hexsound/kokoctl/synth"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	runText    string
	runVoice   string
	runModel   string
	runFormat  string
	runOutput  string
	runWrapWAV bool
	runPlay    bool
	runTimeout time.Duration
	runVerbose bool
)

func NewRootCmd() *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:   "kokoctl",
		Short: "kokoctl synthesizes speech with the DeepInfra Kokoro endpoint",
		Run: func(cmd *cobra.Command, args []string) {
			// set log level
			if runVerbose {
				log.SetLevel(log.DebugLevel)
			}

			cfg := synth.NewConfig()
			if runText != "" {
				cfg.Text = runText
			}
			if runVoice != "" {
				cfg.Voice = runVoice
			}
			if runModel != "" {
				cfg.Model = runModel
			}
			if runFormat != "" {
				cfg.Format = runFormat
			}
			cfg.OutputPath = runOutput
			cfg.WrapWAV = runWrapWAV
			cfg.Play = runPlay
			if runTimeout > 0 {
				cfg.Timeout = runTimeout
			}

			if err := synth.NewRunner(cfg).Run(); err != nil {
				var ce *synth.ConfigError
				if errors.As(err, &ce) {
					log.Errorf("%s", ce.Msg)
				} else {
					log.Errorf("%v", err)
				}
				os.Exit(1)
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&runText, "text", "t", "", "text to synthesize")
	rootCmd.PersistentFlags().StringVarP(&runVoice, "voice", "V", "", "Kokoro preset voice (default af_bella)")
	rootCmd.PersistentFlags().StringVarP(&runModel, "model", "m", "", "model or endpoint name in the registry")
	rootCmd.PersistentFlags().StringVarP(&runFormat, "format", "f", "", "output format, one of mp3/opus/flac/wav/pcm (default wav)")
	rootCmd.PersistentFlags().StringVarP(&runOutput, "output", "o", "", "output file (default kokoro_out.<format>)")
	rootCmd.PersistentFlags().BoolVarP(&runWrapWAV, "wrap-wav", "w", false, "wrap raw pcm output in a WAV container")
	rootCmd.PersistentFlags().BoolVarP(&runPlay, "play", "p", false, "play the audio after writing it")
	rootCmd.PersistentFlags().DurationVar(&runTimeout, "timeout", 0, "request timeout (default 60s)")
	rootCmd.PersistentFlags().BoolVarP(&runVerbose, "verbose", "v", false, "verbose output")
	return rootCmd
}

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
