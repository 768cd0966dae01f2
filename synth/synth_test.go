package synth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hexsound/kokoctl/pkg/inference"
)

// pointBaseAt redirects the endpoint registry at a test server.
func pointBaseAt(t *testing.T, url string) {
	t.Helper()
	old := inference.DeepInfraBase
	inference.DeepInfraBase = url
	t.Cleanup(func() { inference.DeepInfraBase = old })
}

func testConfig(t *testing.T) Config {
	cfg := NewConfig()
	cfg.Text = "hello"
	cfg.OutputPath = filepath.Join(t.TempDir(), "out.wav")
	return cfg
}

func TestRun_WritesDecodedAudio(t *testing.T) {
	t.Setenv("DEEPINFRA_API_KEY", "k")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"audio": "data:audio/wav;base64,QUJD"}`))
	}))
	defer srv.Close()
	pointBaseAt(t, srv.URL)

	cfg := testConfig(t)
	cfg.Play = true
	r := NewRunner(cfg)

	var played string
	r.SetPlayer(func(path string) error {
		played = path
		return nil
	})

	if err := r.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	data, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(data) != "ABC" {
		t.Errorf("output = %q, want ABC", data)
	}
	if played != cfg.OutputPath {
		t.Errorf("played = %q, want %q", played, cfg.OutputPath)
	}
}

func TestRun_MissingCredentialSkipsNetwork(t *testing.T) {
	t.Setenv("DEEPINFRA_API_KEY", "")
	t.Setenv("DEEPINFRA_API_TOKEN", "")

	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()
	pointBaseAt(t, srv.URL)

	err := NewRunner(testConfig(t)).Run()
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %v, want *ConfigError", err)
	}
	if called {
		t.Error("network call was attempted without a credential")
	}
}

func TestRun_NonSuccessStatusIsTransportError(t *testing.T) {
	t.Setenv("DEEPINFRA_API_KEY", "k")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()
	pointBaseAt(t, srv.URL)

	cfg := testConfig(t)
	err := NewRunner(cfg).Run()
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("error = %v, want *TransportError", err)
	}
	if _, statErr := os.Stat(cfg.OutputPath); !os.IsNotExist(statErr) {
		t.Error("output file exists after a transport failure")
	}
}

func TestRun_NonJSONResponseIsDecodeError(t *testing.T) {
	t.Setenv("DEEPINFRA_API_KEY", "k")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("plain text"))
	}))
	defer srv.Close()
	pointBaseAt(t, srv.URL)

	err := NewRunner(testConfig(t)).Run()
	var de *inference.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("error = %v, want *inference.DecodeError", err)
	}
}

func TestRun_NoAudioFieldIsErrNoAudio(t *testing.T) {
	t.Setenv("DEEPINFRA_API_KEY", "k")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "ok", "request_id": "abc"}`))
	}))
	defer srv.Close()
	pointBaseAt(t, srv.URL)

	cfg := testConfig(t)
	if err := NewRunner(cfg).Run(); !errors.Is(err, ErrNoAudio) {
		t.Fatalf("error = %v, want ErrNoAudio", err)
	}
	if _, statErr := os.Stat(cfg.OutputPath); !os.IsNotExist(statErr) {
		t.Error("output file exists although no audio was decoded")
	}
}

func TestDiagnosticDump_Truncated(t *testing.T) {
	envelope := map[string]interface{}{
		"status": strings.Repeat("x", 5000),
	}
	dump := diagnosticDump(envelope)
	if len(dump) != maxDiagnosticDump {
		t.Errorf("len(dump) = %d, want %d", len(dump), maxDiagnosticDump)
	}
}

func TestDiagnosticDump_SmallEnvelopeUntouched(t *testing.T) {
	envelope := map[string]interface{}{"status": "ok"}
	want := "{\n  \"status\": \"ok\"\n}"
	if dump := diagnosticDump(envelope); dump != want {
		t.Errorf("dump = %q, want %q", dump, want)
	}
}

func TestRun_PlaybackFailureIsSwallowed(t *testing.T) {
	t.Setenv("DEEPINFRA_API_KEY", "k")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"audio": "QUJD"}`))
	}))
	defer srv.Close()
	pointBaseAt(t, srv.URL)

	cfg := testConfig(t)
	cfg.Play = true
	r := NewRunner(cfg)
	r.SetPlayer(func(path string) error {
		return errors.New("speaker on fire")
	})

	if err := r.Run(); err != nil {
		t.Errorf("Run = %v, playback failure must not surface", err)
	}
}

func TestRun_SecondFailureKeepsPreviousOutput(t *testing.T) {
	t.Setenv("DEEPINFRA_API_KEY", "k")
	withAudio := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if withAudio {
			w.Write([]byte(`{"audio": "QUJD"}`))
		} else {
			w.Write([]byte(`{"status": "failed"}`))
		}
	}))
	defer srv.Close()
	pointBaseAt(t, srv.URL)

	cfg := testConfig(t)
	if err := NewRunner(cfg).Run(); err != nil {
		t.Fatalf("first Run: %v", err)
	}

	withAudio = false
	if err := NewRunner(cfg).Run(); !errors.Is(err, ErrNoAudio) {
		t.Fatalf("second Run = %v, want ErrNoAudio", err)
	}

	// the failed run never opens the destination, first result stays intact
	data, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(data) != "ABC" {
		t.Errorf("output = %q, want ABC", data)
	}
}

func TestRun_WrapWAVForPCM(t *testing.T) {
	t.Setenv("DEEPINFRA_API_KEY", "k")
	// base64 of two little-endian int16 samples
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"audio": "AQD/fw=="}`))
	}))
	defer srv.Close()
	pointBaseAt(t, srv.URL)

	cfg := NewConfig()
	cfg.Text = "hello"
	cfg.Format = "pcm"
	cfg.WrapWAV = true
	cfg.OutputPath = filepath.Join(t.TempDir(), "out.wav")

	if err := NewRunner(cfg).Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	data, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if len(data) != 44+4 {
		t.Fatalf("len(data) = %d, want %d", len(data), 44+4)
	}
	if string(data[0:4]) != "RIFF" {
		t.Errorf("output is not a WAV container: %q", data[0:4])
	}
}

func TestConfig_OutputFile(t *testing.T) {
	cfg := NewConfig()
	if got := cfg.OutputFile(); got != "kokoro_out.wav" {
		t.Errorf("OutputFile = %q, want kokoro_out.wav", got)
	}

	cfg.Format = "pcm"
	cfg.WrapWAV = true
	if got := cfg.OutputFile(); got != "kokoro_out.wav" {
		t.Errorf("OutputFile = %q, want kokoro_out.wav for wrapped pcm", got)
	}

	cfg.OutputPath = "custom.bin"
	if got := cfg.OutputFile(); got != "custom.bin" {
		t.Errorf("OutputFile = %q, want custom.bin", got)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := NewConfig()
	cfg.Format = "ogg"
	var ce *ConfigError
	if err := cfg.Validate(); !errors.As(err, &ce) {
		t.Errorf("Validate = %v, want *ConfigError for unknown format", err)
	}

	cfg = NewConfig()
	cfg.Text = ""
	if err := cfg.Validate(); !errors.As(err, &ce) {
		t.Errorf("Validate = %v, want *ConfigError for empty text", err)
	}
}
