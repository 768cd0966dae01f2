package synth

import (
	"errors"
	"fmt"
)

// ConfigError is a precondition failure caught before any network I/O, such
// as a missing credential or an unknown output format.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return e.Msg }

// TransportError wraps a network-level failure or a non-2xx response from
// the inference endpoint.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("HTTP error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ErrNoAudio means the response parsed fine but contained no decodable audio
// payload in any known shape. A malformed base64 field and an absent field
// both surface as this error.
var ErrNoAudio = errors.New("no decodable audio in response")
