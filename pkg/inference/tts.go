package inference

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hexsound/kokoctl/pkg/net"
	log "github.com/sirupsen/logrus"
)

type TextToSpeechRequest struct {
	Text   string `json:"text"`
	Voice  string `json:"voice"`
	Format string `json:"output_format"`
}

// TextToSpeechResponse carries the parsed JSON envelope of the provider
// response. The envelope shape is not contractually fixed, so it stays a
// generic map and the caller probes it for an audio payload.
type TextToSpeechResponse struct {
	Envelope map[string]interface{}
	Raw      []byte
}

// DecodeError means the provider returned a 2xx response whose body is not
// valid JSON. Snippet holds at most 500 characters of the raw body.
type DecodeError struct {
	Snippet string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("non-JSON response: %v. Content: %s", e.Err, e.Snippet)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// TextToSpeech sends one synthesis request to ep and parses the JSON
// envelope. Exactly one POST, no retries.
func TextToSpeech(ep APIEndpointInfo, args *TextToSpeechRequest, timeout time.Duration) (*TextToSpeechResponse, error) {
	jsonBytes, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("error marshalling TextToSpeechRequest: %v", err)
	}

	l := *ep.Base
	r := ep.Url
	var u string
	if l[len(l)-1] == '/' && r[0] == '/' {
		u = l[:len(l)-1] + r
	} else {
		u = *ep.Base + ep.Url
	}
	log.Debugf("URL: %s", u)
	log.Debugf("TextToSpeech Request: %s", string(jsonBytes))

	res, err := net.SendRequest(u, bytes.NewBuffer(jsonBytes), net.ContentTypeJSON, ep.APIKey, timeout)
	if err != nil {
		return nil, err
	}

	log.Debugf("Response Len: %d", len(res))

	var envelope map[string]interface{}
	if err := json.Unmarshal(res, &envelope); err != nil {
		return nil, &DecodeError{Snippet: net.Truncate(string(res), 500), Err: err}
	}

	return &TextToSpeechResponse{Envelope: envelope, Raw: res}, nil
}
