package net

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type ContentType int

const (
	ContentTypeJSON ContentType = iota
	ContentTypeText
)

// DefaultTimeout bounds the single POST; there is no retry loop behind it.
const DefaultTimeout = 60 * time.Second

const maxErrorBody = 500

// StatusError is returned for any non-2xx response. Body holds at most
// maxErrorBody characters of the response body.
type StatusError struct {
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %s: %s", e.Status, e.Body)
}

// SendRequest performs a single POST to url and returns the response body.
// The Authorization scheme is emitted as lowercase "bearer" because that is
// what the DeepInfra examples send; the scheme keyword is case-insensitive
// per RFC 7235 so other providers accept it too.
func SendRequest(url string, data *bytes.Buffer, contentType ContentType, apiKey string, timeout time.Duration) ([]byte, error) {
	req, err := http.NewRequest("POST", url, data)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}

	switch contentType {
	case ContentTypeJSON:
		req.Header.Set("Content-Type", "application/json")
	case ContentTypeText:
		req.Header.Set("Content-Type", "text/plain")
	}
	req.Header.Set("Authorization", fmt.Sprintf("bearer %s", apiKey))
	req.Header.Set("X-Request-Id", uuid.NewString())

	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Debugf("Request to %s failed with status %s", url, resp.Status)
		return nil, &StatusError{
			Code:   resp.StatusCode,
			Status: resp.Status,
			Body:   Truncate(string(body), maxErrorBody),
		}
	}

	return body, nil
}

// Truncate caps s at n bytes. Diagnostic output only.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
