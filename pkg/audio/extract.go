package audio

import (
	"encoding/base64"
	"strings"
)

// Extractor probes one envelope shape for a base64 audio string. Extractors
// are pure; they never touch the network or the filesystem.
type Extractor func(envelope map[string]interface{}) (string, bool)

// extractors are tried in order; the first hit wins.
var extractors = []Extractor{
	extractTopLevelAudio,
	extractOutputListAudio,
}

// extractTopLevelAudio matches { "audio": "..." }.
func extractTopLevelAudio(envelope map[string]interface{}) (string, bool) {
	s, ok := envelope["audio"].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// extractOutputListAudio matches { "output": [ { "audio": "..." } ] }, an
// older schema some providers still return.
func extractOutputListAudio(envelope map[string]interface{}) (string, bool) {
	arr, ok := envelope["output"].([]interface{})
	if !ok || len(arr) == 0 {
		return "", false
	}
	first, ok := arr[0].(map[string]interface{})
	if !ok {
		return "", false
	}
	s, ok := first["audio"].(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// ExtractAudio locates and decodes the audio payload in a parsed response
// envelope. A missing field and an undecodable field are both reported as a
// plain no-value result; callers cannot and should not tell them apart.
func ExtractAudio(envelope map[string]interface{}) ([]byte, bool) {
	for _, probe := range extractors {
		s, ok := probe(envelope)
		if !ok {
			continue
		}
		return DecodeBase64Audio(s)
	}
	return nil, false
}

// DecodeBase64Audio decodes a (possibly data-URL wrapped, possibly unpadded)
// base64 audio string, e.g. "data:audio/wav;base64,AAA...".
func DecodeBase64Audio(s string) ([]byte, bool) {
	// strip the data URL prefix if present
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[i+1:]
	}

	// fix missing padding, base64 length must be %4 == 0
	if pad := len(s) % 4; pad != 0 {
		s += strings.Repeat("=", 4-pad)
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil || len(data) == 0 {
		return nil, false
	}
	return data, true
}
