package inference

import (
	"os"

	log "github.com/sirupsen/logrus"
)

type FunctionType int

// APIEndpointInfo describes one hosted inference endpoint. The credential is
// either a literal APIKey or resolved from the first non-empty variable in
// APIKeyEnvs, checked in order.
type APIEndpointInfo struct {
	Name       string   `json:"name"`
	Model      string   `json:"model"`
	Base       *string  `json:"base"`
	APIKey     string   `json:"apikey"`
	APIKeyEnvs []string `json:"apikey_in_env"`
	Url        string   `json:"url"`
}

const (
	FunctionTypeTextToSpeech FunctionType = iota
)

var (
	DeepInfraBase = "https://api.deepinfra.com/v1/inference"
)

var (
	APIEndpointMap = map[FunctionType][]APIEndpointInfo{
		FunctionTypeTextToSpeech: {
			{
				Name:  "deepinfra-kokoro",
				Model: "hexgrad/Kokoro-82M",
				Base:  &DeepInfraBase,
				// DeepInfra's own docs and blog posts disagree on the
				// variable name, so both are accepted.
				APIKeyEnvs: []string{"DEEPINFRA_API_KEY", "DEEPINFRA_API_TOKEN"},
				Url:        "/hexgrad/Kokoro-82M",
			},
		},
	}
)

// GetAPIEndpointInfo returns the endpoints matching modelOrName that have a
// usable credential. Endpoints whose env vars are all unset are filtered out,
// so an empty result means the caller must not attempt any network I/O.
func GetAPIEndpointInfo(ft FunctionType, modelOrName string) []APIEndpointInfo {
	if ft < 0 || int(ft) >= len(APIEndpointMap) {
		return nil
	}
	res := make([]APIEndpointInfo, 0)
	for _, info := range APIEndpointMap[ft] {
		if info.Model == modelOrName || info.Name == modelOrName {
			res = append(res, info)
		}
	}

	// resolve env-based keys, dropping endpoints with no key set
	res2 := make([]APIEndpointInfo, 0)
	for _, e := range res {
		if len(e.APIKeyEnvs) > 0 {
			key := ""
			for _, name := range e.APIKeyEnvs {
				if v := os.Getenv(name); v != "" {
					key = v
					break
				}
			}
			if key == "" {
				continue
			}
			res2 = append(res2, e)
			res2[len(res2)-1].APIKey = key
		} else if e.APIKey != "" {
			res2 = append(res2, e)
		}
	}

	func() {
		// print the endpoint info found, with the key masked
		tmpList := make([]APIEndpointInfo, 0)
		for _, e := range res2 {
			tmp := &APIEndpointInfo{
				Name:   e.Name,
				Model:  e.Model,
				Base:   e.Base,
				APIKey: "********",
				Url:    e.Url,
			}
			tmpList = append(tmpList, *tmp)
		}
		log.Debugf("Found %d endpoint(s) for %s: %v", len(tmpList), modelOrName, tmpList)
	}()

	return res2
}

func init() {
	if os.Getenv("DEEPINFRA_API_BASE") != "" {
		// official "https://api.deepinfra.com/v1/inference"
		DeepInfraBase = os.Getenv("DEEPINFRA_API_BASE")
	}
}
