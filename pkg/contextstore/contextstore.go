// Package contextstore embeds the JSON-LD context documents this suite
// needs to canonicalize and verify documents offline, the way
// dc4eu-vc/pkg/vc20/contextstore embeds its own fixed context set.
package contextstore

import (
	"embed"
	"fmt"
)

//go:embed data/*.jsonld
var contextFS embed.FS

var contextMap = map[string]string{
	"https://www.w3.org/ns/credentials/v2":    "data/credentials-v2.jsonld",
	"https://w3id.org/security/data-integrity/v2": "data/data-integrity-v2.jsonld",
	"https://w3id.org/security/multikey/v1":   "data/multikey-v1.jsonld",
}

// Get returns the embedded content of a well-known context document.
func Get(url string) ([]byte, error) {
	filename, ok := contextMap[url]
	if !ok {
		return nil, fmt.Errorf("contextstore: context not found: %s", url)
	}
	return contextFS.ReadFile(filename)
}

// All returns every embedded context, keyed by URL, for bulk preloading
// into a document loader's cache.
func All() map[string][]byte {
	result := make(map[string][]byte, len(contextMap))
	for url, filename := range contextMap {
		data, err := contextFS.ReadFile(filename)
		if err == nil {
			result[url] = data
		}
	}
	return result
}

// Known reports whether url names one of the embedded contexts.
func Known(url string) bool {
	_, ok := contextMap[url]
	return ok
}
