package sd

import (
	"crypto/hmac"
	"encoding/base64"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/herculas/vc-suite-ecdsa/pkg/digest"
	"github.com/herculas/vc-suite-ecdsa/pkg/keys/curve"
)

// HMACLabelFunc maps an original canonical blank-node label to its
// HMAC-derived replacement label (without the "_:" prefix), per the
// "HMAC-Id Label Map" glossary entry and spec.md §4.5.1 step 2.
type HMACLabelFunc func(label string) string

// NewHMACLabelFunc builds an HMACLabelFunc keyed by hmacKey, hashing with
// the digest matching c (SHA-256 for P-256, SHA-384 for P-384). hmacKey is
// used as given, whatever its length.
func NewHMACLabelFunc(hmacKey []byte, c curve.Curve) (HMACLabelFunc, error) {
	hashFn, err := digest.HashFunc(c)
	if err != nil {
		return nil, err
	}
	return func(label string) string {
		mac := hmac.New(hashFn, hmacKey)
		mac.Write([]byte(label))
		sum := mac.Sum(nil)
		return "u" + base64.RawURLEncoding.EncodeToString(sum)
	}, nil
}

// RelabelQuads rewrites every blank-node term in quads through labelFn,
// returning the rewritten quads alongside the map from original label to
// new label (built incrementally, so repeated labels map consistently).
func RelabelQuads(quads []Quad, labelFn HMACLabelFunc) ([]Quad, map[string]string) {
	labelMap := make(map[string]string)
	relabel := func(term string) string {
		if !IsBlankNode(term) {
			return term
		}
		label := BlankNodeLabel(term)
		newLabel, ok := labelMap[label]
		if !ok {
			newLabel = labelFn(label)
			labelMap[label] = newLabel
		}
		return "_:" + newLabel
	}

	out := make([]Quad, len(quads))
	for i, q := range quads {
		out[i] = Quad{
			Subject:   relabel(q.Subject),
			Predicate: q.Predicate, // predicates are never blank nodes in valid RDF
			Object:    relabel(q.Object),
			Graph:     relabel(q.Graph),
		}
	}
	return out, labelMap
}

// compressLabelMap implements spec.md §4.5.2 compressLabelMap: every key
// must be of the form "c14nNNN"; the integer suffix becomes the map key,
// and the value (an "u"-prefixed base64url-no-pad string) is decoded to
// raw bytes.
func compressLabelMap(labelMap map[string]string) (map[int][]byte, error) {
	out := make(map[int][]byte, len(labelMap))
	for key, value := range labelMap {
		if !strings.HasPrefix(key, "c14n") {
			return nil, fmt.Errorf("%w: label map key %q does not start with c14n", ErrProofGeneration, key)
		}
		idx, err := strconv.Atoi(strings.TrimPrefix(key, "c14n"))
		if err != nil {
			return nil, fmt.Errorf("%w: label map key %q has non-numeric suffix: %v", ErrProofGeneration, key, err)
		}
		raw := strings.TrimPrefix(value, "u")
		decoded, err := base64.RawURLEncoding.DecodeString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: label map value %q: %v", ErrProofGeneration, value, err)
		}
		out[idx] = decoded
	}
	return out, nil
}

// decompressLabelMap is the inverse of compressLabelMap.
func decompressLabelMap(compressed map[int][]byte) map[string]string {
	out := make(map[string]string, len(compressed))
	for idx, raw := range compressed {
		out[fmt.Sprintf("c14n%d", idx)] = "u" + base64.RawURLEncoding.EncodeToString(raw)
	}
	return out
}

// sortedLabelMapKeys returns a labelMap's keys sorted for deterministic
// iteration.
func sortedLabelMapKeys(labelMap map[string]string) []string {
	keys := make([]string, 0, len(labelMap))
	for k := range labelMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
