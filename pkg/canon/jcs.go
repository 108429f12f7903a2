package canon

import (
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
)

// JCS implements the JSON Canonicalization Scheme (RFC 8785): the document
// is re-serialized with sorted object member names, fixed number formatting,
// and no insignificant whitespace, with no RDF involved at all.
type JCS struct{}

// NewJCS builds a JCS canonicalizer. It carries no state: unlike RDFC, JCS
// needs no document loader, since it never resolves @context.
func NewJCS() *JCS { return &JCS{} }

// Canonicalize implements Canonicalizer. doc is first marshalled back to
// JSON (undoing whatever ordering encoding/json's map traversal produced),
// then transformed by gowebpki/jcs into RFC 8785 canonical form.
func (j *JCS) Canonicalize(doc interface{}) ([]byte, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: JSON marshal failed: %v", ErrCanonicalization, err)
	}
	transformed, err := jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: JCS transform failed: %v", ErrCanonicalization, err)
	}
	return transformed, nil
}
