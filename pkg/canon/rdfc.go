package canon

import (
	"fmt"

	"github.com/piprate/json-gold/ld"
)

// RDFC performs RDF Dataset Canonicalization (RDFC-1.0, formerly URDNA2015)
// over a JSON-LD document, producing canonical N-Quads, the way
// dc4eu-vc/pkg/vc20/rdfcanon.Canonicalizer wraps ld.JsonLdProcessor.Normalize.
type RDFC struct {
	loader ld.DocumentLoader
}

// NewRDFC builds an RDFC canonicalizer that resolves contexts through
// loader. A nil loader falls back to json-gold's own default.
func NewRDFC(loader ld.DocumentLoader) *RDFC {
	return &RDFC{loader: loader}
}

func (r *RDFC) options() *ld.JsonLdOptions {
	opts := ld.NewJsonLdOptions("")
	opts.Algorithm = "URDNA2015"
	opts.Format = "application/n-quads"
	if r.loader != nil {
		opts.DocumentLoader = r.loader
	}
	return opts
}

// Canonicalize implements Canonicalizer: the result is the canonical N-Quads
// serialization, ready to be hashed by pkg/digest or grouped by pkg/sd.
func (r *RDFC) Canonicalize(doc interface{}) ([]byte, error) {
	proc := ld.NewJsonLdProcessor()
	normalized, err := proc.Normalize(doc, r.options())
	if err != nil {
		return nil, fmt.Errorf("%w: RDFC normalization failed: %v", ErrCanonicalization, err)
	}

	out, ok := normalized.(string)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected normalization result type %T", ErrCanonicalization, normalized)
	}
	return []byte(out), nil
}
