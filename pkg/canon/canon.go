// Package canon provides the two canonicalization algorithms spec.md §9
// dispatches between: RDF Dataset Canonicalization (RDFC-1.0 / URDNA2015)
// and the JSON Canonicalization Scheme (JCS, RFC 8785). Both implementations
// share one Canonicalizer interface so pkg/suite can treat the choice of
// cryptosuite as a single injected dependency, the way
// dc4eu-vc/pkg/vc20/rdfcanon.Canonicalizer was meant to be used before the
// JCS half was ever added.
package canon

import "errors"

// ErrCanonicalization is returned, wrapped, for any failure encountered
// while transforming a document into its canonical form.
var ErrCanonicalization = errors.New("canon: canonicalization error")

// Canonicalizer transforms a parsed JSON-LD document (the
// map[string]interface{}/[]interface{} shape produced by encoding/json) into
// its canonical serialized form.
type Canonicalizer interface {
	Canonicalize(doc interface{}) ([]byte, error)
}
