package sd

import "errors"

// Error kinds for the selective-disclosure core, named after spec.md §7.
var (
	ErrProofGeneration   = errors.New("sd: proof generation error")
	ErrProofVerification = errors.New("sd: proof verification error")
	ErrInvalidBaseProof  = errors.New("sd: malformed base proof value")
	ErrInvalidDerivedProof = errors.New("sd: malformed derived proof value")
)
