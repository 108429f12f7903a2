package suite

import "errors"

// Error kinds for the RDFC/JCS proof pipeline, named after spec.md §7.
var (
	ErrProofTransformation    = errors.New("suite: proof transformation error")
	ErrProofGeneration        = errors.New("suite: proof generation error")
	ErrProofVerification      = errors.New("suite: proof verification error")
	ErrInvalidVerificationMethod = errors.New("suite: invalid verification method")
)
