package suite

import (
	"time"

	"github.com/herculas/vc-suite-ecdsa/pkg/keys"
)

// ProofType is the fixed `type` member every Data Integrity proof carries.
const ProofType = "DataIntegrityProof"

// Cryptosuite names the two suites this package implements directly (the
// third, ecdsa-sd-2023, lives in pkg/sd since its pipeline does not fit this
// shared core).
const (
	CryptosuiteRDFC2019 = "ecdsa-rdfc-2019"
	CryptosuiteJCS2019  = "ecdsa-jcs-2019"
)

// ProofOptions carries the caller-supplied proof configuration fields from
// spec.md §3 ("Proof options / Proof").
type ProofOptions struct {
	VerificationMethod string
	ProofPurpose       string
	Created            time.Time
	Domain             string
	Challenge          string
}

// VerificationMethodResolver resolves a verification method id to the
// ECKeypair it names. DID resolution and document-loader network access are
// out of scope (spec.md §1 non-goals); callers wire this against
// pkg/docloader plus pkg/keys.Import.
type VerificationMethodResolver func(id string) (*keys.ECKeypair, error)

// VerifyResult is the suite's verifyProof return value from spec.md §6:
// the verified document is only populated when Verified is true.
type VerifyResult struct {
	Verified bool
	Document map[string]interface{}
}
