// Package suite implements the shared four-stage pipeline (transform,
// configure, hash, sign/verify) behind the ecdsa-rdfc-2019 and
// ecdsa-jcs-2019 cryptosuites, generalizing
// dc4eu-vc/pkg/vc20/crypto/ecdsa.Suite to both curves and both
// canonicalization algorithms via pkg/canon and pkg/digest.
package suite

import (
	"crypto/ecdsa"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/herculas/vc-suite-ecdsa/pkg/canon"
	"github.com/herculas/vc-suite-ecdsa/pkg/codec"
	"github.com/herculas/vc-suite-ecdsa/pkg/digest"
	"github.com/herculas/vc-suite-ecdsa/pkg/keys"
	"github.com/herculas/vc-suite-ecdsa/pkg/keys/curve"
)

// Suite is one configured cryptosuite instance: a name ("ecdsa-rdfc-2019" or
// "ecdsa-jcs-2019") bound to the canonicalizer that implements it.
type Suite struct {
	Cryptosuite string
	canonicalizer canon.Canonicalizer
}

// NewRDFC2019 builds the ecdsa-rdfc-2019 suite, canonicalizing through
// json-gold's URDNA2015 implementation resolved via loader.
func NewRDFC2019(rdfc *canon.RDFC) *Suite {
	return &Suite{Cryptosuite: CryptosuiteRDFC2019, canonicalizer: rdfc}
}

// NewJCS2019 builds the ecdsa-jcs-2019 suite.
func NewJCS2019() *Suite {
	return &Suite{Cryptosuite: CryptosuiteJCS2019, canonicalizer: canon.NewJCS()}
}

// CreateProof implements spec.md §4.4's transform/configure/hash/serialize
// pipeline on the sign side. doc must not already carry the proof being
// created. kp must hold a private key on the curve the issuer intends to
// sign with.
func (s *Suite) CreateProof(doc map[string]interface{}, opts ProofOptions, kp *keys.ECKeypair) (map[string]interface{}, error) {
	if kp == nil || kp.PrivateKey == nil {
		return nil, fmt.Errorf("%w: signing requires a private key", ErrInvalidVerificationMethod)
	}

	created := opts.Created
	if created.IsZero() {
		created = time.Now().UTC()
	}

	proofConfig := map[string]interface{}{
		"type":               ProofType,
		"cryptosuite":        s.Cryptosuite,
		"verificationMethod": opts.VerificationMethod,
		"proofPurpose":       opts.ProofPurpose,
		"created":            created.Format(time.RFC3339),
	}
	if docContext, ok := doc["@context"]; ok {
		proofConfig["@context"] = docContext
	}
	if opts.Domain != "" {
		proofConfig["domain"] = opts.Domain
	}
	if opts.Challenge != "" {
		proofConfig["challenge"] = opts.Challenge
	}

	// Transform: canonicalize the unsecured document.
	transformedDocument, err := s.canonicalizer.Canonicalize(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProofTransformation, err)
	}

	// Configure: canonicalize the proof options.
	canonicalProofConfig, err := s.canonicalizer.Canonicalize(proofConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProofGeneration, err)
	}

	// Hash.
	hashData, err := s.hash(kp.Curve, canonicalProofConfig, transformedDocument)
	if err != nil {
		return nil, err
	}

	// Sign.
	signature, err := signRaw(kp.PrivateKey, hashData, kp.Curve)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProofGeneration, err)
	}
	proofConfig["proofValue"] = codec.EncodeBase58btc(signature)

	out := cloneMap(doc)
	out["proof"] = proofConfig
	return out, nil
}

// VerifyProof implements the verify side of spec.md §4.4. resolve is
// consulted with the proof's verificationMethod id to obtain the signer's
// public key.
func (s *Suite) VerifyProof(securedDoc map[string]interface{}, resolve VerificationMethodResolver) (VerifyResult, error) {
	proofNode, err := extractProof(securedDoc, s.Cryptosuite)
	if err != nil {
		return VerifyResult{}, err
	}

	proofValue, _ := proofNode["proofValue"].(string)
	if proofValue == "" {
		return VerifyResult{}, fmt.Errorf("%w: missing proofValue", ErrProofVerification)
	}
	if created, ok := proofNode["created"].(string); ok {
		if _, err := time.Parse(time.RFC3339, created); err != nil {
			return VerifyResult{}, fmt.Errorf("%w: invalid created %q: %v", ErrProofGeneration, created, err)
		}
	}

	proofConfig := cloneMap(proofNode)
	delete(proofConfig, "proofValue")
	if docContext, ok := securedDoc["@context"]; ok {
		proofConfig["@context"] = docContext
	}

	docWithoutProof := cloneMap(securedDoc)
	delete(docWithoutProof, "proof")

	transformedDocument, err := s.canonicalizer.Canonicalize(docWithoutProof)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("%w: %v", ErrProofTransformation, err)
	}
	canonicalProofConfig, err := s.canonicalizer.Canonicalize(proofConfig)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("%w: %v", ErrProofVerification, err)
	}

	vmID, _ := proofNode["verificationMethod"].(string)
	kp, err := resolve(vmID)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("%w: %v", ErrInvalidVerificationMethod, err)
	}
	if kp == nil || kp.PublicKey == nil {
		return VerifyResult{}, fmt.Errorf("%w: resolved verification method has no public key", ErrInvalidVerificationMethod)
	}

	hashData, err := s.hash(kp.Curve, canonicalProofConfig, transformedDocument)
	if err != nil {
		return VerifyResult{}, err
	}

	signature, err := codec.DecodeBase58btc(proofValue)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("%w: %v", ErrProofVerification, err)
	}

	verified, err := verifyRaw(kp.PublicKey, hashData, signature, kp.Curve)
	if err != nil {
		return VerifyResult{}, fmt.Errorf("%w: %v", ErrProofVerification, err)
	}

	result := VerifyResult{Verified: verified}
	if verified {
		result.Document = docWithoutProof
	}
	return result, nil
}

func (s *Suite) hash(c curve.Curve, canonicalProofConfig, transformedDocument []byte) ([]byte, error) {
	proofHash, err := digest.Digest(c, canonicalProofConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProofGeneration, err)
	}
	docHash, err := digest.Digest(c, transformedDocument)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProofGeneration, err)
	}
	return codec.Concatenate(proofHash, docHash), nil
}

// signRaw signs hashData directly (it is already the digest input the spec
// calls for), padding r‖s to two curve-width halves.
func signRaw(priv *ecdsa.PrivateKey, hashData []byte, c curve.Curve) ([]byte, error) {
	r, sVal, err := ecdsa.Sign(rand.Reader, priv, hashData)
	if err != nil {
		return nil, err
	}
	keyBytes := c.PrivateKeyLen()
	out := make([]byte, 2*keyBytes)
	r.FillBytes(out[:keyBytes])
	sVal.FillBytes(out[keyBytes:])
	return out, nil
}

func verifyRaw(pub *ecdsa.PublicKey, hashData, signature []byte, c curve.Curve) (bool, error) {
	keyBytes := c.PrivateKeyLen()
	if len(signature) != 2*keyBytes {
		return false, fmt.Errorf("signature length %d, want %d", len(signature), 2*keyBytes)
	}
	r := new(big.Int).SetBytes(signature[:keyBytes])
	sVal := new(big.Int).SetBytes(signature[keyBytes:])
	return ecdsa.Verify(pub, hashData, r, sVal), nil
}

// extractProof locates the proof object matching cryptosuite within doc's
// "proof" member, which per the VC data model may be a single object or an
// array of proofs.
func extractProof(doc map[string]interface{}, cryptosuite string) (map[string]interface{}, error) {
	raw, ok := doc["proof"]
	if !ok {
		return nil, fmt.Errorf("%w: document has no proof", ErrProofVerification)
	}

	check := func(m map[string]interface{}) bool {
		t, _ := m["type"].(string)
		cs, _ := m["cryptosuite"].(string)
		return t == ProofType && cs == cryptosuite
	}

	switch v := raw.(type) {
	case map[string]interface{}:
		if !check(v) {
			return nil, fmt.Errorf("%w: proof type/cryptosuite does not match %s", ErrProofTransformation, cryptosuite)
		}
		return v, nil
	case []interface{}:
		for _, item := range v {
			if m, ok := item.(map[string]interface{}); ok && check(m) {
				return m, nil
			}
		}
		return nil, fmt.Errorf("%w: no proof matches cryptosuite %s", ErrProofTransformation, cryptosuite)
	default:
		return nil, fmt.Errorf("%w: unexpected proof member type %T", ErrProofTransformation, raw)
	}
}

func cloneMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
