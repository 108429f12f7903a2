package sd

import (
	"crypto/ecdsa"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/herculas/vc-suite-ecdsa/pkg/canon"
	"github.com/herculas/vc-suite-ecdsa/pkg/codec"
	"github.com/herculas/vc-suite-ecdsa/pkg/digest"
	"github.com/herculas/vc-suite-ecdsa/pkg/keys"
	"github.com/herculas/vc-suite-ecdsa/pkg/keys/curve"
	"github.com/herculas/vc-suite-ecdsa/pkg/suite"
)

const Cryptosuite = "ecdsa-sd-2023"

// CreateBaseProof implements spec.md §4.5.1: the issuer side of the
// selective-disclosure suite. kp signs the base proof under its own curve;
// the per-statement signatures always use a fresh, proof-scoped P-256
// keypair regardless of kp's curve (spec.md §9's resolution of the SD
// proof-scoped key question).
func CreateBaseProof(rdfc *canon.RDFC, doc map[string]interface{}, opts suite.ProofOptions, mandatoryPointers []string, kp *keys.ECKeypair) (map[string]interface{}, error) {
	if kp == nil || kp.PrivateKey == nil {
		return nil, fmt.Errorf("%w: signing requires a private key", ErrProofGeneration)
	}

	hmacKey, err := randomBytes(32)
	if err != nil {
		return nil, fmt.Errorf("%w: generating HMAC key: %v", ErrProofGeneration, err)
	}
	labelFn, err := NewHMACLabelFunc(hmacKey, kp.Curve)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProofGeneration, err)
	}

	grouped, err := canonicalizeAndGroup(rdfc, doc, Groups{"mandatory": mandatoryPointers}, labelFn)
	if err != nil {
		return nil, err
	}
	mandatory := grouped.Groups["mandatory"].Matching
	nonMandatory := grouped.NonMatching("mandatory")

	created := opts.Created
	if created.IsZero() {
		created = time.Now().UTC()
	}
	proofConfig := map[string]interface{}{
		"type":               suite.ProofType,
		"cryptosuite":        Cryptosuite,
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
	canonicalProofConfig, err := rdfc.Canonicalize(proofConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProofGeneration, err)
	}

	proofHash, err := digest.Digest(kp.Curve, canonicalProofConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProofGeneration, err)
	}
	mandatoryHash, err := hashMandatoryNQuads(orderedNQuads(mandatory), kp.Curve)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProofGeneration, err)
	}

	psk, err := ecdsa.GenerateKey(curve.P256.EC(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: generating proof-scoped keypair: %v", ErrProofGeneration, err)
	}

	nonMandatoryLines := orderedNQuads(nonMandatory)
	signatures := make([][]byte, len(nonMandatoryLines))
	for i, line := range nonMandatoryLines {
		sig, err := signP256(psk, []byte(line))
		if err != nil {
			return nil, fmt.Errorf("%w: signing statement %d: %v", ErrProofGeneration, i, err)
		}
		signatures[i] = sig
	}

	pskMaterial, err := keys.KeyToMaterial(&psk.PublicKey, nil, keys.Public, curve.P256)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding proof-scoped public key: %v", ErrProofGeneration, err)
	}
	pskMultibase, err := keys.MaterialToMultibase(pskMaterial, keys.Public, curve.P256)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProofGeneration, err)
	}
	publicKey, err := codec.DecodeBase58btc(pskMultibase)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProofGeneration, err)
	}

	toSign := codec.Concatenate(proofHash, publicKey, mandatoryHash)
	baseSignature, err := signIssuer(kp, toSign)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProofGeneration, err)
	}

	zeroize(psk)

	proofValue, err := encodeBaseProofValue(baseProofValue{
		BaseSignature:     baseSignature,
		PublicKey:         publicKey,
		HMACKey:           hmacKey,
		Signatures:        signatures,
		MandatoryPointers: mandatoryPointers,
	})
	if err != nil {
		return nil, err
	}
	proofConfig["proofValue"] = proofValue

	out := make(map[string]interface{}, len(doc)+1)
	for k, v := range doc {
		out[k] = v
	}
	out["proof"] = proofConfig
	return out, nil
}

func randomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// zeroize overwrites the proof-scoped private scalar. Go's garbage
// collector may have already copied it elsewhere; this only bounds the
// window the bytes are reachable through psk itself.
func zeroize(psk *ecdsa.PrivateKey) {
	if psk == nil || psk.D == nil {
		return
	}
	psk.D.SetInt64(0)
}
