package sd

import (
	"encoding/base64"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// baseProofHeader and derivedProofHeader are the three-byte CBOR tag
// prefixes spec.md mandates for ecdsa-sd-2023 proof values, distinguishing
// a base proof from a derived one before any CBOR decoding happens.
var (
	baseProofHeader    = [3]byte{0xd9, 0x5d, 0x00}
	derivedProofHeader = [3]byte{0xd9, 0x5d, 0x01}
)

// baseProofValue is the CBOR array an issuer embeds in proofValue, grounded
// on dc4eu-vc's BaseProofValueArray (sd_types.go) with the same
// `cbor:",toarray"` framing so field order, not field name, fixes the wire
// layout.
type baseProofValue struct {
	_                 struct{} `cbor:",toarray"`
	BaseSignature     []byte
	PublicKey         []byte
	HMACKey           []byte
	Signatures        [][]byte
	MandatoryPointers []string
}

// derivedProofValue is the CBOR array a holder embeds in a derived
// proofValue, grounded on dc4eu-vc's DerivedProofValueArray.
type derivedProofValue struct {
	_                struct{} `cbor:",toarray"`
	BaseSignature    []byte
	PublicKey        []byte
	Signatures       [][]byte
	CompressedLabels map[int][]byte
	MandatoryIndexes []int
}

func encodeBaseProofValue(v baseProofValue) (string, error) {
	payload, err := cbor.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w: CBOR-encoding base proof: %v", ErrProofGeneration, err)
	}
	return encodeProofValue(baseProofHeader, payload), nil
}

func decodeBaseProofValue(proofValue string) (*baseProofValue, error) {
	payload, err := decodeProofValue(proofValue, baseProofHeader)
	if err != nil {
		return nil, err
	}
	var v baseProofValue
	if err := cbor.Unmarshal(payload, &v); err != nil {
		return nil, fmt.Errorf("%w: CBOR-decoding base proof: %v", ErrInvalidBaseProof, err)
	}
	if err := validateBaseProofValue(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

// validateBaseProofValue enforces spec.md §4.5.1's field-length assertions:
// a base signature of 64 (P-256) or 96 (P-384) bytes, an exactly 35-byte
// multicodec-prefixed compressed P-256 proof-scoped public key, a 32-byte
// HMAC key, and 64-byte (P-256/SHA-256) per-statement signatures.
func validateBaseProofValue(v *baseProofValue) error {
	if len(v.BaseSignature) != 64 && len(v.BaseSignature) != 96 {
		return fmt.Errorf("%w: base signature length %d, want 64 or 96", ErrInvalidBaseProof, len(v.BaseSignature))
	}
	if len(v.PublicKey) != 35 {
		return fmt.Errorf("%w: proof-scoped public key length %d, want 35", ErrInvalidBaseProof, len(v.PublicKey))
	}
	if len(v.HMACKey) != 32 {
		return fmt.Errorf("%w: HMAC key length %d, want 32", ErrInvalidBaseProof, len(v.HMACKey))
	}
	for i, sig := range v.Signatures {
		if len(sig) != 64 {
			return fmt.Errorf("%w: statement signature %d length %d, want 64", ErrInvalidBaseProof, i, len(sig))
		}
	}
	return nil
}

func encodeDerivedProofValue(v derivedProofValue) (string, error) {
	payload, err := cbor.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w: CBOR-encoding derived proof: %v", ErrProofGeneration, err)
	}
	return encodeProofValue(derivedProofHeader, payload), nil
}

func decodeDerivedProofValue(proofValue string) (*derivedProofValue, error) {
	payload, err := decodeProofValue(proofValue, derivedProofHeader)
	if err != nil {
		return nil, err
	}
	var v derivedProofValue
	if err := cbor.Unmarshal(payload, &v); err != nil {
		return nil, fmt.Errorf("%w: CBOR-decoding derived proof: %v", ErrInvalidDerivedProof, err)
	}
	if err := validateDerivedProofValue(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

// validateDerivedProofValue mirrors validateBaseProofValue's field-length
// assertions for the fields a derived proof value carries forward verbatim
// from the base proof.
func validateDerivedProofValue(v *derivedProofValue) error {
	if len(v.BaseSignature) != 64 && len(v.BaseSignature) != 96 {
		return fmt.Errorf("%w: base signature length %d, want 64 or 96", ErrInvalidDerivedProof, len(v.BaseSignature))
	}
	if len(v.PublicKey) != 35 {
		return fmt.Errorf("%w: proof-scoped public key length %d, want 35", ErrInvalidDerivedProof, len(v.PublicKey))
	}
	for i, sig := range v.Signatures {
		if len(sig) != 64 {
			return fmt.Errorf("%w: statement signature %d length %d, want 64", ErrInvalidDerivedProof, i, len(sig))
		}
	}
	return nil
}

// encodeProofValue prepends header to payload and multibase-encodes the
// result as base64url-no-pad, matching the "u" prefix convention spec.md
// uses throughout for binary proof values.
func encodeProofValue(header [3]byte, payload []byte) string {
	buf := make([]byte, 0, len(header)+len(payload))
	buf = append(buf, header[:]...)
	buf = append(buf, payload...)
	return "u" + base64.RawURLEncoding.EncodeToString(buf)
}

func decodeProofValue(proofValue string, wantHeader [3]byte) ([]byte, error) {
	if len(proofValue) == 0 || proofValue[0] != 'u' {
		return nil, fmt.Errorf("%w: proof value missing multibase 'u' prefix", ErrInvalidBaseProof)
	}
	raw, err := base64.RawURLEncoding.DecodeString(proofValue[1:])
	if err != nil {
		return nil, fmt.Errorf("%w: base64url-decoding proof value: %v", ErrInvalidBaseProof, err)
	}
	if len(raw) < 3 || raw[0] != wantHeader[0] || raw[1] != wantHeader[1] || raw[2] != wantHeader[2] {
		return nil, fmt.Errorf("%w: unexpected proof value header", ErrInvalidBaseProof)
	}
	return raw[3:], nil
}
