package sd

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/herculas/vc-suite-ecdsa/pkg/codec"
	"github.com/herculas/vc-suite-ecdsa/pkg/keys"
	"github.com/herculas/vc-suite-ecdsa/pkg/keys/curve"
)

// rawSign produces a fixed-width r‖s signature, matching the encoding
// pkg/suite uses for RDFC/JCS proofs: each coordinate padded to keyBytes.
func rawSign(priv *ecdsa.PrivateKey, data []byte, keyBytes int) ([]byte, error) {
	r, s, err := ecdsa.Sign(rand.Reader, priv, data)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 2*keyBytes)
	r.FillBytes(out[:keyBytes])
	s.FillBytes(out[keyBytes:])
	return out, nil
}

func rawVerify(pub *ecdsa.PublicKey, data, signature []byte, keyBytes int) bool {
	if len(signature) != 2*keyBytes {
		return false
	}
	r := new(big.Int).SetBytes(signature[:keyBytes])
	s := new(big.Int).SetBytes(signature[keyBytes:])
	return ecdsa.Verify(pub, data, r, s)
}

// signP256 signs raw statement bytes with the proof-scoped keypair, always
// P-256/SHA-256 per spec.md §4.5.1 step 6, producing a 64-byte signature.
func signP256(psk *ecdsa.PrivateKey, statement []byte) ([]byte, error) {
	h := sha256.Sum256(statement)
	return rawSign(psk, h[:], curve.P256.PrivateKeyLen())
}

func verifyP256(pub *ecdsa.PublicKey, statement, signature []byte) bool {
	h := sha256.Sum256(statement)
	return rawVerify(pub, h[:], signature, curve.P256.PrivateKeyLen())
}

// signIssuer signs toSign (already the hash-stage input) under kp's own
// curve, matching pkg/suite's sign convention.
func signIssuer(kp *keys.ECKeypair, toSign []byte) ([]byte, error) {
	return rawSign(kp.PrivateKey, toSign, kp.Curve.PrivateKeyLen())
}

func verifyIssuer(kp *keys.ECKeypair, toVerify, signature []byte) bool {
	return rawVerify(kp.PublicKey, toVerify, signature, kp.Curve.PrivateKeyLen())
}

// pskFromMaterial decodes a 35-byte multicodec-prefixed compressed P-256
// point (spec.md §4.5.1 step 6's publicKey bytes) back into a public key.
func pskFromMaterial(material []byte) (*ecdsa.PublicKey, error) {
	mc, n := codec.Uvarint(material)
	if n == 0 {
		return nil, fmt.Errorf("%w: malformed multicodec varint in proof-scoped public key", ErrInvalidBaseProof)
	}
	if mc != codec.MulticodecP256Pub {
		return nil, fmt.Errorf("%w: proof-scoped public key multicodec 0x%x, want P-256", ErrInvalidBaseProof, mc)
	}
	return keys.CompressedToPublicKey(material[n:], curve.P256)
}
