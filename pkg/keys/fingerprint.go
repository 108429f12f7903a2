package keys

import (
	"fmt"

	"github.com/herculas/vc-suite-ecdsa/pkg/codec"
)

// GenerateFingerprint computes the pure function of (curve, compressed
// public point) described in spec.md §9: base58btc(multicodec-varint ‖
// compressed-point). It never depends on the in-memory key handle's vendor
// representation.
func (kp *ECKeypair) GenerateFingerprint() (string, error) {
	if kp.PublicKey == nil {
		return "", fmt.Errorf("%w: fingerprint requires a public key", ErrInvalidKeypairContent)
	}
	compressed := compressPoint(kp.Curve.EC(), kp.PublicKey.X, kp.PublicKey.Y)
	framed := codec.Concatenate(codec.PutUvarint(multicodecPub(kp.Curve)), compressed)
	return codec.EncodeBase58btc(framed), nil
}

// VerifyFingerprint reports whether fp is the fingerprint this keypair's
// public key would generate.
func (kp *ECKeypair) VerifyFingerprint(fp string) (bool, error) {
	got, err := kp.GenerateFingerprint()
	if err != nil {
		return false, err
	}
	return got == fp, nil
}
