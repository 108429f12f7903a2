// Package digest implements the curve-to-hash mapping used throughout the
// suite: P-256 always hashes with SHA-256, P-384 always hashes with SHA-384,
// per spec.md §4.2. No other curve is ever accepted.
package digest

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	"github.com/herculas/vc-suite-ecdsa/pkg/keys/curve"
)

// ErrUnsupportedCurve is returned when Digest is asked to hash for a curve
// it does not recognize.
var ErrUnsupportedCurve = fmt.Errorf("digest: unsupported curve")

// Digest hashes data with the algorithm mandated for c, returning the raw
// digest bytes (32 for P-256, 48 for P-384).
func Digest(c curve.Curve, data []byte) ([]byte, error) {
	switch c {
	case curve.P256:
		h := sha256.Sum256(data)
		return h[:], nil
	case curve.P384:
		h := sha512.Sum384(data)
		return h[:], nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedCurve, c)
	}
}

// Size returns the digest length in bytes for c.
func Size(c curve.Curve) (int, error) {
	switch c {
	case curve.P256:
		return sha256.Size, nil
	case curve.P384:
		return sha512.Size384, nil
	default:
		return 0, fmt.Errorf("%w: %v", ErrUnsupportedCurve, c)
	}
}

// HashFunc returns the hash.Hash constructor mandated for c, for use with
// crypto/hmac.New and similar APIs that take a hash constructor rather than
// operating on a fixed-size digest directly.
func HashFunc(c curve.Curve) (func() hash.Hash, error) {
	switch c {
	case curve.P256:
		return sha256.New, nil
	case curve.P384:
		return sha512.New384, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedCurve, c)
	}
}

// NewHMACKeySize returns the digest size, in bytes, of c's hash algorithm
// (32 for SHA-256, 48 for SHA-384), the HMAC key length RFC 2104
// recommends as a minimum for that hash.
func NewHMACKeySize(c curve.Curve) (int, error) {
	return Size(c)
}
