package keys

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/x509"
	"fmt"
	"math/big"

	"github.com/herculas/vc-suite-ecdsa/pkg/codec"
	"github.com/herculas/vc-suite-ecdsa/pkg/keys/curve"
)

// KeyToMaterial implements spec.md §4.3 keyToMaterial: export handle in
// SPKI (public) or PKCS#8 (private) DER form, verify the canonical
// uncompressed-form prefix and total length, and return the raw material
// that follows the prefix.
//
// DER/SPKI/PKCS#8 framing is the one concern in this module kept on the
// standard library (crypto/x509) rather than a third-party encoder — see
// DESIGN.md for why.
func KeyToMaterial(pub *ecdsa.PublicKey, priv *ecdsa.PrivateKey, flag Flag, c curve.Curve) ([]byte, error) {
	switch flag {
	case Public:
		if pub == nil {
			return nil, fmt.Errorf("%w: public key required for flag=public", ErrKeypairExport)
		}
		der, err := x509.MarshalPKIXPublicKey(pub)
		if err != nil {
			return nil, fmt.Errorf("%w: SPKI export failed: %v", ErrKeypairExport, err)
		}
		prefix := spkiPrefix(c)
		if len(der) < len(prefix) || !hasPrefix(der, prefix) {
			return nil, fmt.Errorf("%w: SPKI DER does not begin with the canonical %s prefix", ErrEncoding, c)
		}
		uncompressedLen := c.PublicKeyLen(false)
		if len(der) != len(prefix)+uncompressedLen {
			return nil, fmt.Errorf("%w: SPKI DER length %d, want %d", ErrKeypairExport, len(der), len(prefix)+uncompressedLen)
		}
		return der[len(prefix):], nil

	case Private:
		if priv == nil {
			return nil, fmt.Errorf("%w: private key required for flag=private", ErrKeypairExport)
		}
		der, err := x509.MarshalPKCS8PrivateKey(priv)
		if err != nil {
			return nil, fmt.Errorf("%w: PKCS#8 export failed: %v", ErrKeypairExport, err)
		}
		prefix := pkcs8Prefix(c)
		if len(der) < len(prefix) || !hasPrefix(der, prefix) {
			return nil, fmt.Errorf("%w: PKCS#8 DER does not begin with the canonical %s prefix", ErrEncoding, c)
		}
		privLen := c.PrivateKeyLen()
		pubLen := c.PublicKeyLen(false)
		wantLen := len(prefix) + privLen + codec.PKCS8FooterLen + pubLen
		if len(der) != wantLen {
			return nil, fmt.Errorf("%w: PKCS#8 DER length %d, want %d", ErrKeypairExport, len(der), wantLen)
		}
		return der[len(prefix) : len(prefix)+privLen], nil

	default:
		return nil, fmt.Errorf("%w: unknown flag %v", ErrEncoding, flag)
	}
}

func hasPrefix(der, prefix []byte) bool {
	for i, b := range prefix {
		if der[i] != b {
			return false
		}
	}
	return true
}

func spkiPrefix(c curve.Curve) []byte {
	switch c {
	case curve.P256:
		return codec.SPKIPrefixUncompressedP256
	case curve.P384:
		return codec.SPKIPrefixUncompressedP384
	default:
		return nil
	}
}

func pkcs8Prefix(c curve.Curve) []byte {
	switch c {
	case curve.P256:
		return codec.PKCS8PrefixUncompressedP256
	case curve.P384:
		return codec.PKCS8PrefixUncompressedP384
	default:
		return nil
	}
}

// MaterialToMultibase implements spec.md §4.3 materialToMultibase: for
// public material, compress the point and prepend the multicodec varint;
// for private material, the scalar is used verbatim. The result is
// base58btc-encoded and begins with 'z'.
func MaterialToMultibase(material []byte, flag Flag, c curve.Curve) (string, error) {
	var body []byte
	var multicodec uint64

	switch flag {
	case Public:
		coordLen := c.CoordinateLen()
		if len(material) != 2*coordLen {
			return "", fmt.Errorf("%w: public material length %d, want %d", ErrInvalidKeypairLength, len(material), 2*coordLen)
		}
		x := material[:coordLen]
		y := material[coordLen:]
		prefix := byte(0x02)
		if y[len(y)-1]&1 == 1 {
			prefix = 0x03
		}
		body = codec.Concatenate([]byte{prefix}, x)
		multicodec = multicodecPub(c)
	case Private:
		if len(material) != c.PrivateKeyLen() {
			return "", fmt.Errorf("%w: private material length %d, want %d", ErrInvalidKeypairLength, len(material), c.PrivateKeyLen())
		}
		body = material
		multicodec = multicodecPriv(c)
	default:
		return "", fmt.Errorf("%w: unknown flag %v", ErrEncoding, flag)
	}

	framed := codec.Concatenate(codec.PutUvarint(multicodec), body)
	return codec.EncodeBase58btc(framed), nil
}

// MultibaseToMaterial is the inverse of MaterialToMultibase: it validates
// the multicodec prefix and the expected compressed length for (flag, c).
func MultibaseToMaterial(s string, flag Flag, c curve.Curve) ([]byte, error) {
	raw, err := codec.DecodeBase58btc(s)
	if err != nil {
		return nil, err
	}
	mc, n := codec.Uvarint(raw)
	if n == 0 {
		return nil, fmt.Errorf("%w: malformed multicodec varint", ErrDecoding)
	}
	body := raw[n:]

	switch flag {
	case Public:
		if mc != multicodecPub(c) {
			return nil, fmt.Errorf("%w: multicodec 0x%x does not match %s public", ErrDecoding, mc, c)
		}
		if len(body) != c.PublicKeyLen(true) {
			return nil, fmt.Errorf("%w: compressed public length %d, want %d", ErrInvalidKeypairLength, len(body), c.PublicKeyLen(true))
		}
		return body, nil
	case Private:
		if mc != multicodecPriv(c) {
			return nil, fmt.Errorf("%w: multicodec 0x%x does not match %s private", ErrDecoding, mc, c)
		}
		if len(body) != c.PrivateKeyLen() {
			return nil, fmt.Errorf("%w: private length %d, want %d", ErrInvalidKeypairLength, len(body), c.PrivateKeyLen())
		}
		return body, nil
	default:
		return nil, fmt.Errorf("%w: unknown flag %v", ErrEncoding, flag)
	}
}

func multicodecPub(c curve.Curve) uint64 {
	if c == curve.P384 {
		return codec.MulticodecP384Pub
	}
	return codec.MulticodecP256Pub
}

func multicodecPriv(c curve.Curve) uint64 {
	if c == curve.P384 {
		return codec.MulticodecP384Priv
	}
	return codec.MulticodecP256Priv
}

// MaterialToPrivateKey implements spec.md §4.3 materialToPrivateKey: builds
// the scalar into an *ecdsa.PrivateKey and re-derives X/Y via scalar-base
// multiplication, since the raw material carries only d.
func MaterialToPrivateKey(material []byte, c curve.Curve) (*ecdsa.PrivateKey, error) {
	if len(material) != c.PrivateKeyLen() {
		return nil, fmt.Errorf("%w: private material length %d, want %d", ErrInvalidKeypairLength, len(material), c.PrivateKeyLen())
	}
	ec := c.EC()
	d := new(big.Int).SetBytes(material)
	x, y := ec.ScalarBaseMult(material)
	return &ecdsa.PrivateKey{
		PublicKey: ecdsa.PublicKey{Curve: ec, X: x, Y: y},
		D:         d,
	}, nil
}

// MaterialToPublicKey implements spec.md §4.3 materialToPublicKey: prepend
// the uncompressed-point SPKI prefix and re-import via crypto/x509, which
// normalizes the representation the way a double SPKI/JWK round-trip would
// across differing runtimes.
func MaterialToPublicKey(material []byte, c curve.Curve) (*ecdsa.PublicKey, error) {
	coordLen := c.CoordinateLen()
	if len(material) != 2*coordLen {
		return nil, fmt.Errorf("%w: public material length %d, want %d", ErrInvalidKeypairLength, len(material), 2*coordLen)
	}
	der := codec.Concatenate(spkiPrefix(c), material)
	pub, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: SPKI import failed: %v", ErrKeypairImport, err)
	}
	ecPub, ok := pub.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: SPKI payload is not an EC public key", ErrKeypairImport)
	}
	return ecPub, nil
}

// compressPoint derives the compressed point form (sign‖x) from X, Y
// coordinates using the standard library's constant-time encoder.
func compressPoint(ec elliptic.Curve, x, y *big.Int) []byte {
	return elliptic.MarshalCompressed(ec, x, y)
}

// CompressedToPublicKey is MaterialToPublicKey's counterpart for already-
// compressed point bytes (as carried inside a Multikey publicKeyMultibase,
// or the ecdsa-sd-2023 proof-scoped public key): it decompresses directly
// rather than routing through the SPKI uncompressed-prefix import, since a
// compressed point has no SPKI prefix to prepend.
func CompressedToPublicKey(compressed []byte, c curve.Curve) (*ecdsa.PublicKey, error) {
	if len(compressed) != c.PublicKeyLen(true) {
		return nil, fmt.Errorf("%w: compressed public length %d, want %d", ErrInvalidKeypairLength, len(compressed), c.PublicKeyLen(true))
	}
	ec := c.EC()
	x, y := elliptic.UnmarshalCompressed(ec, compressed)
	if x == nil {
		return nil, fmt.Errorf("%w: invalid compressed point", ErrKeypairImport)
	}
	return &ecdsa.PublicKey{Curve: ec, X: x, Y: y}, nil
}
