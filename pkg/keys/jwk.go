package keys

import (
	"crypto"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"

	"github.com/herculas/vc-suite-ecdsa/pkg/codec"
	"github.com/herculas/vc-suite-ecdsa/pkg/keys/curve"
	jwxjwk "github.com/lestrrat-go/jwx/jwk"
)

// KeyToJwk builds this suite's JWK value object from a raw key handle,
// going through lestrrat-go/jwx so that field values (base64url encodings
// of x/y/d) match the ecosystem's own EC JWK serialization, per the pattern
// in dc4eu-vc's internal/issuer/apiv1/jwk.go.
func KeyToJwk(pub *ecdsa.PublicKey, priv *ecdsa.PrivateKey, flag Flag) (*JWK, error) {
	var raw any
	switch flag {
	case Public:
		if pub == nil {
			return nil, fmt.Errorf("%w: public key required for flag=public", ErrKeypairExport)
		}
		raw = pub
	case Private:
		if priv == nil {
			return nil, fmt.Errorf("%w: private key required for flag=private", ErrKeypairExport)
		}
		raw = priv
	default:
		return nil, fmt.Errorf("%w: unknown flag %v", ErrEncoding, flag)
	}

	key, err := jwxjwk.New(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: JWK export failed: %v", ErrKeypairExport, err)
	}
	buf, err := json.Marshal(key)
	if err != nil {
		return nil, fmt.Errorf("%w: JWK serialization failed: %v", ErrKeypairExport, err)
	}
	var out JWK
	if err := json.Unmarshal(buf, &out); err != nil {
		return nil, fmt.Errorf("%w: JWK serialization failed: %v", ErrKeypairExport, err)
	}
	if out.Kty != "EC" {
		return nil, fmt.Errorf("%w: unexpected kty %q", ErrEncoding, out.Kty)
	}
	return &out, nil
}

// JwkToKey parses j back into a raw key handle, requiring d iff flag is
// Private, and crv to be one of the two supported curves.
func JwkToKey(j *JWK, flag Flag) (*ecdsa.PublicKey, *ecdsa.PrivateKey, curve.Curve, error) {
	if j == nil || j.Kty != "EC" {
		return nil, nil, "", fmt.Errorf("%w: kty must be EC", ErrDecoding)
	}
	c := curve.Curve(j.Crv)
	if !c.Valid() {
		return nil, nil, "", fmt.Errorf("%w: unsupported crv %q", ErrDecoding, j.Crv)
	}
	if flag == Private && j.D == "" {
		return nil, nil, "", fmt.Errorf("%w: private import requires 'd'", ErrDecoding)
	}

	buf, err := json.Marshal(j)
	if err != nil {
		return nil, nil, "", fmt.Errorf("%w: %v", ErrDecoding, err)
	}
	key, err := jwxjwk.ParseKey(buf)
	if err != nil {
		return nil, nil, "", fmt.Errorf("%w: JWK parse failed: %v", ErrKeypairImport, err)
	}

	if flag == Private {
		var priv ecdsa.PrivateKey
		if err := key.Raw(&priv); err != nil {
			return nil, nil, "", fmt.Errorf("%w: %v", ErrKeypairImport, err)
		}
		return &priv.PublicKey, &priv, c, nil
	}

	var pub ecdsa.PublicKey
	if err := key.Raw(&pub); err != nil {
		return nil, nil, "", fmt.Errorf("%w: %v", ErrKeypairImport, err)
	}
	return &pub, nil, c, nil
}

// Thumbprint computes the RFC 7638 JWK thumbprint (base64url-no-pad of
// SHA-256 over the canonical member-sorted JSON serialization), delegated
// to lestrrat-go/jwx so two engines that agree on field order agree on the
// thumbprint too, per the recommendation in spec.md §9.
func Thumbprint(j *JWK) (string, error) {
	buf, err := json.Marshal(j)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	key, err := jwxjwk.ParseKey(buf)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	sum, err := key.Thumbprint(crypto.SHA256)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	return codec.EncodeBase64urlNoPad(sum)[1:], nil
}
