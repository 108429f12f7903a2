package keys

import (
	"fmt"

	"github.com/herculas/vc-suite-ecdsa/pkg/codec"
	"github.com/herculas/vc-suite-ecdsa/pkg/keys/curve"
)

// KeypairToMultibase builds a Multikey verification method for kp, per the
// case table in spec.md §4.3.
func KeypairToMultibase(kp *ECKeypair, flag Flag) (*VerificationMethod, error) {
	vm := &VerificationMethod{
		Type:       TypeMultikey,
		Controller: kp.Controller,
		Expires:    kp.Expires,
		Revoked:    kp.Revoked,
		ID:         kp.ID,
	}

	switch flag {
	case Private:
		if kp.PrivateKey == nil {
			return nil, fmt.Errorf("%w: private export requires a private key", ErrInvalidKeypairContent)
		}
		secretMaterial, err := KeyToMaterial(kp.PublicKey, kp.PrivateKey, Private, kp.Curve)
		if err != nil {
			return nil, err
		}
		secretMB, err := MaterialToMultibase(secretMaterial, Private, kp.Curve)
		if err != nil {
			return nil, err
		}
		vm.SecretKeyMultibase = secretMB

		if kp.PublicKey != nil {
			pubMaterial, err := KeyToMaterial(kp.PublicKey, nil, Public, kp.Curve)
			if err != nil {
				return nil, err
			}
			pubMB, err := MaterialToMultibase(pubMaterial, Public, kp.Curve)
			if err != nil {
				return nil, err
			}
			vm.PublicKeyMultibase = pubMB
		}
		return vm, nil

	case Public:
		if kp.PublicKey == nil {
			return nil, fmt.Errorf("%w: public export requires a public key", ErrInvalidKeypairContent)
		}
		pubMaterial, err := KeyToMaterial(kp.PublicKey, nil, Public, kp.Curve)
		if err != nil {
			return nil, err
		}
		pubMB, err := MaterialToMultibase(pubMaterial, Public, kp.Curve)
		if err != nil {
			return nil, err
		}
		vm.PublicKeyMultibase = pubMB
		return vm, nil

	default:
		return nil, fmt.Errorf("%w: unknown flag %v", ErrEncoding, flag)
	}
}

// KeypairToJwk builds a JsonWebKey verification method for kp. Per spec.md
// §4.3, whenever the public JWK is emitted the id is set to
// "<controller>#<public JWK thumbprint>", even on the secret-emitting path,
// so a holder can locate the matching public key independent of which half
// was shared. A keypair with no controller keeps kp.ID.
func KeypairToJwk(kp *ECKeypair, flag Flag) (*VerificationMethod, error) {
	vm := &VerificationMethod{
		Type:       TypeJsonWebKey,
		Controller: kp.Controller,
		Expires:    kp.Expires,
		Revoked:    kp.Revoked,
	}

	switch flag {
	case Private:
		if kp.PrivateKey == nil {
			return nil, fmt.Errorf("%w: private export requires a private key", ErrInvalidKeypairContent)
		}
		secretJwk, err := KeyToJwk(kp.PublicKey, kp.PrivateKey, Private)
		if err != nil {
			return nil, err
		}
		vm.SecretKeyJWK = secretJwk

		if kp.PublicKey != nil {
			pubJwk, err := KeyToJwk(kp.PublicKey, nil, Public)
			if err != nil {
				return nil, err
			}
			vm.PublicKeyJWK = pubJwk
			if err := setIDFromThumbprint(vm, kp, pubJwk); err != nil {
				return nil, err
			}
		}
		return vm, nil

	case Public:
		if kp.PublicKey == nil {
			return nil, fmt.Errorf("%w: public export requires a public key", ErrInvalidKeypairContent)
		}
		pubJwk, err := KeyToJwk(kp.PublicKey, nil, Public)
		if err != nil {
			return nil, err
		}
		vm.PublicKeyJWK = pubJwk
		if err := setIDFromThumbprint(vm, kp, pubJwk); err != nil {
			return nil, err
		}
		return vm, nil

	default:
		return nil, fmt.Errorf("%w: unknown flag %v", ErrEncoding, flag)
	}
}

func setIDFromThumbprint(vm *VerificationMethod, kp *ECKeypair, pubJwk *JWK) error {
	if kp.Controller == "" {
		vm.ID = kp.ID
		return nil
	}
	tp, err := Thumbprint(pubJwk)
	if err != nil {
		return err
	}
	vm.ID = fmt.Sprintf("%s#%s", kp.Controller, tp)
	return nil
}

// MultibaseToKeypair is the inverse constructor for a Multikey verification
// method: it requires at least one of public/secret to be present.
func MultibaseToKeypair(vm *VerificationMethod, c curveHint) (*ECKeypair, error) {
	if vm.PublicKeyMultibase == "" && vm.SecretKeyMultibase == "" {
		return nil, fmt.Errorf("%w: Multikey verification method has neither key", ErrInvalidKeypairContent)
	}

	kp := &ECKeypair{
		ID:         vm.ID,
		Controller: vm.Controller,
		Expires:    vm.Expires,
		Revoked:    vm.Revoked,
	}

	resolvedCurve, err := c.resolve()
	if err != nil {
		return nil, err
	}
	kp.Curve = resolvedCurve

	if vm.SecretKeyMultibase != "" {
		material, err := MultibaseToMaterial(vm.SecretKeyMultibase, Private, kp.Curve)
		if err != nil {
			return nil, err
		}
		priv, err := MaterialToPrivateKey(material, kp.Curve)
		if err != nil {
			return nil, err
		}
		kp.PrivateKey = priv
		kp.PublicKey = &priv.PublicKey
	}
	if vm.PublicKeyMultibase != "" {
		material, err := MultibaseToMaterial(vm.PublicKeyMultibase, Public, kp.Curve)
		if err != nil {
			return nil, err
		}
		// Multikey carries the compressed point; MaterialToPublicKey expects
		// the uncompressed form keyToMaterial produces, so decompress here
		// instead.
		pub, err := CompressedToPublicKey(material, kp.Curve)
		if err != nil {
			return nil, err
		}
		kp.PublicKey = pub
	}
	return kp, nil
}

// JwkToKeypair is the inverse constructor for a JsonWebKey verification
// method: it requires at least one of public/secret to be present.
func JwkToKeypair(vm *VerificationMethod) (*ECKeypair, error) {
	if vm.PublicKeyJWK == nil && vm.SecretKeyJWK == nil {
		return nil, fmt.Errorf("%w: JsonWebKey verification method has neither key", ErrInvalidKeypairContent)
	}

	kp := &ECKeypair{
		ID:         vm.ID,
		Controller: vm.Controller,
		Expires:    vm.Expires,
		Revoked:    vm.Revoked,
	}

	if vm.SecretKeyJWK != nil {
		pub, priv, c, err := JwkToKey(vm.SecretKeyJWK, Private)
		if err != nil {
			return nil, err
		}
		kp.Curve = c
		kp.PrivateKey = priv
		kp.PublicKey = pub
	}
	if vm.PublicKeyJWK != nil {
		pub, _, c, err := JwkToKey(vm.PublicKeyJWK, Public)
		if err != nil {
			return nil, err
		}
		if kp.Curve != "" && kp.Curve != c {
			return nil, fmt.Errorf("%w: public/secret JWK curve mismatch", ErrInvalidKeypairContent)
		}
		kp.Curve = c
		kp.PublicKey = pub
	}
	return kp, nil
}

// curveHint lets MultibaseToKeypair accept either an explicit curve or
// "infer from the multicodec prefix", per the optional `curve?` parameter on
// the static `import` operation in spec.md §6.
type curveHint struct {
	explicit curve.Curve
	vm       *VerificationMethod
}

// CurveHint builds a curveHint that trusts the caller's explicit curve.
func CurveHint(explicit curve.Curve) curveHint { return curveHint{explicit: explicit} }

// InferCurve builds a curveHint that inspects vm's multicodec prefix to
// determine the curve.
func InferCurve(vm *VerificationMethod) curveHint { return curveHint{vm: vm} }

func (h curveHint) resolve() (curve.Curve, error) {
	if h.explicit != "" {
		if !h.explicit.Valid() {
			return "", fmt.Errorf("%w: unsupported curve %q", ErrEncoding, h.explicit)
		}
		return h.explicit, nil
	}
	if h.vm == nil {
		return "", fmt.Errorf("%w: no curve hint available", ErrInvalidKeypairContent)
	}
	s := h.vm.PublicKeyMultibase
	if s == "" {
		s = h.vm.SecretKeyMultibase
	}
	return inferCurveFromMultibase(s)
}

// inferCurveFromMultibase decodes just enough of s to read the multicodec
// varint and map it back to a Curve.
func inferCurveFromMultibase(s string) (curve.Curve, error) {
	raw, err := codec.DecodeBase58btc(s)
	if err != nil {
		return "", err
	}
	mc, n := codec.Uvarint(raw)
	if n == 0 {
		return "", fmt.Errorf("%w: malformed multicodec varint", ErrDecoding)
	}
	switch mc {
	case codec.MulticodecP256Pub, codec.MulticodecP256Priv:
		return curve.P256, nil
	case codec.MulticodecP384Pub, codec.MulticodecP384Priv:
		return curve.P384, nil
	default:
		return "", fmt.Errorf("%w: unrecognized multicodec 0x%x", ErrDecoding, mc)
	}
}
