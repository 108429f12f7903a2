package keys

import (
	"fmt"

	"github.com/herculas/vc-suite-ecdsa/pkg/keys/curve"
)

// ExportOptions controls Export: Type selects Multikey vs JsonWebKey, Flag
// selects which half of the keypair to emit.
type ExportOptions struct {
	Type string
	Flag Flag
}

// Export builds the verification-method value object for kp, per the
// `ECKeypair` surface in spec.md §6.
func (kp *ECKeypair) Export(opts ExportOptions) (*VerificationMethod, error) {
	switch opts.Type {
	case TypeMultikey, "":
		return KeypairToMultibase(kp, opts.Flag)
	case TypeJsonWebKey:
		return KeypairToJwk(kp, opts.Flag)
	default:
		return nil, fmt.Errorf("%w: unknown verification method type %q", ErrInvalidKeypairContent, opts.Type)
	}
}

// ImportOptions controls Import. Curve overrides multicodec-prefix curve
// inference for Multikey inputs; CheckContext is accepted for API symmetry
// with spec.md §6 but is a no-op here since this module does not model
// verification-method JSON-LD contexts (the document loader is the
// context-aware layer, see pkg/docloader).
type ImportOptions struct {
	Curve        string
	CheckContext bool
	CheckExpired bool
	CheckRevoked bool
}

// Import is the static constructor from spec.md §6: given a verification
// method, produce an ECKeypair, optionally enforcing expiry/revocation.
func Import(vm *VerificationMethod, opts ImportOptions) (*ECKeypair, error) {
	var kp *ECKeypair
	var err error

	switch vm.Type {
	case TypeMultikey:
		hint := InferCurve(vm)
		if opts.Curve != "" {
			hint = CurveHint(curve.Curve(opts.Curve))
		}
		kp, err = MultibaseToKeypair(vm, hint)
	case TypeJsonWebKey:
		kp, err = JwkToKeypair(vm)
	default:
		return nil, fmt.Errorf("%w: unknown verification method type %q", ErrInvalidKeypairContent, vm.Type)
	}
	if err != nil {
		return nil, err
	}

	if err := kp.CheckLifecycle(opts.CheckExpired, opts.CheckRevoked); err != nil {
		return nil, err
	}
	return kp, nil
}
