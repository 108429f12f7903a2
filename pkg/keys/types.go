package keys

import (
	"crypto/ecdsa"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/herculas/vc-suite-ecdsa/pkg/keys/curve"
)

// Flag selects which half of a keypair a conversion operates on.
type Flag string

const (
	Public  Flag = "public"
	Private Flag = "private"
)

// ECKeypair is the ordered record described in spec.md §3: a curve,
// optional id/controller/expires/revoked metadata, and an optional public
// and/or private key handle.
type ECKeypair struct {
	Curve      curve.Curve
	ID         string
	Controller string
	Expires    *time.Time
	Revoked    *time.Time
	PublicKey  *ecdsa.PublicKey
	PrivateKey *ecdsa.PrivateKey
}

// New constructs an empty keypair for c. Callers typically follow this with
// Initialize, or populate PublicKey/PrivateKey directly via an import path.
func New(c curve.Curve, controller string) (*ECKeypair, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: unsupported curve %v", ErrEncoding, c)
	}
	return &ECKeypair{Curve: c, Controller: controller}, nil
}

// Initialize generates a fresh keypair for kp.Curve and, if kp.ID is empty
// and kp.Controller is set, assigns kp.ID = "<controller>#<fingerprint>".
func (kp *ECKeypair) Initialize() error {
	priv, err := ecdsa.GenerateKey(kp.Curve.EC(), rand.Reader)
	if err != nil {
		return fmt.Errorf("%w: key generation failed: %v", ErrEncoding, err)
	}
	kp.PrivateKey = priv
	kp.PublicKey = &priv.PublicKey
	if kp.ID == "" && kp.Controller != "" {
		fp, err := kp.GenerateFingerprint()
		if err != nil {
			return err
		}
		kp.ID = fmt.Sprintf("%s#%s", kp.Controller, fp)
	}
	return kp.checkInvariants()
}

// checkInvariants enforces the "id must begin with controller" rule from
// spec.md §3.
func (kp *ECKeypair) checkInvariants() error {
	if kp.ID != "" && kp.Controller != "" {
		if len(kp.ID) < len(kp.Controller) || kp.ID[:len(kp.Controller)] != kp.Controller {
			return fmt.Errorf("%w: id %q must begin with controller %q", ErrInvalidKeypairContent, kp.ID, kp.Controller)
		}
	}
	return nil
}

// CheckLifecycle returns ErrKeypairExpired if checkExpired/checkRevoked is
// requested and the corresponding timestamp has passed.
func (kp *ECKeypair) CheckLifecycle(checkExpired, checkRevoked bool) error {
	now := time.Now().UTC()
	if checkExpired && kp.Expires != nil && now.After(*kp.Expires) {
		return fmt.Errorf("%w: expired at %s", ErrKeypairExpired, kp.Expires.Format(time.RFC3339))
	}
	if checkRevoked && kp.Revoked != nil && now.After(*kp.Revoked) {
		return fmt.Errorf("%w: revoked at %s", ErrKeypairExpired, kp.Revoked.Format(time.RFC3339))
	}
	return nil
}

// JWK is an EC-type JSON Web Key, per RFC 7517, carrying only the members
// this suite needs (no key operations, no x5c chain, ...).
type JWK struct {
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	X   string `json:"x"`
	Y   string `json:"y"`
	D   string `json:"d,omitempty"`
}

// VerificationMethod is the variant type from spec.md §3: either a Multikey
// or a JsonWebKey shape, sharing the common {id, type, controller, expires,
// revoked} header.
type VerificationMethod struct {
	ID         string
	Type       string // "Multikey" or "JsonWebKey"
	Controller string
	Expires    *time.Time
	Revoked    *time.Time

	// Multikey fields.
	PublicKeyMultibase string
	SecretKeyMultibase string

	// JsonWebKey fields.
	PublicKeyJWK *JWK
	SecretKeyJWK *JWK
}

const (
	TypeMultikey  = "Multikey"
	TypeJsonWebKey = "JsonWebKey"
)
