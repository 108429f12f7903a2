package keys

import (
	"errors"
	"testing"
	"time"

	"github.com/herculas/vc-suite-ecdsa/pkg/keys/curve"
)

func newTestKeypair(t *testing.T, c curve.Curve) *ECKeypair {
	t.Helper()
	kp, err := New(c, "https://example.com/issuer/1")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := kp.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return kp
}

func TestMultikeyRoundTrip(t *testing.T) {
	for _, c := range []curve.Curve{curve.P256, curve.P384} {
		kp := newTestKeypair(t, c)

		vm, err := kp.Export(ExportOptions{Type: TypeMultikey, Flag: Private})
		if err != nil {
			t.Fatalf("[%s] Export(private): %v", c, err)
		}
		if vm.PublicKeyMultibase == "" || vm.SecretKeyMultibase == "" {
			t.Fatalf("[%s] expected both multibase fields populated", c)
		}

		got, err := Import(vm, ImportOptions{})
		if err != nil {
			t.Fatalf("[%s] Import: %v", c, err)
		}
		if got.Curve != c {
			t.Errorf("[%s] curve = %v", c, got.Curve)
		}
		if got.PublicKey.X.Cmp(kp.PublicKey.X) != 0 || got.PublicKey.Y.Cmp(kp.PublicKey.Y) != 0 {
			t.Errorf("[%s] public key mismatch after round trip", c)
		}
		if got.PrivateKey.D.Cmp(kp.PrivateKey.D) != 0 {
			t.Errorf("[%s] private key mismatch after round trip", c)
		}
	}
}

func TestJwkRoundTrip(t *testing.T) {
	for _, c := range []curve.Curve{curve.P256, curve.P384} {
		kp := newTestKeypair(t, c)

		vm, err := kp.Export(ExportOptions{Type: TypeJsonWebKey, Flag: Private})
		if err != nil {
			t.Fatalf("[%s] Export(private): %v", c, err)
		}
		if vm.PublicKeyJWK == nil || vm.SecretKeyJWK == nil {
			t.Fatalf("[%s] expected both JWK fields populated", c)
		}
		if vm.ID == "" {
			t.Errorf("[%s] expected id to be set from thumbprint", c)
		}

		got, err := Import(vm, ImportOptions{})
		if err != nil {
			t.Fatalf("[%s] Import: %v", c, err)
		}
		if got.PublicKey.X.Cmp(kp.PublicKey.X) != 0 || got.PublicKey.Y.Cmp(kp.PublicKey.Y) != 0 {
			t.Errorf("[%s] public key mismatch after round trip", c)
		}
		if got.PrivateKey.D.Cmp(kp.PrivateKey.D) != 0 {
			t.Errorf("[%s] private key mismatch after round trip", c)
		}
	}
}

func TestThumbprintStable(t *testing.T) {
	kp := newTestKeypair(t, curve.P256)
	pubJwk, err := KeyToJwk(kp.PublicKey, nil, Public)
	if err != nil {
		t.Fatalf("KeyToJwk: %v", err)
	}
	a, err := Thumbprint(pubJwk)
	if err != nil {
		t.Fatalf("Thumbprint: %v", err)
	}
	b, err := Thumbprint(pubJwk)
	if err != nil {
		t.Fatalf("Thumbprint: %v", err)
	}
	if a != b {
		t.Errorf("thumbprint not stable: %q vs %q", a, b)
	}
}

func TestFingerprintVerify(t *testing.T) {
	kp := newTestKeypair(t, curve.P384)
	fp, err := kp.GenerateFingerprint()
	if err != nil {
		t.Fatalf("GenerateFingerprint: %v", err)
	}
	ok, err := kp.VerifyFingerprint(fp)
	if err != nil {
		t.Fatalf("VerifyFingerprint: %v", err)
	}
	if !ok {
		t.Errorf("expected fingerprint to verify")
	}
	ok, err = kp.VerifyFingerprint(fp + "x")
	if err != nil {
		t.Fatalf("VerifyFingerprint: %v", err)
	}
	if ok {
		t.Errorf("expected mangled fingerprint to fail verification")
	}
}

func TestCheckLifecycleExpired(t *testing.T) {
	kp := newTestKeypair(t, curve.P256)

	if err := kp.CheckLifecycle(true, true); err != nil {
		t.Errorf("fresh keypair should not be expired/revoked: %v", err)
	}

	past := time.Now().Add(-time.Hour)
	kp.Expires = &past
	if err := kp.CheckLifecycle(true, false); !errors.Is(err, ErrKeypairExpired) {
		t.Errorf("expected ErrKeypairExpired for a past expiry, got %v", err)
	}
}

func TestImportRejectsUnknownType(t *testing.T) {
	vm := &VerificationMethod{Type: "UnknownType"}
	if _, err := Import(vm, ImportOptions{}); err == nil {
		t.Errorf("expected error for unknown verification method type")
	}
}

func TestMultibasePrivateRequiresKey(t *testing.T) {
	kp, err := New(curve.P256, "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := kp.Export(ExportOptions{Type: TypeMultikey, Flag: Private}); err == nil {
		t.Errorf("expected error exporting private half of an uninitialized keypair")
	}
}
