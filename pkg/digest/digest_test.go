package digest

import (
	"testing"

	"github.com/herculas/vc-suite-ecdsa/pkg/keys/curve"
)

func TestDigestLengths(t *testing.T) {
	cases := []struct {
		c    curve.Curve
		want int
	}{
		{curve.P256, 32},
		{curve.P384, 48},
	}
	for _, tc := range cases {
		got, err := Digest(tc.c, []byte("hello"))
		if err != nil {
			t.Fatalf("Digest(%v) error = %v", tc.c, err)
		}
		if len(got) != tc.want {
			t.Fatalf("Digest(%v) length = %d, want %d", tc.c, len(got), tc.want)
		}
	}
}

func TestDigestUnsupportedCurve(t *testing.T) {
	if _, err := Digest(curve.Curve("P-521"), []byte("x")); err == nil {
		t.Fatal("expected error for unsupported curve")
	}
}

func TestDigestDeterministic(t *testing.T) {
	a, _ := Digest(curve.P256, []byte("same input"))
	b, _ := Digest(curve.P256, []byte("same input"))
	if string(a) != string(b) {
		t.Fatal("digest is not deterministic")
	}
}

func TestHashFuncMatchesDigest(t *testing.T) {
	for _, c := range []curve.Curve{curve.P256, curve.P384} {
		hashFn, err := HashFunc(c)
		if err != nil {
			t.Fatalf("HashFunc(%v): %v", c, err)
		}
		h := hashFn()
		h.Write([]byte("hello"))
		want, err := Digest(c, []byte("hello"))
		if err != nil {
			t.Fatalf("Digest(%v): %v", c, err)
		}
		if string(h.Sum(nil)) != string(want) {
			t.Errorf("HashFunc(%v) does not match Digest(%v)", c, c)
		}
	}
}
