package codec

import (
	"bytes"
	"testing"
)

func TestHexRoundTrip(t *testing.T) {
	b := []byte{0x01, 0x02, 0xab, 0xff}
	h := BytesToHex(b)
	if h != "0102abff" {
		t.Fatalf("unexpected hex encoding: %s", h)
	}
	back, err := HexToBytes(h)
	if err != nil {
		t.Fatalf("HexToBytes() error = %v", err)
	}
	if !bytes.Equal(back, b) {
		t.Fatalf("round-trip mismatch: got %x, want %x", back, b)
	}
}

func TestConcatenate(t *testing.T) {
	got := Concatenate([]byte{1, 2}, []byte{3}, []byte{4, 5})
	want := []byte{1, 2, 3, 4, 5}
	if !bytes.Equal(got, want) {
		t.Fatalf("Concatenate() = %v, want %v", got, want)
	}
}

func TestBase58btcRoundTrip(t *testing.T) {
	data := []byte{0x80, 0x24, 0x02, 0x01, 0x02, 0x03}
	enc := EncodeBase58btc(data)
	if enc[0] != 'z' {
		t.Fatalf("expected 'z' prefix, got %q", enc[:1])
	}
	dec, err := DecodeBase58btc(enc)
	if err != nil {
		t.Fatalf("DecodeBase58btc() error = %v", err)
	}
	if !bytes.Equal(dec, data) {
		t.Fatalf("round-trip mismatch: got %x, want %x", dec, data)
	}
}

func TestDecodeBase58btcRejectsWrongPrefix(t *testing.T) {
	if _, err := DecodeBase58btc("uAQID"); err == nil {
		t.Fatal("expected error for non-'z' prefixed string")
	}
}

func TestBase64urlNoPadRoundTrip(t *testing.T) {
	data := []byte("hello world, selective disclosure")
	enc := EncodeBase64urlNoPad(data)
	if enc[0] != 'u' {
		t.Fatalf("expected 'u' prefix, got %q", enc[:1])
	}
	dec, err := DecodeBase64urlNoPad(enc)
	if err != nil {
		t.Fatalf("DecodeBase64urlNoPad() error = %v", err)
	}
	if !bytes.Equal(dec, data) {
		t.Fatalf("round-trip mismatch: got %s, want %s", dec, data)
	}
}

func TestUvarintRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 127, 128, 300, 0x1200, 0x1307, 1 << 32}
	for _, c := range cases {
		buf := PutUvarint(c)
		got, n := Uvarint(buf)
		if n != len(buf) {
			t.Fatalf("Uvarint() consumed %d bytes, want %d for value %d", n, len(buf), c)
		}
		if got != c {
			t.Fatalf("Uvarint() = %d, want %d", got, c)
		}
	}
}
