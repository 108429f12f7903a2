// Package codec implements the leaf-level byte/string transcodings shared by
// the key and selective-disclosure layers: hex, byte concatenation,
// multibase-wrapped base58btc and base64url-no-pad, and the multicodec
// varint headers used by Multikey verification methods.
package codec

import (
	"encoding/hex"
	"fmt"

	"github.com/multiformats/go-multibase"
)

// HexToBytes decodes a hex string with no leading "0x" into its raw bytes.
func HexToBytes(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecoding, err)
	}
	return b, nil
}

// BytesToHex encodes bytes as a lowercase hex string with no leading "0x".
func BytesToHex(b []byte) string {
	return hex.EncodeToString(b)
}

// Concatenate joins byte slices in order.
func Concatenate(parts ...[]byte) []byte {
	var n int
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// EncodeBase58btc multibase-encodes data using the Bitcoin base58 alphabet;
// the result begins with 'z'.
func EncodeBase58btc(data []byte) string {
	s, err := multibase.Encode(multibase.Base58BTC, data)
	if err != nil {
		// multibase.Encode only fails for unsupported encodings; Base58BTC
		// is always supported, so this is unreachable in practice.
		panic(fmt.Sprintf("codec: base58btc encode: %v", err))
	}
	return s
}

// DecodeBase58btc decodes a 'z'-prefixed multibase base58btc string.
func DecodeBase58btc(s string) ([]byte, error) {
	if s == "" || s[0] != 'z' {
		return nil, fmt.Errorf("%w: base58btc string must start with 'z'", ErrDecoding)
	}
	enc, data, err := multibase.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecoding, err)
	}
	if enc != multibase.Base58BTC {
		return nil, fmt.Errorf("%w: unexpected multibase encoding %v", ErrDecoding, enc)
	}
	return data, nil
}

// EncodeBase64urlNoPad multibase-encodes data as RFC 4648 §5 base64url
// without padding; the result begins with 'u'.
func EncodeBase64urlNoPad(data []byte) string {
	s, err := multibase.Encode(multibase.Base64url, data)
	if err != nil {
		panic(fmt.Sprintf("codec: base64url encode: %v", err))
	}
	return s
}

// DecodeBase64urlNoPad decodes a 'u'-prefixed multibase base64url string.
func DecodeBase64urlNoPad(s string) ([]byte, error) {
	if s == "" || s[0] != 'u' {
		return nil, fmt.Errorf("%w: base64url string must start with 'u'", ErrDecoding)
	}
	enc, data, err := multibase.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecoding, err)
	}
	if enc != multibase.Base64url {
		return nil, fmt.Errorf("%w: unexpected multibase encoding %v", ErrDecoding, enc)
	}
	return data, nil
}

// Multicodec codepoints for Multikey-encoded ECDSA keys, per
// https://github.com/multiformats/multicodec/blob/master/table.csv. These
// are the raw codepoints, not the varint-encoded bytes: PutUvarint(n) turns
// each into its two-byte wire header (e.g. 0x1200 -> 0x80 0x24).
const (
	MulticodecP256Pub  uint64 = 0x1200
	MulticodecP384Pub  uint64 = 0x1201
	MulticodecP256Priv uint64 = 0x1306
	MulticodecP384Priv uint64 = 0x1307
)

// PutUvarint encodes n as an unsigned LEB128 varint.
func PutUvarint(n uint64) []byte {
	buf := make([]byte, 0, 10)
	for n >= 0x80 {
		buf = append(buf, byte(n)|0x80)
		n >>= 7
	}
	return append(buf, byte(n))
}

// Uvarint decodes an unsigned LEB128 varint from the front of buf, returning
// the value and the number of bytes consumed. It returns 0 bytes consumed on
// malformed input.
func Uvarint(buf []byte) (uint64, int) {
	var x uint64
	var s uint
	for i, b := range buf {
		if i == 9 && b > 1 {
			return 0, 0
		}
		if b < 0x80 {
			return x | uint64(b)<<s, i + 1
		}
		x |= uint64(b&0x7f) << s
		s += 7
	}
	return 0, 0
}
