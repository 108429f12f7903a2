package keys

import "errors"

// Error kinds per spec.md §7. Each is a sentinel so callers can branch with
// errors.Is; call sites wrap these with additional context via %w.
var (
	ErrEncoding             = errors.New("keys: encoding error")
	ErrDecoding             = errors.New("keys: decoding error")
	ErrInvalidKeypairContent = errors.New("keys: invalid keypair content")
	ErrInvalidKeypairLength  = errors.New("keys: invalid keypair length")
	ErrKeypairExport         = errors.New("keys: keypair export error")
	ErrKeypairImport         = errors.New("keys: keypair import error")
	ErrKeypairExpired        = errors.New("keys: keypair expired")
)
