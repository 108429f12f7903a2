package codec

import "errors"

// ErrDecoding is returned when a multibase string is malformed or carries an
// unexpected leading (base) character.
var ErrDecoding = errors.New("codec: decoding error")
