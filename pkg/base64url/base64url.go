package base64url

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ErrDecode is returned for input outside the URL-safe alphabet or with an invalid length/padding.
var ErrDecode = errors.New("base64url: invalid input")

var strictEncoding = base64.URLEncoding.Strict()

// Encode returns the unpadded URL-safe base64 form of b.
func Encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// Decode parses unpadded URL-safe base64. Padding characters are rejected like any
// other character outside the alphabet.
func Decode(s string) ([]byte, error) {
	for i := 0; i < len(s); i++ {
		if !isAlphabet(s[i]) {
			return nil, ErrDecode
		}
	}

	if rem := len(s) % 4; rem > 0 {
		s += strings.Repeat("=", 4-rem)
	}

	out, err := strictEncoding.DecodeString(s)
	if err != nil {
		return nil, errors.Join(ErrDecode, err)
	}
	return out, nil
}

func isAlphabet(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '_':
		return true
	}
	return false
}
