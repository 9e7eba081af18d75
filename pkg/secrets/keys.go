package secrets

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/dmitrymomot/hseal/pkg/base64url"
)

const (
	// MinSecretSize is the minimum accepted length of a signing secret.
	MinSecretSize = 32

	// DerivedKeySize is the length of per-purpose signing keys.
	DerivedKeySize = 32

	// Output length bounds accepted by HKDF.
	MinDerivedKeySize = 16
	MaxDerivedKeySize = 64

	// DefaultIDSize is the number of random bytes behind key ids and token ids.
	DefaultIDSize = 12
)

// HMACSHA256 returns the 32-byte HMAC-SHA256 tag of message under key.
func HMACSHA256(key, message []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(message)
	return mac.Sum(nil)
}

// Equal reports whether a and b are identical. Lengths are compared first; for
// equal lengths the comparison time does not depend on where the bytes differ.
func Equal(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return hmac.Equal(a, b)
}

// HKDFSHA256 derives length bytes from ikm using RFC 5869 extract-and-expand.
// length must be within [MinDerivedKeySize, MaxDerivedKeySize].
// The caller owns the returned key and should release it with Wipe when done.
func HKDFSHA256(ikm, salt, info []byte, length int) ([]byte, error) {
	if length < MinDerivedKeySize || length > MaxDerivedKeySize {
		return nil, fmt.Errorf("%w: hkdf output length must be between %d and %d bytes, got %d",
			ErrInvalidParameter, MinDerivedKeySize, MaxDerivedKeySize, length)
	}

	out := make([]byte, length)
	if _, err := io.ReadFull(hkdf.New(sha256.New, ikm, salt, info), out); err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}
	return out, nil
}

// Wipe zeroes b in place.
func Wipe(b []byte) {
	clear(b)
}

// GenerateKey creates a new random secret of MinSecretSize bytes.
func GenerateKey() ([]byte, error) {
	key := make([]byte, MinSecretSize)
	if _, err := rand.Read(key); err != nil {
		return nil, errors.Join(ErrRandomFailed, err)
	}
	return key, nil
}

// RandomID returns a cryptographically random, URL-safe identifier built from
// size random bytes. It is used for key ids and token ids alike.
func RandomID(size int) (string, error) {
	if size < 1 {
		return "", fmt.Errorf("%w: random id size must be >= 1, got %d", ErrInvalidParameter, size)
	}
	raw := make([]byte, size)
	if _, err := rand.Read(raw); err != nil {
		return "", errors.Join(ErrRandomFailed, err)
	}
	return base64url.Encode(raw), nil
}
