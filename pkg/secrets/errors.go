package secrets

import "errors"

var (
	// Caller misuse detected eagerly at call time.
	ErrInvalidConfiguration = errors.New("secrets: invalid configuration")
	ErrInvalidParameter     = errors.New("secrets: invalid parameter")

	ErrKeyDerivationFailed = errors.New("secrets: key derivation failed")
	ErrRandomFailed        = errors.New("secrets: random source failed")
	ErrInvalidKeyFile      = errors.New("secrets: invalid key file")
)
