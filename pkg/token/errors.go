package token

import (
	"errors"

	"github.com/dmitrymomot/hseal/pkg/secrets"
)

// Every failed operation reports exactly one of these kinds; match with errors.Is.
var (
	ErrMalformedToken   = errors.New("token: malformed")
	ErrUnknownKey       = errors.New("token: unknown key id")
	ErrInvalidSignature = errors.New("token: invalid signature")
	ErrTokenNotYetValid = errors.New("token: not yet valid")
	ErrTokenExpired     = errors.New("token: expired")
	ErrAudienceMismatch = errors.New("token: audience mismatch")
	ErrSubjectMismatch  = errors.New("token: subject mismatch")
	ErrReplayDetected   = errors.New("token: replay detected")

	// ErrReplayUnavailable means the replay guard failed or timed out; verification fails closed.
	ErrReplayUnavailable = errors.New("token: replay guard unavailable")

	ErrInvalidConfiguration = secrets.ErrInvalidConfiguration
	ErrInvalidParameter     = secrets.ErrInvalidParameter
)
