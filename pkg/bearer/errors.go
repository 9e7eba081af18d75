package bearer

import "errors"

var (
	ErrMissingAuthorization = errors.New("missing Authorization header")
	ErrInvalidAuthorization = errors.New("invalid Authorization header format")
)
