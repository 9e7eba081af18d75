package csrf

import "errors"

var (
	ErrMissingCookie = errors.New("csrf: cookie not found")
	ErrMissingToken  = errors.New("csrf: submitted token not found")
	ErrTokenMismatch = errors.New("csrf: submitted token does not match cookie")
)
