package server

import "errors"

var (
	ErrUserNotFound       = errors.New("server: user not found")
	ErrInvalidCredentials = errors.New("server: invalid credentials")
	ErrUserExists         = errors.New("server: user already exists")
	ErrWeakPassword       = errors.New("server: password too short")
	ErrPasswordTooLong    = errors.New("server: password longer than 72 bytes")
	ErrResetFailed        = errors.New("server: password was not changed, request a new reset link")
)
