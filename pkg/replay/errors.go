package replay

import "errors"

var (
	ErrEmptyID         = errors.New("replay: empty token id")
	ErrClosed          = errors.New("replay: guard is closed")
	ErrUnknownBackend  = errors.New("replay: unknown backend")
	ErrMissingClient   = errors.New("replay: backend client is not configured")
	ErrBackendFailed   = errors.New("replay: backend operation failed")
	ErrFailedToMigrate = errors.New("replay: failed to create storage")
)
