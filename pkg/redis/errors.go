package redis

import "errors"

var (
	ErrEmptyConnectionURL           = errors.New("redis: empty connection url")
	ErrFailedToParseRedisConnString = errors.New("redis: invalid connection url")
	ErrRedisNotReady                = errors.New("redis: not ready before the connect deadline")
	ErrHealthcheckFailed            = errors.New("redis: healthcheck failed")
)
