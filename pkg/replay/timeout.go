package replay

import (
	"context"
	"errors"
	"time"
)

// DefaultTimeout bounds a single call to a networked guard.
const DefaultTimeout = 2 * time.Second

type timeoutGuard struct {
	next    Guard
	timeout time.Duration
}

// WithTimeout bounds every TryConsume call on next. A call that runs out of
// time returns an error wrapping context.DeadlineExceeded, which the token
// manager reports as an unavailable guard. Non-positive timeouts return next.
func WithTimeout(next Guard, timeout time.Duration) Guard {
	if timeout <= 0 {
		return next
	}
	return &timeoutGuard{next: next, timeout: timeout}
}

func (g *timeoutGuard) TryConsume(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	type result struct {
		ok  bool
		err error
	}
	done := make(chan result, 1)
	go func() {
		ok, err := g.next.TryConsume(ctx, jti, ttl)
		done <- result{ok, err}
	}()

	select {
	case r := <-done:
		return r.ok, r.err
	case <-ctx.Done():
		return false, errors.Join(ErrBackendFailed, ctx.Err())
	}
}
