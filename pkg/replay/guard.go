package replay

import (
	"context"
	"time"
)

// Guard records consumed token ids. TryConsume returns true only for the first
// consumption of jti within ttl and must be atomic at the storage layer.
// It satisfies token.ReplayGuard.
type Guard interface {
	TryConsume(ctx context.Context, jti string, ttl time.Duration) (bool, error)
}

// Nop accepts every token. Use it when single-use enforcement is not required.
type Nop struct{}

func (Nop) TryConsume(context.Context, string, time.Duration) (bool, error) {
	return true, nil
}
