package replay

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis stores consumed ids as keys with an expiry, using SET NX so the
// first writer wins across every verifier sharing the server.
type Redis struct {
	client redis.UniversalClient
	opts   options
}

func NewRedis(client redis.UniversalClient, opts ...Option) *Redis {
	return &Redis{client: client, opts: newOptions(opts)}
}

func (g *Redis) TryConsume(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	if jti == "" {
		return false, ErrEmptyID
	}

	ok, err := g.client.SetNX(ctx, g.opts.prefix+jti, 1, g.opts.ttl(ttl)).Result()
	if err != nil {
		return false, errors.Join(ErrBackendFailed, err)
	}
	return ok, nil
}
