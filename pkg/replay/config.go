package replay

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Supported backend names.
const (
	BackendNone     = "none"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

// Config selects and tunes the replay backend.
type Config struct {
	Backend         string        `env:"HSEAL_REPLAY_BACKEND" envDefault:"memory"`                      // none, memory, redis, postgres or mongo
	Timeout         time.Duration `env:"HSEAL_REPLAY_TIMEOUT" envDefault:"2s"`                          // Per-call bound for networked backends
	Prefix          string        `env:"HSEAL_REPLAY_PREFIX" envDefault:"hseal:jti:"`                   // Redis key prefix
	MinTTL          time.Duration `env:"HSEAL_REPLAY_MIN_TTL" envDefault:"30s"`                         // Minimum retention of a consumed id
	SweepInterval   time.Duration `env:"HSEAL_REPLAY_SWEEP_INTERVAL" envDefault:"1m"`                   // Memory backend cleanup period
	MongoDatabase   string        `env:"HSEAL_REPLAY_MONGO_DATABASE" envDefault:"hseal"`                // Database holding the consumed ids
	MongoCollection string        `env:"HSEAL_REPLAY_MONGO_COLLECTION" envDefault:"hseal_consumed_jti"` // Collection holding the consumed ids
}

// Clients carries the connections a backend may need. Only the one matching
// Config.Backend has to be set.
type Clients struct {
	Redis    redis.UniversalClient
	Postgres PostgresDB
	Mongo    *mongo.Client
}

// NewFromConfig builds the configured guard. Networked backends are wrapped
// with WithTimeout. The Mongo backend creates its TTL index.
func NewFromConfig(ctx context.Context, cfg Config, clients Clients, log *slog.Logger) (Guard, error) {
	opts := []Option{
		WithPrefix(cfg.Prefix),
		WithMinTTL(cfg.MinTTL),
		WithSweepInterval(cfg.SweepInterval),
		WithLogger(log),
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case BackendNone, "":
		return Nop{}, nil
	case BackendMemory:
		return NewMemory(opts...), nil
	case BackendRedis:
		if clients.Redis == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingClient, BackendRedis)
		}
		return WithTimeout(NewRedis(clients.Redis, opts...), cfg.Timeout), nil
	case BackendPostgres:
		if clients.Postgres == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingClient, BackendPostgres)
		}
		return WithTimeout(NewPostgres(clients.Postgres, opts...), cfg.Timeout), nil
	case BackendMongo:
		if clients.Mongo == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingClient, BackendMongo)
		}
		collection := cfg.MongoCollection
		if collection == "" {
			collection = DefaultMongoCollection
		}
		g := NewMongo(clients.Mongo.Database(cfg.MongoDatabase).Collection(collection), opts...)
		if err := g.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		return WithTimeout(g, cfg.Timeout), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
}

// Close releases guards that hold resources, such as the memory sweep goroutine.
func Close(g Guard) error {
	if c, ok := g.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
