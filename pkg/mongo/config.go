package mongo

import "time"

// Config holds the MongoDB connection settings of the replay backend.
type Config struct {
	ConnectionURL   string        `env:"MONGODB_URL"`                                // mongodb://host:27017
	ConnectTimeout  time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`   // Per-attempt connect timeout
	MaxPoolSize     uint64        `env:"MONGODB_MAX_POOL_SIZE" envDefault:"50"`      // Pool size upper bound
	MinPoolSize     uint64        `env:"MONGODB_MIN_POOL_SIZE" envDefault:"1"`       // Connections kept warm
	MaxConnIdleTime time.Duration `env:"MONGODB_MAX_CONN_IDLE_TIME" envDefault:"5m"` // Idle connection lifetime
	RetryWrites     bool          `env:"MONGODB_RETRY_WRITES" envDefault:"true"`     // Retry writes on transient errors
	RetryReads      bool          `env:"MONGODB_RETRY_READS" envDefault:"true"`      // Retry reads on transient errors
	RetryAttempts   int           `env:"MONGODB_RETRY_ATTEMPTS" envDefault:"3"`      // Connection attempts before giving up
	RetryInterval   time.Duration `env:"MONGODB_RETRY_INTERVAL" envDefault:"2s"`     // Delay between attempts
}
