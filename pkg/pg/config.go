package pg

import "time"

// Config holds the Postgres connection settings of the replay backend.
type Config struct {
	ConnectionString  string        `env:"PG_CONN_URL,required"`                  // Postgres connection URL
	MaxOpenConns      int32         `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`     // Pool size upper bound
	MaxIdleConns      int32         `env:"PG_MAX_IDLE_CONNS" envDefault:"2"`      // Connections kept warm
	HealthCheckPeriod time.Duration `env:"PG_HEALTHCHECK_PERIOD" envDefault:"1m"` // Pool health check period
	MaxConnIdleTime   time.Duration `env:"PG_MAX_CONN_IDLE_TIME" envDefault:"10m"`
	MaxConnLifetime   time.Duration `env:"PG_MAX_CONN_LIFETIME" envDefault:"30m"`

	RetryAttempts int           `env:"PG_RETRY_ATTEMPTS" envDefault:"3"`  // Connection attempts before giving up
	RetryInterval time.Duration `env:"PG_RETRY_INTERVAL" envDefault:"2s"` // Base delay, grows linearly per attempt

	MigrationsTable string `env:"PG_MIGRATIONS_TABLE" envDefault:"hseal_schema_migrations"` // Goose version table
}
