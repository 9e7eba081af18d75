package replay

import (
	"context"
	"embed"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/hseal/pkg/pg"
)

// Migrations holds the goose migrations for the Postgres guard table.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations that goose should read.
const MigrationsDir = "migrations"

const (
	consumeQuery = `
INSERT INTO hseal_consumed_jti (jti, expires_at)
VALUES ($1, now() + make_interval(secs => $2))
ON CONFLICT (jti) DO UPDATE SET expires_at = EXCLUDED.expires_at
WHERE hseal_consumed_jti.expires_at <= now()
RETURNING jti`

	purgeQuery = `DELETE FROM hseal_consumed_jti WHERE expires_at <= now()`
)

// PostgresDB is the subset of *pgxpool.Pool used by the Postgres guard.
type PostgresDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Postgres stores consumed ids in the hseal_consumed_jti table. A single
// upsert claims the id, or reclaims it once the previous record expired, so
// concurrent verifiers cannot both succeed.
type Postgres struct {
	db   PostgresDB
	opts options
}

// NewPostgres returns a guard over db. Apply Migrations first, e.g. with pg.Migrate.
func NewPostgres(db PostgresDB, opts ...Option) *Postgres {
	return &Postgres{db: db, opts: newOptions(opts)}
}

func (g *Postgres) TryConsume(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	if jti == "" {
		return false, ErrEmptyID
	}

	var claimed string
	err := g.db.QueryRow(ctx, consumeQuery, jti, g.opts.ttl(ttl).Seconds()).Scan(&claimed)
	switch {
	case pg.IsNotFoundError(err):
		return false, nil
	case err != nil:
		return false, errors.Join(ErrBackendFailed, err)
	}
	return true, nil
}

// Purge deletes expired records and returns how many were removed.
func (g *Postgres) Purge(ctx context.Context) (int64, error) {
	tag, err := g.db.Exec(ctx, purgeQuery)
	if err != nil {
		return 0, errors.Join(ErrBackendFailed, err)
	}
	return tag.RowsAffected(), nil
}
