// Package pg connects to PostgreSQL with pgx/v5 and applies goose migrations.
// It backs the Postgres replay guard.
//
//	var cfg pg.Config // loaded from PG_* env vars
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, replay.Migrations, replay.MigrationsDir, log); err != nil {
//	    return err
//	}
//
// Healthcheck returns a ping function suitable for readiness endpoints.
package pg
