package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/hseal/internal/server"
	"github.com/dmitrymomot/hseal/pkg/clientip"
	"github.com/dmitrymomot/hseal/pkg/config"
	"github.com/dmitrymomot/hseal/pkg/email"
	"github.com/dmitrymomot/hseal/pkg/httpserver"
	"github.com/dmitrymomot/hseal/pkg/logger"
	"github.com/dmitrymomot/hseal/pkg/mongo"
	"github.com/dmitrymomot/hseal/pkg/pg"
	"github.com/dmitrymomot/hseal/pkg/redis"
	"github.com/dmitrymomot/hseal/pkg/replay"
	"github.com/dmitrymomot/hseal/pkg/requestid"
	"github.com/dmitrymomot/hseal/pkg/secrets"
	"github.com/dmitrymomot/hseal/pkg/token"
)

// demoConfig seeds the in-memory user store.
type demoConfig struct {
	UserEmail    string `env:"HSEAL_DEMO_USER_EMAIL" envDefault:"demo@example.com"`
	UserPassword string `env:"HSEAL_DEMO_USER_PASSWORD"`
}

func serve(ctx context.Context, args []string, stderr io.Writer) error {
	fs := newFlagSet("serve", stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	var logCfg logger.Config
	if err := config.Load(&logCfg); err != nil {
		return err
	}
	log, err := logger.NewFromConfig(logCfg,
		logger.WithOutput(stderr),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	)
	if err != nil {
		return err
	}

	var keyCfg secrets.Config
	if err := config.Load(&keyCfg); err != nil {
		return err
	}
	keys, err := secrets.NewFromConfig(keyCfg)
	if err != nil {
		return err
	}

	var replayCfg replay.Config
	if err := config.Load(&replayCfg); err != nil {
		return err
	}
	backend, err := connectBackend(ctx, replayCfg.Backend, log)
	if err != nil {
		return err
	}

	guard, err := replay.NewFromConfig(ctx, replayCfg, backend.clients, log)
	if err != nil {
		return errors.Join(err, backend.close(ctx))
	}
	backend.closers = append([]func(context.Context) error{func(context.Context) error { return replay.Close(guard) }}, backend.closers...)

	var tokenCfg token.Config
	if err := config.Load(&tokenCfg); err != nil {
		return errors.Join(err, backend.close(ctx))
	}
	access, err := token.NewFromConfig(keys, tokenCfg, log)
	if err != nil {
		return errors.Join(err, backend.close(ctx))
	}
	oneTime, err := token.NewFromConfig(keys, tokenCfg, log, token.WithReplayGuard(guard))
	if err != nil {
		return errors.Join(err, backend.close(ctx))
	}

	var mailCfg email.Config
	if err := config.Load(&mailCfg); err != nil {
		return errors.Join(err, backend.close(ctx))
	}
	mail, err := email.New(mailCfg)
	if err != nil {
		return errors.Join(err, backend.close(ctx))
	}

	users, err := seedUsers(ctx, log)
	if err != nil {
		return errors.Join(err, backend.close(ctx))
	}

	var srvCfg server.Config
	if err := config.Load(&srvCfg); err != nil {
		return errors.Join(err, backend.close(ctx))
	}
	opts := []server.Option{server.WithLogger(log)}
	for name, check := range backend.checks {
		opts = append(opts, server.WithReadinessCheck(name, check))
	}
	srv, err := server.New(srvCfg, server.Tokens{Access: access, OneTime: oneTime}, users, mail, opts...)
	if err != nil {
		return errors.Join(err, backend.close(ctx))
	}
	if err := srv.Ready(ctx); err != nil {
		return errors.Join(err, srv.Close(), backend.close(ctx))
	}

	var httpCfg httpserver.Config
	if err := config.Load(&httpCfg); err != nil {
		return errors.Join(err, srv.Close(), backend.close(ctx))
	}
	log.Info("starting", slog.String("replay_backend", replayCfg.Backend), logger.Kid(keys.CurrentKid()))

	return httpserver.NewFromConfig(httpCfg,
		httpserver.WithLogger(log),
		httpserver.WithStopHook(srv.Close),
		httpserver.WithStopHook(func() error { return backend.close(context.WithoutCancel(ctx)) }),
	).Run(ctx, srv.Handler())
}

type backendConn struct {
	clients replay.Clients
	checks  map[string]httpserver.Check
	closers []func(context.Context) error
}

func (b *backendConn) close(ctx context.Context) error {
	var errs []error
	for _, c := range b.closers {
		errs = append(errs, c(ctx))
	}
	return errors.Join(errs...)
}

// connectBackend opens the connection the replay backend needs and, for
// Postgres, applies the consumed-jti migration.
func connectBackend(ctx context.Context, backend string, log *slog.Logger) (*backendConn, error) {
	b := &backendConn{checks: make(map[string]httpserver.Check)}

	switch strings.ToLower(strings.TrimSpace(backend)) {
	case replay.BackendRedis:
		var cfg redis.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		client, err := redis.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		b.clients.Redis = client
		b.checks["redis"] = redis.Healthcheck(client)
		b.closers = append(b.closers, func(context.Context) error { return client.Close() })

	case replay.BackendPostgres:
		var cfg pg.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		pool, err := pg.Connect(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx, pool, cfg, replay.Migrations, replay.MigrationsDir, log); err != nil {
			pool.Close()
			return nil, fmt.Errorf("replay migrations: %w", err)
		}
		b.clients.Postgres = pool
		b.checks["postgres"] = pg.Healthcheck(pool)
		b.closers = append(b.closers, func(context.Context) error { pool.Close(); return nil })

	case replay.BackendMongo:
		var cfg mongo.Config
		if err := config.Load(&cfg); err != nil {
			return nil, err
		}
		client, err := mongo.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		b.clients.Mongo = client
		b.checks["mongo"] = mongo.Healthcheck(client)
		b.closers = append(b.closers, client.Disconnect)
	}
	return b, nil
}

func seedUsers(ctx context.Context, log *slog.Logger) (*server.MemoryUsers, error) {
	var cfg demoConfig
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	users := server.NewMemoryUsers()
	if cfg.UserPassword == "" {
		log.Warn("HSEAL_DEMO_USER_PASSWORD is empty, no demo user created")
		return users, nil
	}
	if _, err := users.Register(ctx, cfg.UserEmail, cfg.UserPassword); err != nil {
		return nil, err
	}
	return users, nil
}
