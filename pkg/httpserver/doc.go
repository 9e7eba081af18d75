// Package httpserver runs an http.Server with sane timeouts, graceful
// shutdown on context cancellation or SIGINT/SIGTERM, and ordered stop hooks
// for releasing backends such as replay guards and connection pools.
//
//	srv := httpserver.NewFromConfig(cfg,
//		httpserver.WithLogger(log),
//		httpserver.WithStopHook(func() error { return replay.Close(guard) }),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// HealthHandler serves liveness (no checks) and readiness (named checks,
// typically the redis/pg/mongo Healthcheck helpers) probes as JSON.
package httpserver
