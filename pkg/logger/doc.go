// Package logger builds *slog.Logger instances with functional options and
// provides attribute helpers that keep key names consistent across packages.
//
//	log := logger.New(
//	    logger.WithEnvironment(logger.EnvProduction, "hseal"),
//	    logger.WithContextExtractors(requestIDFromContext),
//	)
//	log.WarnContext(ctx, "replay guard unavailable", logger.Backend("redis"), logger.Error(err))
//
// Helpers such as Error, Kid or JTI return an empty Attr for empty input, so
// they can be passed unconditionally. Token text and key material are never
// logged.
package logger
