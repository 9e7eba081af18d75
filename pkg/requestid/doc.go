// Package requestid tags every HTTP request with an identifier carried in the
// X-Request-ID header and the request context.
//
// Incoming ids are kept when they are at most 128 characters of letters,
// digits, '-' and '_'; anything else is replaced by a fresh UUIDv7. Register
// LoggerExtractor with logger.WithContextExtractors to stamp request_id on
// log records:
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	r.Use(requestid.Middleware)
package requestid
