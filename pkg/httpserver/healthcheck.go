package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/hseal/pkg/logger"
)

// Check reports whether one dependency is usable.
type Check func(ctx context.Context) error

// HealthHandler answers liveness and readiness probes. With no checks it
// always returns 200 {"status":"ok"}. Otherwise every check runs against the
// request context; any failure turns the response into 503 and marks that
// check "down". Error text is logged, never returned.
func HealthHandler(log *slog.Logger, checks map[string]Check) http.HandlerFunc {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := struct {
			Status string            `json:"status"`
			Checks map[string]string `json:"checks,omitempty"`
		}{Status: "ok"}

		if len(checks) > 0 {
			body.Checks = make(map[string]string, len(checks))
		}
		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				log.WarnContext(r.Context(), "readiness check failed",
					slog.String("check", name), logger.Error(err))
				body.Checks[name] = "down"
				body.Status = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			body.Checks[name] = "up"
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}
