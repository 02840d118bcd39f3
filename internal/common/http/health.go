package http

import (
	"context"
	"net/http"
	"time"

	"github.com/AlibekovAA/auth-api/internal/common/logger"
)

const healthCheckTimeout = 2 * time.Second

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

func HealthHandler(log *logger.Logger, checks ...HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		for _, check := range checks {
			if err := check(ctx); err != nil {
				log.WithFields(r.Context(), logger.Fields{"action": "health_check"}).Warnf("health check failed: %v", err)
				WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}

		log.Debugf("health check request")
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
