package http

import (
	"net/http"
	"runtime/debug"

	"github.com/AlibekovAA/auth-api/internal/common/logger"
	"github.com/AlibekovAA/auth-api/internal/observability/metrics"
)

func RecoveryMiddleware(log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					metrics.PanicsRecoveredTotal.Inc()
					log.WithFields(r.Context(), logger.Fields{
						"action": "panic_recovered",
						"path":   r.URL.Path,
					}).Errorf("panic recovered: %v\n%s", err, debug.Stack())
					WriteError(w, http.StatusInternalServerError, internalErrorMessage)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
