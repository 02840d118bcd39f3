package http

import (
	"net/http"

	"github.com/AlibekovAA/auth-api/internal/common/constants"
	"github.com/AlibekovAA/auth-api/internal/common/logger"
)

// BuildBaseHandler wraps handler with the process-wide middleware, outermost
// first: security headers, panic recovery, trace ID, body size limit.
func BuildBaseHandler(log *logger.Logger, handler http.Handler) http.Handler {
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)

	return SecurityHeadersMiddleware(recovery(TraceIDMiddleware(maxRequestSize(handler))))
}
