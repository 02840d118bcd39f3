package service

import (
	"time"

	"github.com/AlibekovAA/auth-api/internal/observability/metrics"
)

const (
	outcomeSuccess            = "success"
	outcomeConflict           = "conflict"
	outcomeInvalidCredentials = "invalid_credentials"
	outcomeError              = "error"
)

func recordRegistration(outcome string) {
	metrics.RegistrationsTotal.WithLabelValues(outcome).Inc()
}

func recordLogin(outcome string) {
	metrics.LoginsTotal.WithLabelValues(outcome).Inc()
}

func incrementAccessTokensIssued() {
	metrics.AccessTokensIssued.Inc()
}

func observePasswordHash(operation string, start time.Time) {
	metrics.PasswordHashDurationSeconds.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
