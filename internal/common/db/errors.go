package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	pgx "github.com/jackc/pgx/v4"

	"github.com/AlibekovAA/auth-api/internal/observability/metrics"
)

const TableUsers = "users"

// HandleQueryError records the query duration and maps a missing row onto
// notFoundErr. Other errors are counted and wrapped with the operation name.
func HandleQueryError(err error, notFoundErr error, operation, table string, startTime time.Time) error {
	MeasureQueryDuration(operation, table, startTime)

	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return notFoundErr
	}
	metrics.DBQueryErrors.WithLabelValues(operation, table, fmt.Sprintf("%T", err)).Inc()
	return fmt.Errorf("failed to %s: %w", operation, err)
}

func HandleExecError(err error, operation, table string, startTime time.Time) error {
	MeasureQueryDuration(operation, table, startTime)

	if err == nil {
		return nil
	}
	metrics.DBQueryErrors.WithLabelValues(operation, table, fmt.Sprintf("%T", err)).Inc()
	return fmt.Errorf("failed to %s: %w", operation, err)
}

func MeasureQueryDuration(operation, table string, startTime time.Time) {
	metrics.DBQueryDurationSeconds.WithLabelValues(operation, table).Observe(time.Since(startTime).Seconds())
}
