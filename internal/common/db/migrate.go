package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/AlibekovAA/auth-api/internal/common/logger"
	"github.com/AlibekovAA/auth-api/internal/migrations"
	"github.com/AlibekovAA/auth-api/internal/observability/metrics"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

var migrationDirs = map[string]string{
	DialectPostgres: "postgres",
	DialectSQLite:   "sqlite",
}

// OpenPostgresSQL opens a database/sql handle over the pgx driver. goose
// needs database/sql, the repository itself runs on pgxpool.
func OpenPostgresSQL(ctx context.Context, databaseURL string) (*sql.DB, error) {
	conn, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return conn, nil
}

// Migrate applies all pending embedded migrations for dialect.
// goose keeps package-level state, so callers must not run it concurrently.
func Migrate(ctx context.Context, conn *sql.DB, dialect string, log *logger.Logger) error {
	dir, ok := migrationDirs[dialect]
	if !ok {
		return fmt.Errorf("no migrations for dialect %q", dialect)
	}

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(log)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, conn, dir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, conn)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	metrics.DBMigrationsApplied.WithLabelValues(dialect).Set(float64(version))
	log.Infof("database schema at version %d (%s)", version, dialect)

	return nil
}

// Run executes a goose command ("up", "down", "status", "version", ...)
// against the embedded migrations for dialect.
func Run(ctx context.Context, conn *sql.DB, dialect, command string, log *logger.Logger, args ...string) error {
	dir, ok := migrationDirs[dialect]
	if !ok {
		return fmt.Errorf("no migrations for dialect %q", dialect)
	}

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(log)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.RunContext(ctx, command, conn, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
