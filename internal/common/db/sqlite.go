package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "modernc.org/sqlite"
)

// OpenSQLite opens a SQLite database at path. Pragmas are passed through the
// DSN so that every pooled connection gets them, not only the first one.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// SQLite allows one writer at a time.
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	return conn, nil
}

func sqliteDSN(path string) string {
	path = strings.TrimPrefix(path, "sqlite://")
	path = strings.TrimPrefix(path, "file:")

	params := url.Values{}
	params.Add("_pragma", "foreign_keys(1)")
	params.Add("_pragma", "busy_timeout(5000)")
	if path != ":memory:" {
		params.Add("_pragma", "journal_mode(WAL)")
	}

	return "file:" + path + "?" + params.Encode()
}
