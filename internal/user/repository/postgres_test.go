package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyPgError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantField string
	}{
		{
			name: "username constraint",
			err: &pgconn.PgError{
				Code:           pgUniqueViolation,
				ConstraintName: "users_username_unique",
				Detail:         "Key (username)=(bob) already exists.",
			},
			wantField: FieldUsername,
		},
		{
			name: "email constraint",
			err: &pgconn.PgError{
				Code:           pgUniqueViolation,
				ConstraintName: "users_email_unique",
				Detail:         "Key (email)=(bob@example.com) already exists.",
			},
			wantField: FieldEmail,
		},
		{
			name:      "unique violation without hints",
			err:       &pgconn.PgError{Code: pgUniqueViolation},
			wantField: FieldEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyPgError(tt.err, "create user", time.Now())

			var conflict *ConflictError
			require.ErrorAs(t, err, &conflict)
			assert.Equal(t, tt.wantField, conflict.Field)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestClassifyPgError_OtherFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"not null violation", &pgconn.PgError{Code: "23502", ColumnName: "email"}},
		{"connection failure", errors.New("connection reset by peer")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyPgError(tt.err, "create user", time.Now())

			var repoErr *Error
			require.ErrorAs(t, err, &repoErr)
			assert.Equal(t, "create user", repoErr.Op)
			assert.ErrorIs(t, err, tt.err)

			var conflict *ConflictError
			assert.False(t, errors.As(err, &conflict))
		})
	}
}

func TestClassifyPgError_WrappedPgError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "users_username_unique"}
	err := classifyPgError(errors.Join(errors.New("scan"), pgErr), "create user", time.Now())

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, FieldUsername, conflict.Field)
}
