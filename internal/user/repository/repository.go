package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AlibekovAA/auth-api/internal/user/domain"
)

type Repository interface {
	// Create inserts the user and returns the stored row, including the
	// generated ID and CreatedAt.
	Create(ctx context.Context, user domain.NewUser) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

var ErrUserNotFound = errors.New("user not found")

const (
	FieldEmail    = "email"
	FieldUsername = "username"
)

// ConflictError reports a uniqueness violation on Field.
type ConflictError struct {
	Field  string
	Detail string
	Err    error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("user with this %s already exists: %s", e.Field, e.Detail)
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// Error is any other failure reported by the database.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("user repository %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// conflictField names username only when the driver explicitly mentions it.
func conflictField(hints ...string) string {
	for _, hint := range hints {
		if strings.Contains(strings.ToLower(hint), FieldUsername) {
			return FieldUsername
		}
	}
	return FieldEmail
}
