package service

import (
	"fmt"
	"net/http"

	commonerrors "github.com/AlibekovAA/auth-api/internal/common/errors"
)

var (
	ErrUserExists = commonerrors.NewDomainError(
		"USER_EXISTS",
		commonerrors.CategoryConflict,
		http.StatusConflict,
		"User with this email already exists",
	)

	ErrDatabase = commonerrors.NewDomainError(
		"DB_ERROR",
		commonerrors.CategoryRepository,
		http.StatusInternalServerError,
		"Database error",
	)

	ErrRegisterFailed = commonerrors.NewDomainError(
		"REGISTER_FAILED",
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		"Failed to create user",
	)

	ErrInvalidCredentials = commonerrors.NewDomainError(
		"INVALID_CREDENTIALS",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"Invalid Credentials",
	)

	ErrLoginFailed = commonerrors.NewDomainError(
		"LOGIN_FAILED",
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		"Failed to Login",
	)
)

func userExists(field string, cause error) commonerrors.DomainError {
	return ErrUserExists.
		WithMessage(fmt.Sprintf("User with this %s already exists", field)).
		WithCause(cause)
}

func registerFailed(cause error) commonerrors.DomainError {
	details := "Unknown error"
	if cause != nil && cause.Error() != "" {
		details = cause.Error()
	}
	return ErrRegisterFailed.WithDetails(details).WithCause(cause)
}
