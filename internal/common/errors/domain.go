package commonerrors

import (
	"errors"
	"fmt"
)

type ErrorCategory string

const (
	CategoryValidation   ErrorCategory = "VALIDATION"
	CategoryConflict     ErrorCategory = "CONFLICT"
	CategoryUnauthorized ErrorCategory = "UNAUTHORIZED"
	CategoryRepository   ErrorCategory = "REPOSITORY"
	CategoryInternal     ErrorCategory = "INTERNAL"
)

// DomainError is the service-level error variant rendered by the HTTP
// error handler. Message and Details are safe to show to clients.
type DomainError interface {
	error
	Code() string
	Category() ErrorCategory
	HTTPStatus() int
	Message() string
	Details() string
	Unwrap() error
	WithCause(cause error) DomainError
	WithDetails(details string) DomainError
	WithMessage(message string) DomainError
}

type domainError struct {
	code     string
	category ErrorCategory
	status   int
	message  string
	details  string
	cause    error
}

func (e *domainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *domainError) Code() string {
	return e.code
}

func (e *domainError) Category() ErrorCategory {
	return e.category
}

func (e *domainError) HTTPStatus() int {
	return e.status
}

func (e *domainError) Message() string {
	return e.message
}

func (e *domainError) Details() string {
	return e.details
}

func (e *domainError) Unwrap() error {
	return e.cause
}

// Is matches any DomainError carrying the same code, so sentinel values
// still compare equal after WithCause/WithDetails.
func (e *domainError) Is(target error) bool {
	t, ok := target.(*domainError)
	if !ok {
		return false
	}
	return e.code == t.code
}

func (e *domainError) clone() *domainError {
	c := *e
	return &c
}

func (e *domainError) WithCause(cause error) DomainError {
	c := e.clone()
	c.cause = cause
	return c
}

func (e *domainError) WithDetails(details string) DomainError {
	c := e.clone()
	c.details = details
	return c
}

func (e *domainError) WithMessage(message string) DomainError {
	c := e.clone()
	c.message = message
	return c
}

func NewDomainError(code string, category ErrorCategory, status int, message string) DomainError {
	return &domainError{
		code:     code,
		category: category,
		status:   status,
		message:  message,
	}
}

func IsDomainError(err error) bool {
	var de DomainError
	return errors.As(err, &de)
}

func AsDomainError(err error) (DomainError, bool) {
	var de DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
