package commonerrors

import "errors"

var (
	ErrMissingRequiredEnv = errors.New("missing required configuration value")
	ErrInvalidJWTSecret   = errors.New("JWT_SECRET must be at least 32 bytes")
	ErrUnsupportedDriver  = errors.New("unsupported database driver")
)
