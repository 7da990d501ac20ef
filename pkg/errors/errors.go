package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is()
var (
	ErrInternalServer = errors.New("internal server error")
	ErrRateLimited    = errors.New("rate limit exceeded")
	ErrUnavailable    = errors.New("service unavailable")
	ErrStartup        = errors.New("startup failed")
)

// Custom error type with context
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Constructors
func RateLimited(msg string) *AppError {
	return &AppError{Code: "RATE_LIMITED", Message: msg, Err: ErrRateLimited}
}

// Unavailable reports a dependency outage, such as the session store.
func Unavailable(msg string, err error) *AppError {
	return &AppError{Code: "UNAVAILABLE", Message: msg, Err: errors.Join(ErrUnavailable, err)}
}

func InternalServer(msg string, err error) *AppError {
	return &AppError{Code: "INTERNAL_SERVER_ERROR", Message: msg, Err: errors.Join(ErrInternalServer, err)}
}

// Startup wraps a fatal initialization failure. Callers abort the process.
func Startup(msg string, err error) *AppError {
	return &AppError{Code: "STARTUP", Message: msg, Err: errors.Join(ErrStartup, err)}
}
