// Package apperror defines the closed error taxonomy surfaced by the
// authentication core. Every variant carries an HTTP status, a machine code
// and a human message; handlers map errors to responses by status alone.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured failure carrying a machine status and human
// message. Wrapped causes stay reachable through errors.Is / errors.As.
type AppError struct {
	Status  int
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

// Is matches two AppErrors by code so sentinel comparisons work after
// wrapping with %w.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// User errors: caller identity or credentials are wrong.
var (
	ErrUserNotFound      = &AppError{Status: http.StatusNotFound, Code: "USER_NOT_FOUND", Message: "user not found"}
	ErrUserAlreadyExists = &AppError{Status: http.StatusConflict, Code: "USER_ALREADY_EXISTS", Message: "user already exists"}
	ErrUserCreateFailed  = &AppError{Status: http.StatusInternalServerError, Code: "USER_CREATE_FAILED", Message: "failed to create user"}
	ErrWrongPassword     = &AppError{Status: http.StatusUnauthorized, Code: "WRONG_PASSWORD", Message: "wrong password"}
	ErrUnauthorized      = &AppError{Status: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: "unauthorized"}
	ErrMissingDeviceInfo = &AppError{Status: http.StatusBadRequest, Code: "MISSING_DEVICE_INFO", Message: "missing device info"}
)

// Token errors. Expired, consumed and never-issued ephemeral tokens are
// deliberately indistinguishable, as are expired and malformed access
// tokens, to avoid oracle leakage.
var (
	ErrInvalidToken       = &AppError{Status: http.StatusUnauthorized, Code: "INVALID_TOKEN", Message: "invalid or expired token"}
	ErrInvalidAccessToken = &AppError{Status: http.StatusUnauthorized, Code: "INVALID_ACCESS_TOKEN", Message: "invalid access token"}
	ErrDeviceCreateFailed = &AppError{Status: http.StatusInternalServerError, Code: "DEVICE_CREATE_FAILED", Message: "failed to create device"}
)

// Validation builds a user-correctable input error.
func Validation(message string) *AppError {
	return &AppError{Status: http.StatusBadRequest, Code: "VALIDATION_FAILED", Message: message}
}

// Hashing wraps an internal RNG or hash-library fault. Not a validation
// error: the input was fine, the machinery failed.
func Hashing(err error) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Code: "PASSWORD_HASHING_ERROR", Message: "password hashing failed", Err: err}
}

// Storage wraps a durable-store or cache transport failure.
func Storage(err error) *AppError {
	return &AppError{Status: http.StatusInternalServerError, Code: "STORAGE_ERROR", Message: "storage failure", Err: err}
}

// External wraps a collaborator failure (mail delivery, token signing).
func External(err error) *AppError {
	return &AppError{Status: http.StatusBadGateway, Code: "EXTERNAL_SERVICE_ERROR", Message: "external service failure", Err: err}
}

// StatusOf returns the HTTP status for err, defaulting to 500 for errors
// outside the taxonomy.
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// CodeOf returns the machine code for err, or "INTERNAL_ERROR".
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "INTERNAL_ERROR"
}

// MessageOf returns the human message for err without leaking wrapped
// internals to the client.
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal error"
}
