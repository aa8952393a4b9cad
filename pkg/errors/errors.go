package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors - Sentinel errors for use with errors.Is()
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrBadRequest         = errors.New("bad request")
	ErrConflict           = errors.New("resource already exists")
	ErrInternalServer     = errors.New("internal server error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("validation error")
	ErrEmailExists        = errors.New("email already exists")

	// Client-side taxonomy
	ErrNetwork          = errors.New("network error")
	ErrServer           = errors.New("server error")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrReadOnly         = errors.New("resource is read-only")
)

// Kind discriminates failures surfaced by the resource client.
type Kind string

const (
	KindNetwork      Kind = "network"
	KindAuth         Kind = "auth"
	KindValidation   Kind = "validation"
	KindServer       Kind = "server"
	KindPrecondition Kind = "precondition"
	KindUnknown      Kind = "unknown"
)

// Custom error type with context
type AppError struct {
	Code    string
	Kind    Kind
	Status  int
	Message string
	Fields  map[string]string
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
func NotFound(msg string) *AppError {
	return &AppError{Code: "NOT_FOUND", Status: http.StatusNotFound, Message: msg, Err: ErrNotFound}
}

func Unauthorized(msg string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Status: http.StatusUnauthorized, Message: msg, Err: ErrUnauthorized}
}

func Forbidden(msg string) *AppError {
	return &AppError{Code: "FORBIDDEN", Status: http.StatusForbidden, Message: msg, Err: ErrForbidden}
}

func BadRequest(msg string) *AppError {
	return &AppError{Code: "BAD_REQUEST", Status: http.StatusBadRequest, Message: msg, Err: ErrBadRequest}
}

func Conflict(msg string) *AppError {
	return &AppError{Code: "CONFLICT", Status: http.StatusConflict, Message: msg, Err: ErrConflict}
}

func InternalServer(msg string, err error) *AppError {
	return &AppError{Code: "INTERNAL_SERVER_ERROR", Status: http.StatusInternalServerError, Message: msg, Err: err}
}

func InvalidCredentials() *AppError {
	return &AppError{Code: "INVALID_CREDENTIALS", Status: http.StatusUnauthorized, Message: "invalid email or password", Err: ErrInvalidCredentials}
}

// Validation carries field-level messages keyed by field name.
func Validation(msg string, fields map[string]string) *AppError {
	return &AppError{Code: "VALIDATION", Kind: KindValidation, Status: http.StatusBadRequest, Message: msg, Fields: fields, Err: ErrValidation}
}

func Network(err error) *AppError {
	return &AppError{Code: "NETWORK", Kind: KindNetwork, Message: "request did not complete", Err: fmt.Errorf("%w: %w", ErrNetwork, err)}
}

func Auth(status int, msg string) *AppError {
	if msg == "" {
		msg = "must re-authenticate"
	}
	return &AppError{Code: "AUTH", Kind: KindAuth, Status: status, Message: msg, Err: ErrUnauthorized}
}

func Server(status int, msg string) *AppError {
	if msg == "" {
		msg = http.StatusText(status)
	}
	if msg == "" {
		msg = "unexpected server response"
	}
	return &AppError{Code: "SERVER", Kind: KindServer, Status: status, Message: msg, Err: ErrServer}
}

func NotAuthenticated(resource string) *AppError {
	return &AppError{
		Code:    "NOT_AUTHENTICATED",
		Kind:    KindPrecondition,
		Message: fmt.Sprintf("login required for %s", resource),
		Err:     ErrNotAuthenticated,
	}
}

// KindOf reports the client-side kind of err, or KindUnknown.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Kind != "" {
		return appErr.Kind
	}
	return KindUnknown
}

// IsRetryable reports whether retrying the same call unchanged can succeed.
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case KindNetwork, KindServer:
		return true
	default:
		return false
	}
}

// FieldErrors returns the backend's field-level messages, if any.
func FieldErrors(err error) map[string]string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}
