package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode         `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
	Err     error             `json:"-"`
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

// Is matches another *AppError by code, so sentinel values work with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithDetail attaches a field-level detail and returns the same error.
func (e *AppError) WithDetail(key, value string) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrBadRequest
	ErrUnauthorized
	ErrForbidden
	ErrInternal
	ErrValidation
	ErrDuplicate
	ErrReference
	ErrConflict
	ErrInvalidToken
	ErrRateLimited
)

func (c ErrorCode) String() string {
	switch c {
	case ErrNotFound:
		return "not_found"
	case ErrBadRequest:
		return "bad_request"
	case ErrUnauthorized:
		return "unauthorized"
	case ErrForbidden:
		return "forbidden"
	case ErrInternal:
		return "internal"
	case ErrValidation:
		return "validation"
	case ErrDuplicate:
		return "duplicate"
	case ErrReference:
		return "reference"
	case ErrConflict:
		return "conflict"
	case ErrInvalidToken:
		return "invalid_token"
	case ErrRateLimited:
		return "rate_limited"
	default:
		return fmt.Sprintf("code_%d", int(c))
	}
}

// Sentinels for errors.Is comparisons.
var (
	NotFoundError     = &AppError{Code: ErrNotFound}
	ValidationError   = &AppError{Code: ErrValidation}
	DuplicateError    = &AppError{Code: ErrDuplicate}
	ReferenceError    = &AppError{Code: ErrReference}
	ConflictError     = &AppError{Code: ErrConflict}
	InvalidTokenError = &AppError{Code: ErrInvalidToken}
	ForbiddenError    = &AppError{Code: ErrForbidden}
	RateLimitedError  = &AppError{Code: ErrRateLimited}
)

// Error constructors
func NewNotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func NewBadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Err:     err,
	}
}

func NewInternal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// Common errors
func NotFound(resource string, err error) *AppError {
	return NewNotFound(resource, err)
}

func BadRequest(message string, err error) *AppError {
	return NewBadRequest(message, err)
}

func Internal(err error) *AppError {
	return NewInternal(err)
}

func Unauthorized(err error) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "unauthorized",
		Err:     err,
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Code:    ErrForbidden,
		Message: message,
	}
}

func Validation(message string, err error) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: message,
		Err:     err,
	}
}

// Duplicate reports a uniqueness violation. Callers may retry with a different value.
func Duplicate(resource, constraint string, err error) *AppError {
	e := &AppError{
		Code:    ErrDuplicate,
		Message: fmt.Sprintf("%s already exists", resource),
		Err:     err,
	}
	if constraint != "" {
		e.WithDetail("constraint", constraint)
	}
	return e
}

// Reference reports a foreign key that points nowhere, or a delete blocked by children.
func Reference(resource, constraint string, err error) *AppError {
	e := &AppError{
		Code:    ErrReference,
		Message: fmt.Sprintf("%s references missing or dependent rows", resource),
		Err:     err,
	}
	if constraint != "" {
		e.WithDetail("constraint", constraint)
	}
	return e
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:    ErrConflict,
		Message: message,
	}
}

// InvalidToken is the single signal for unknown, consumed and expired tokens.
func InvalidToken() *AppError {
	return &AppError{
		Code:    ErrInvalidToken,
		Message: "invalid or expired token",
	}
}

func RateLimited() *AppError {
	return &AppError{
		Code:    ErrRateLimited,
		Message: "too many attempts",
	}
}

// CodeOf returns the code of the first AppError in the chain, or ErrInternal.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}
