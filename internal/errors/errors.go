package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of client error.
type ErrorCode string

const (
	// ErrCodeTransport indicates the API was unreachable or answered with a non-success status.
	ErrCodeTransport ErrorCode = "transport"
	// ErrCodeDecode indicates a response body could not be decoded into the expected shape.
	ErrCodeDecode ErrorCode = "decode"
	// ErrCodeValidation indicates client-side input checks failed before any network call.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeStateConflict indicates an async result arrived after it stopped being relevant.
	ErrCodeStateConflict ErrorCode = "state_conflict"
	// ErrCodeUnauthorized indicates the API rejected the request credentials (401/403).
	ErrCodeUnauthorized ErrorCode = "unauthorized"
	// ErrCodeNotFound indicates a resource was not found.
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeInternal indicates an unexpected client-side failure.
	ErrCodeInternal ErrorCode = "internal"
)

// FieldError is a single field-level validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError represents a structured client error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Status is the HTTP status returned by the API, when there was one
	Status int
	// Fields lists field-level messages for validation errors
	Fields []FieldError
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Transport creates a transport error for a failed round-trip or a non-success status.
func Transport(status int, message string) *AppError {
	code := ErrCodeTransport
	if status == 401 || status == 403 {
		code = ErrCodeUnauthorized
	}
	if status == 404 {
		code = ErrCodeNotFound
	}
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
	}
}

// Transportf wraps a network failure (no HTTP status) as a transport error.
func Transportf(cause error, format string, args ...any) *AppError {
	return Wrapf(cause, ErrCodeTransport, format, args...)
}

// Decode wraps a body decoding failure.
func Decode(cause error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeDecode,
		Message: message,
		Cause:   cause,
	}
}

// Validation creates a validation error carrying field-level messages.
func Validation(fields ...FieldError) *AppError {
	msg := "validation failed"
	if len(fields) == 1 {
		msg = fields[0].Message
	}
	return &AppError{
		Code:    ErrCodeValidation,
		Message: msg,
		Fields:  fields,
	}
}

// ValidationField creates a validation error for a single field.
func ValidationField(field, message string) *AppError {
	return Validation(FieldError{Field: field, Message: message})
}

// StateConflict creates an error describing a result that arrived too late to apply.
func StateConflict(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeStateConflict,
		Message: fmt.Sprintf(format, args...),
	}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsTransport reports whether err is a transport error. Unauthorized and
// not-found responses are transport failures as well.
func IsTransport(err error) bool {
	return isCode(err, ErrCodeTransport) || isCode(err, ErrCodeUnauthorized) || isCode(err, ErrCodeNotFound)
}

// IsDecode checks if an error is a Decode error.
func IsDecode(err error) bool {
	return isCode(err, ErrCodeDecode)
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// IsStateConflict checks if an error is a StateConflict error.
func IsStateConflict(err error) bool {
	return isCode(err, ErrCodeStateConflict)
}

// IsUnauthorized checks if an error is an Unauthorized error.
func IsUnauthorized(err error) bool {
	return isCode(err, ErrCodeUnauthorized)
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool {
	return isCode(err, ErrCodeNotFound)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// FieldMessages returns the field-level messages of a validation error, or nil.
func FieldMessages(err error) []FieldError {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code == ErrCodeValidation {
		return appErr.Fields
	}
	return nil
}

// UserMessage returns the message suitable for inline display. For API errors
// this is the server's message verbatim, without the wrapped cause chain.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
