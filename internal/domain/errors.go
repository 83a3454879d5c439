package domain

import (
	"errors"
	"fmt"
)

// Application error codes
const (
	EINVALID     = "invalid"      // Invalid input or validation failure
	ENOTFOUND    = "not_found"    // Resource not found
	ECONFLICT    = "conflict"     // Resource conflict (e.g., duplicate)
	EQUOTA       = "quota"        // Usage quota exhausted
	ETOOLARGE    = "too_large"    // Request entity too large
	EUNKNOWNTIER = "unknown_tier" // Tier name missing from the catalog
	ERATELIMIT   = "rate_limit"   // Rate limit exceeded
	EINTERNAL    = "internal"     // Internal server error
)

// Error represents an application error with structured information.
type Error struct {
	Code    string // Machine-readable error code
	Op      string // Operation that failed (e.g., "quota.increment")
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf creates a new Error with the given code, operation, and formatted message.
func Errorf(code, op, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Op:      op,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode returns the code of the root error, or EINTERNAL if none.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage returns the human-readable message of the error.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		// For internal errors, return generic message
		if e.Code == EINTERNAL {
			return "An internal error occurred. Please try again later."
		}
		return e.Message
	}
	return "An internal error occurred. Please try again later."
}

// ErrorOp returns the operation of the root error, if any.
func ErrorOp(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Op
	}
	return ""
}

// Convenience constructors for common error types

// NotFound creates a not found error.
func NotFound(op, resource, id string) *Error {
	return &Error{
		Code:    ENOTFOUND,
		Op:      op,
		Message: fmt.Sprintf("%s with ID %q not found", resource, id),
	}
}

// Invalid creates a validation error.
func Invalid(op, message string) *Error {
	return &Error{
		Code:    EINVALID,
		Op:      op,
		Message: message,
	}
}

// Conflict creates a conflict error.
func Conflict(op, message string) *Error {
	return &Error{
		Code:    ECONFLICT,
		Op:      op,
		Message: message,
	}
}

// Internal creates an internal error, wrapping the underlying error.
func Internal(err error, op, message string) *Error {
	return &Error{
		Code:    EINTERNAL,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// QuotaExceeded creates a quota error for the given kind with usage detail.
// This is an expected business outcome, not a defect; it is propagated to
// the caller as a denial and never retried automatically.
func QuotaExceeded(op string, kind QuotaKind, used, limit int64) *Error {
	return &Error{
		Code:    EQUOTA,
		Op:      op,
		Message: fmt.Sprintf("%s quota exceeded: %d of %d used", kind, used, limit),
	}
}

// FileTooLarge creates a too-large error with size detail so the caller
// can present a reduce-file-size remediation rather than an upgrade prompt.
func FileTooLarge(op string, sizeMB, maxMB int64) *Error {
	return &Error{
		Code:    ETOOLARGE,
		Op:      op,
		Message: fmt.Sprintf("file of %d MB exceeds the %d MB limit", sizeMB, maxMB),
	}
}

// UnknownTier creates an unknown-tier error. This indicates the tier
// catalog and stored data disagree and should not occur in production.
func UnknownTier(op, name string) *Error {
	return &Error{
		Code:    EUNKNOWNTIER,
		Op:      op,
		Message: fmt.Sprintf("unknown subscription tier %q", name),
	}
}

// RateLimit creates a rate limit error.
func RateLimit(op string) *Error {
	return &Error{
		Code:    ERATELIMIT,
		Op:      op,
		Message: "Too many requests. Please try again later.",
	}
}
