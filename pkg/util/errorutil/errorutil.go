package errorutil

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes rendered in the "error.code" field of failed responses.
const (
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeFieldConstraint    = "FIELD_CONSTRAINT"
	CodeUniquenessConflict = "UNIQUENESS_CONFLICT"
	CodeReferenceNotFound  = "REFERENCE_NOT_FOUND"
	CodeNotFound           = "NOT_FOUND"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeInternal           = "INTERNAL_ERROR"
)

// ValidationKind classifies a rejected create or update payload.
type ValidationKind string

const (
	FieldConstraint    ValidationKind = "FieldConstraint"
	UniquenessConflict ValidationKind = "UniquenessConflict"
	ReferenceNotFound  ValidationKind = "ReferenceNotFound"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewValidationError builds a 400 error of the given kind. Details map field names to messages.
func NewValidationError(kind ValidationKind, message string, details map[string]any) error {
	code := CodeFieldConstraint
	switch kind {
	case UniquenessConflict:
		code = CodeUniquenessConflict
	case ReferenceNotFound:
		code = CodeReferenceNotFound
	}
	return NewDomainError(code, message, http.StatusBadRequest, details)
}

// FieldErrors collects per-field messages for a FieldConstraint error.
type FieldErrors map[string][]string

// Add appends a message for field.
func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

// Err returns nil when no messages were collected.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	details := make(map[string]any, len(f))
	for field, msgs := range f {
		details[field] = msgs
	}
	return NewValidationError(FieldConstraint, "invalid field values", details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

// NewUnauthorized reports missing, bad or expired credentials and tokens.
func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

// NewForbidden reports an authenticated caller lacking privilege.
func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// IsStatus reports whether err is a DomainError carrying status.
func IsStatus(err error, status int) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.HTTPStatus == status
}

// MapError wraps err as a DomainError, keeping nil as nil.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}
