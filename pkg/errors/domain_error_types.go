package errors

import (
	"fmt"
	"strings"
)

// Error codes carried on AppError.Code for moment and connection failures
const (
	CodeMomentNotFound          = "MOMENT_NOT_FOUND"
	CodeMomentEmojiRequired     = "MOMENT_EMOJI_REQUIRED"
	CodeMomentContentTooLong    = "MOMENT_CONTENT_TOO_LONG"
	CodeMomentAlreadyResolved   = "MOMENT_ALREADY_RESOLVED"
	CodeConnectionNotFound      = "CONNECTION_NOT_FOUND"
	CodeConnectionNotOwned      = "CONNECTION_NOT_OWNED"
	CodeConnectionLimitExceeded = "CONNECTION_LIMIT_EXCEEDED"
	CodeFieldValidation         = "FIELD_VALIDATION_ERROR"
)

// ErrMomentNotFound builds the error returned when a moment lookup misses
func ErrMomentNotFound(momentID string) *AppError {
	return NewNotFoundError("moment").WithCode(CodeMomentNotFound).WithDetail("moment_id", momentID)
}

// ErrConnectionNotFound builds the error returned when a connection lookup misses
func ErrConnectionNotFound(connectionID string) *AppError {
	return NewNotFoundError("connection").WithCode(CodeConnectionNotFound).WithDetail("connection_id", connectionID)
}

// ErrConnectionNotOwned is returned when a user references someone else's connection
func ErrConnectionNotOwned(connectionID string) *AppError {
	return NewForbiddenError("connection belongs to another user").
		WithCode(CodeConnectionNotOwned).
		WithDetail("connection_id", connectionID)
}

// ErrMomentAlreadyResolved is returned when resolving a moment twice
func ErrMomentAlreadyResolved(momentID string) *AppError {
	return NewConflictError("moment is already resolved").
		WithCode(CodeMomentAlreadyResolved).
		WithDetail("moment_id", momentID)
}

// ErrConnectionLimitExceeded is returned when a user tracks too many people
func ErrConnectionLimitExceeded(limit int) *AppError {
	return NewConflictError(fmt.Sprintf("connection limit of %d reached", limit)).
		WithCode(CodeConnectionLimitExceeded).
		WithDetail("limit", limit)
}

// FieldError is one failed field rule
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors aggregates field errors from entity constructors
type ValidationErrors struct {
	Errors []FieldError `json:"errors"`
}

// NewValidationErrors creates an empty collection
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{Errors: make([]FieldError, 0)}
}

// Add records a failed rule for a field
func (v *ValidationErrors) Add(field, message string) {
	v.Errors = append(v.Errors, FieldError{Field: field, Message: message})
}

// Addf records a failed rule with a formatted message
func (v *ValidationErrors) Addf(field, format string, args ...interface{}) {
	v.Add(field, fmt.Sprintf(format, args...))
}

// Merge folds another validation result into this one. Other error kinds
// are recorded under "general".
func (v *ValidationErrors) Merge(err error) {
	if err == nil {
		return
	}
	if other, ok := err.(*ValidationErrors); ok {
		v.Errors = append(v.Errors, other.Errors...)
		return
	}
	v.Add("general", err.Error())
}

// HasErrors returns true if there are validation errors
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// Error implements the error interface
func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return ""
	}
	messages := make([]string, len(v.Errors))
	for i, fe := range v.Errors {
		messages[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(messages, "; ")
}

// ToMap groups messages by field
func (v *ValidationErrors) ToMap() map[string][]string {
	result := make(map[string][]string)
	for _, fe := range v.Errors {
		result[fe.Field] = append(result[fe.Field], fe.Message)
	}
	return result
}

// AppError converts the collection into a 400 with per-field details
func (v *ValidationErrors) AppError() *AppError {
	details := make(map[string]interface{}, len(v.Errors))
	for field, msgs := range v.ToMap() {
		details[field] = msgs
	}
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    v.Error(),
		Code:       CodeFieldValidation,
		Details:    details,
		HTTPStatus: 400,
	}
}

// OrNil returns nil when nothing failed so constructors can `return v.OrNil()`
func (v *ValidationErrors) OrNil() error {
	if v.HasErrors() {
		return v
	}
	return nil
}
