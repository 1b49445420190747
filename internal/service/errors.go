package service

import (
	"sort"
	"strings"
)

// ValidationError is a field-keyed validation failure. Handlers render it
// as a 400 response with the field map as the body.
type ValidationError struct {
	Fields map[string]string
}

// Error returns the error message, joining the field messages.
func (e ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return strings.Join(parts, "; ")
}

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) ValidationError {
	return ValidationError{Fields: map[string]string{field: message}}
}

// PermissionError is returned when a caller attempts a write on a resource
// they do not own. Handlers render it as a 403 response.
type PermissionError struct {
	message string
}

// Error returns the error message.
func (e PermissionError) Error() string {
	return e.message
}

// NewPermissionError creates a PermissionError with the given message.
func NewPermissionError(message string) PermissionError {
	return PermissionError{message: message}
}
