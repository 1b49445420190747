package repository

// NotFoundError is an error type for when a resource is not found.
type NotFoundError struct {
	message string
}

// Error returns the error message.
func (e NotFoundError) Error() string {
	return e.message
}

// NewNotFoundError creates a NotFoundError with the given message.
func NewNotFoundError(message string) NotFoundError {
	return NotFoundError{message: message}
}

// ConflictError is an error type for when a uniqueness rule is violated,
// such as a duplicate subscription or a flag that is already set.
type ConflictError struct {
	message string
}

// Error returns the error message.
func (e ConflictError) Error() string {
	return e.message
}

// NewConflictError creates a ConflictError with the given message.
func NewConflictError(message string) ConflictError {
	return ConflictError{message: message}
}
