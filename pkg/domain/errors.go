package domain

import "fmt"

// DomainError represents a domain-specific error with a code and message.
// The Message is safe to return to API callers; wrapped errors are not.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Error codes
const (
	ErrCodeNotFound    = "NOT_FOUND"
	ErrCodeValidation  = "VALIDATION_ERROR"
	ErrCodeMalformedID = "MALFORMED_ID"
	ErrCodeConflict    = "CONFLICT"
	ErrCodeInternal    = "INTERNAL_ERROR"
)

// NewNotFoundError creates a new not found error for the given resource
func NewNotFoundError(resource string) error {
	return &DomainError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewValidationError creates a new validation error
func NewValidationError(msg string) error {
	return &DomainError{
		Code:    ErrCodeValidation,
		Message: msg,
	}
}

// NewMalformedIDError flags an id that is not a well-formed identifier
func NewMalformedIDError(resource string) error {
	return &DomainError{
		Code:    ErrCodeMalformedID,
		Message: fmt.Sprintf("Invalid %s ID", resource),
	}
}

// NewConflictError creates a new conflict error
func NewConflictError(msg string) error {
	return &DomainError{
		Code:    ErrCodeConflict,
		Message: msg,
	}
}

// NewInternalError wraps an unexpected store or runtime failure
func NewInternalError(err error) error {
	return &DomainError{
		Code:    ErrCodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	if de, ok := err.(*DomainError); ok {
		return de.Code == ErrCodeNotFound
	}
	return false
}

// IsValidation checks if the error is a validation error
func IsValidation(err error) bool {
	if de, ok := err.(*DomainError); ok {
		return de.Code == ErrCodeValidation
	}
	return false
}

// IsMalformedID checks if the error is a malformed id error
func IsMalformedID(err error) bool {
	if de, ok := err.(*DomainError); ok {
		return de.Code == ErrCodeMalformedID
	}
	return false
}

// IsConflict checks if the error is a conflict error
func IsConflict(err error) bool {
	if de, ok := err.(*DomainError); ok {
		return de.Code == ErrCodeConflict
	}
	return false
}

// Message extracts the caller-safe message from a domain error, falling back
// to a generic message for anything else.
func Message(err error) string {
	if de, ok := err.(*DomainError); ok {
		return de.Message
	}
	return "Internal server error"
}
