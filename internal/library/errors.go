package library

import "errors"

var (
	// ErrNotFound indicates the requested segment or playlist does not exist.
	ErrNotFound = errors.New("library: not found")
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("library: validation failed")
	// ErrImportFormat indicates an import payload was not a recognised document.
	ErrImportFormat = errors.New("library: invalid import format")
)

// Validation reasons, in the order segment input is checked.
const (
	ReasonMissingURL      = "missing url"
	ReasonMissingName     = "missing name"
	ReasonInvalidStart    = "invalid start"
	ReasonInvalidEnd      = "invalid end"
	ReasonInvalidURL      = "invalid url"
	ReasonStartAfterEnd   = "start >= end"
	ReasonNoSegments      = "no segments selected"
	ReasonInvalidPageSize = "invalid items per page"
	ReasonMissingUser     = "missing user"
)

// ValidationError reports why an input was rejected.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "library: " + e.Reason
}

// Is makes errors.Is(err, ErrValidation) succeed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(reason string) error {
	return &ValidationError{Reason: reason}
}
