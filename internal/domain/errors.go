package domain

import "errors"

var (
	// ErrNotFound indicates the identifier is absent from its collection.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates input failed a business rule (missing fields, capacity, malformed ranges).
	ErrValidation = errors.New("validation error")
	// ErrCreationPrecondition indicates a create could not assign an identifier.
	ErrCreationPrecondition = errors.New("creation precondition failed")
)
