package packagerepo

import "errors"

var (
	// ErrNotFound indicates the requested package does not exist.
	ErrNotFound = errors.New("package not found")
	// ErrEmptyCollection indicates a create was rejected because no prior identifier exists.
	ErrEmptyCollection = errors.New("package collection is empty")
)
