package grouprepo

import "errors"

var (
	ErrNotFound        = errors.New("group not found")
	ErrEmptyCollection = errors.New("group collection is empty")
	// ErrCapacityExceeded indicates a reservation would push currentMembers above maxMembers.
	ErrCapacityExceeded = errors.New("group capacity exceeded")
)
