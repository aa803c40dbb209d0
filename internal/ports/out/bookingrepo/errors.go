package bookingrepo

import "errors"

var (
	ErrNotFound        = errors.New("booking not found")
	ErrEmptyCollection = errors.New("booking collection is empty")
)
