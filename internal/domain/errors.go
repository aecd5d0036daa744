package domain

import "errors"

var (
	// ErrNotFound is returned by stores and services when an entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when caller-supplied data cannot be used.
	ErrInvalidInput = errors.New("invalid input")
)
