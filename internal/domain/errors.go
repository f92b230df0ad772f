package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found or is not
	// owned by the caller.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a unique key collision.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidInput indicates missing or malformed request fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict indicates a state guard rejected the operation.
	ErrConflict = errors.New("conflict")
	// ErrUnavailable indicates a referenced product is not on sale.
	ErrUnavailable = errors.New("unavailable")
	// ErrTimeout indicates the store did not answer within its bound.
	ErrTimeout = errors.New("store timeout")
)
