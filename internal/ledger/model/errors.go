package model

import "errors"

var (
	// ErrInvalidInput is returned before any store access when arguments are rejected.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrIndexConflict is returned by a store when the block index is already taken.
	ErrIndexConflict = errors.New("block index already exists")
	// ErrVersionConflict is returned by a store when an allocation changed since it was read.
	ErrVersionConflict = errors.New("allocation version conflict")
	// ErrRetriesExhausted is returned when every append attempt lost the chain race.
	ErrRetriesExhausted = errors.New("append retries exhausted")
)
