package repository

import "errors"

// Sentinel kinds for outcome store errors.
var (
	ErrNotFound  = errors.New("outcome not found")
	ErrNoOutcome = errors.New("nil outcome")
	ErrNoJobID   = errors.New("outcome has no job id")
)
