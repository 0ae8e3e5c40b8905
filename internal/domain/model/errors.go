package model

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for input validation and internal invariants.
var (
	// ErrMalformedInput marks data that cannot be turned into a cycle.
	ErrMalformedInput = errors.New("malformed input")
	// ErrEmptyCycle is a malformed cycle without any spots.
	ErrEmptyCycle = fmt.Errorf("%w: cycle has no spots", ErrMalformedInput)
	// ErrUnknownDye is raised when an assignment references a dye the map does not cover.
	ErrUnknownDye = errors.New("dye not covered by dye-to-base map")
)
