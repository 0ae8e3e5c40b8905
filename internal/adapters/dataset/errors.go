package dataset

import "errors"

// Sentinel error kinds for this package.
var (
	ErrSchema   = errors.New("invalid schema")
	ErrNoHeader = errors.New("missing header row")
)
