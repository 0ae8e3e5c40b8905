package simulate

import "errors"

// Sentinel error kinds for this package.
var (
	ErrInvalidConfig = errors.New("invalid simulation config")
	ErrMismatch      = errors.New("basecaller result differs from planted truth")
)
