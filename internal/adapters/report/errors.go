package report

import "errors"

// ErrUnknownFormat is returned for formats nobody registered.
var ErrUnknownFormat = errors.New("unknown report format")
