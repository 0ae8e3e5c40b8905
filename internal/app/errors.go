package service

import (
	"context"
	"errors"
	"io/fs"

	"github.com/okian/basecall/internal/domain/model"
)

// ErrNoInputs is returned by Run when called without paths.
var ErrNoInputs = errors.New("no input files")

// errorKind labels err for the errors_total metric.
func errorKind(err error) string {
	switch {
	case errors.Is(err, model.ErrUnknownDye):
		return "unknown_dye"
	case errors.Is(err, model.ErrEmptyCycle):
		return "empty_cycle"
	case errors.Is(err, model.ErrMalformedInput):
		return "malformed_input"
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return "io"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "other"
	}
}
