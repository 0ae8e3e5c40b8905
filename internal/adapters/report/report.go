// Package report renders the per-file analysis log.
//
// Formats are looked up in a registry so the CLI can pick one by name.
package report

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/okian/basecall/internal/domain/model"
)

// Report is what gets written for one input file.
type Report struct {
	Path   string
	Digest string
	Cycles []*model.CycleResult
}

// WriteFunc renders a report in one format.
type WriteFunc func(w io.Writer, r *Report) error

var (
	mu      sync.RWMutex
	writers = map[string]WriteFunc{}
)

// Register adds or replaces the writer for format.
func Register(format string, fn WriteFunc) {
	mu.Lock()
	defer mu.Unlock()
	writers[format] = fn
}

// Formats lists the registered format names.
func Formats() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(writers))
	for k := range writers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Write renders r with the writer registered for format.
func Write(format string, w io.Writer, r *Report) error {
	mu.RLock()
	fn, ok := writers[format]
	mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return fn(w, r)
}
