// Package dedupe guards a batch against processing the same input twice.
package dedupe

import (
	"context"
	"path/filepath"
	"sync"
)

// Deduper records which job first claimed each input path.
type Deduper interface {
	// SeenAndRecord atomically checks whether path was already claimed. It
	// returns the owning job id and true when it was, or records jobID as
	// the owner and returns ("", false).
	SeenAndRecord(ctx context.Context, path, jobID string) (string, bool)

	// Unrecord releases path so a later job may claim it. Used when the
	// owning job could not be queued.
	Unrecord(ctx context.Context, path string)

	Size() int
}

type inMemoryDeduper struct {
	mu    sync.Mutex
	owner map[string]string
	key   func(string) string
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		owner: make(map[string]string),
		key:   Key,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Key normalises a path so that "a.csv", "./a.csv" and its absolute form
// collide.
func Key(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, path, jobID string) (string, bool) {
	k := d.key(path)
	d.mu.Lock()
	defer d.mu.Unlock()
	if owner, ok := d.owner[k]; ok {
		return owner, true
	}
	d.owner[k] = jobID
	return "", false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, path string) {
	k := d.key(path)
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.owner, k)
}

func (d *inMemoryDeduper) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.owner)
}
