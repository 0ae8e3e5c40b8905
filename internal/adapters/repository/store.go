// Package repository keeps the per-file outcomes of a batch.
package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/okian/basecall/internal/domain/model"
)

// Store provides read/write access to batch outcomes.
type Store interface {
	// Put stores o under its job id, replacing any earlier outcome.
	Put(ctx context.Context, o *model.Outcome) error

	// Get returns the outcome of a job. Returns ErrNotFound if it is unknown.
	Get(ctx context.Context, jobID string) (*model.Outcome, error)

	// All returns every outcome ordered by command-line position.
	All(ctx context.Context) []*model.Outcome

	// Failed returns the outcomes that carry an error, in command-line order.
	Failed(ctx context.Context) []*model.Outcome

	// Count returns the number of outcomes stored.
	Count(ctx context.Context) int
}

type outcomeEntry struct {
	outcome *model.Outcome
	seq     uint64
}

// MemoryStore is a mutex-guarded in-memory Store.
type MemoryStore struct {
	mu    sync.RWMutex
	byJob map[string]*outcomeEntry
	seq   uint64
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{}
	for _, opt := range opts {
		opt(s)
	}
	if s.byJob == nil {
		s.byJob = make(map[string]*outcomeEntry)
	}
	return s
}

func (s *MemoryStore) Put(_ context.Context, o *model.Outcome) error {
	if o == nil {
		return ErrNoOutcome
	}
	if o.JobID == "" {
		return ErrNoJobID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.byJob[o.JobID] = &outcomeEntry{outcome: o, seq: s.seq}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, jobID string) (*model.Outcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.byJob[jobID]
	if !ok {
		return nil, ErrNotFound
	}
	return e.outcome, nil
}

func (s *MemoryStore) All(_ context.Context) []*model.Outcome {
	return s.collect(func(*model.Outcome) bool { return true })
}

func (s *MemoryStore) Failed(_ context.Context) []*model.Outcome {
	return s.collect((*model.Outcome).Failed)
}

func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byJob)
}

// collect returns matching outcomes by Index, then by insertion order.
func (s *MemoryStore) collect(keep func(*model.Outcome) bool) []*model.Outcome {
	s.mu.RLock()
	entries := make([]*outcomeEntry, 0, len(s.byJob))
	for _, e := range s.byJob {
		if keep(e.outcome) {
			entries = append(entries, e)
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(entries, func(a, b *outcomeEntry) int {
		if a.outcome.Index != b.outcome.Index {
			return a.outcome.Index - b.outcome.Index
		}
		return int(a.seq) - int(b.seq)
	})
	out := make([]*model.Outcome, len(entries))
	for i, e := range entries {
		out[i] = e.outcome
	}
	return out
}
