package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/basecall/internal/domain/model"
)

func TestMemoryStore_BasicOperations(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}

	o := &model.Outcome{JobID: "job-1", Path: "a.csv", Index: 0}
	if err := store.Put(ctx, o); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count := store.Count(ctx); count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}

	got, err := store.Get(ctx, "job-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != o {
		t.Errorf("expected stored outcome back, got %+v", got)
	}

	if _, err := store.Get(ctx, "job-9"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_RejectsBadOutcomes(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(WithCapacity(4))

	if err := store.Put(ctx, nil); !errors.Is(err, ErrNoOutcome) {
		t.Errorf("expected ErrNoOutcome, got %v", err)
	}
	if err := store.Put(ctx, &model.Outcome{Path: "a.csv"}); !errors.Is(err, ErrNoJobID) {
		t.Errorf("expected ErrNoJobID, got %v", err)
	}
}

func TestMemoryStore_OrderAndFailed(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	boom := errors.New("boom")

	for _, idx := range []int{2, 0, 3, 1} {
		o := &model.Outcome{JobID: fmt.Sprintf("job-%d", idx), Index: idx}
		if idx%2 == 1 {
			o.Err = boom
		}
		if err := store.Put(ctx, o); err != nil {
			t.Fatalf("put: %v", err)
		}
	}

	all := store.All(ctx)
	if len(all) != 4 {
		t.Fatalf("expected 4 outcomes, got %d", len(all))
	}
	for i, o := range all {
		if o.Index != i {
			t.Errorf("position %d holds index %d", i, o.Index)
		}
	}

	failed := store.Failed(ctx)
	if len(failed) != 2 || failed[0].Index != 1 || failed[1].Index != 3 {
		t.Errorf("unexpected failed outcomes: %+v", failed)
	}
}

func TestMemoryStore_ConcurrentPuts(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				id := fmt.Sprintf("job-%d-%d", g, i)
				_ = store.Put(ctx, &model.Outcome{JobID: id, Index: g*100 + i})
			}
		}()
	}
	wg.Wait()

	if count := store.Count(ctx); count != 800 {
		t.Errorf("expected 800 outcomes, got %d", count)
	}
	all := store.All(ctx)
	for i := 1; i < len(all); i++ {
		if all[i-1].Index > all[i].Index {
			t.Fatalf("outcomes out of order at %d", i)
		}
	}
}
