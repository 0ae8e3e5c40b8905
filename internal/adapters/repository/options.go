package repository

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithCapacity preallocates room for n outcomes.
func WithCapacity(n int) Option {
	return func(s *MemoryStore) {
		if n > 0 {
			s.byJob = make(map[string]*outcomeEntry, n)
		}
	}
}
