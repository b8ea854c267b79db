package dataset

import (
	"context"
	"sync"
	"time"

	"popdash/domain/population"
	"popdash/internal"
	"popdash/ports"
)

// Store keeps the loaded dataset in process memory and hands the same
// immutable copy to every request
type Store struct {
	source ports.DatasetSource
	ttl    time.Duration
	now    func() time.Time
	logger *internal.Logger

	mu       sync.RWMutex
	cached   *population.Dataset
	loadedAt time.Time
}

// NewStore creates a store over source. A ttl of zero keeps the first
// successful load for the lifetime of the process.
func NewStore(source ports.DatasetSource, ttl time.Duration) *Store {
	return &Store{
		source: source,
		ttl:    ttl,
		now:    time.Now,
		logger: internal.DefaultLogger.Component("dataset_store"),
	}
}

// Get returns the cached dataset, loading it when missing or expired.
// Failed loads are not cached.
func (s *Store) Get(ctx context.Context) (*population.Dataset, error) {
	s.mu.RLock()
	if s.fresh() {
		ds := s.cached
		s.mu.RUnlock()
		return ds, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// another request may have loaded it while we waited
	if s.fresh() {
		return s.cached, nil
	}

	start := s.now()
	ds, err := s.source.Load(ctx)
	if err != nil {
		return nil, err
	}

	s.cached = ds
	s.loadedAt = s.now()
	s.logger.Info("dataset %s cached (%d records, fingerprint %s, %s)",
		s.source.Describe(), ds.Len(), ds.Fingerprint().Short(), s.loadedAt.Sub(start))
	return ds, nil
}

// Invalidate drops the cached dataset so the next Get reloads it
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = nil
	s.loadedAt = time.Time{}
	s.logger.Info("dataset cache invalidated")
}

// fresh must be called with mu held
func (s *Store) fresh() bool {
	if s.cached == nil {
		return false
	}
	return s.ttl <= 0 || s.now().Sub(s.loadedAt) < s.ttl
}
