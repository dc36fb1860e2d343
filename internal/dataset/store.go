package dataset

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Store holds the merged table as process-wide read-only state. The pipeline
// runs on first access and the result is memoized; Reload swaps in a fresh
// snapshot atomically. Concurrent readers need no coordination beyond the
// internal lock because no writer exists between loads.
type Store struct {
	cfg    Config
	logger *slog.Logger

	mu       sync.RWMutex
	records  []MergedRecord
	loaded   bool
	loadedAt time.Time
}

// NewStore creates a store. No I/O happens until Records or Reload is called.
func NewStore(cfg Config, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "dataset_store")),
	}
}

// Records returns the merged table, running the pipeline on first call.
// The returned slice is shared; callers must not mutate it.
func (s *Store) Records(ctx context.Context) ([]MergedRecord, error) {
	s.mu.RLock()
	if s.loaded {
		records := s.records
		s.mu.RUnlock()
		return records, nil
	}
	s.mu.RUnlock()

	return s.load(ctx)
}

// Reload re-runs the pipeline and replaces the snapshot. Readers keep the old
// snapshot until the new one is fully built.
func (s *Store) Reload(ctx context.Context) (int, error) {
	records, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

// LoadedAt returns when the current snapshot was built, or the zero time if
// the pipeline has not run yet.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Size returns the number of merged records in the current snapshot.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Config returns the pipeline configuration the store was built with.
func (s *Store) Config() Config {
	return s.cfg
}

func (s *Store) load(ctx context.Context) ([]MergedRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	started := time.Now()
	records, err := Build(s.cfg, s.logger)
	if err != nil {
		s.logger.ErrorContext(ctx, "dataset load failed",
			slog.String("usage_file", s.cfg.UsageFile),
			slog.String("econ_file", s.cfg.EconFile),
			slog.String("error", err.Error()))
		return nil, err
	}

	s.mu.Lock()
	s.records = records
	s.loaded = true
	s.loadedAt = time.Now()
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "dataset snapshot ready",
		slog.Int("records", len(records)),
		slog.String("duration", time.Since(started).String()))

	return records, nil
}
