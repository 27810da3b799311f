package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

var _ Store = (*CachedStore)(nil)

// CachedStore serves records from a RecordCache, seeding it from the remote
// Source the first time it is found empty. Once seeded, the cache is the
// backing store: saves never reach the remote catalog.
type CachedStore struct {
	source Source
	cache  RecordCache
	logger *slog.Logger

	seed        singleflight.Group
	seedTimeout time.Duration
}

type StoreOption func(*CachedStore)

// WithSeedTimeout bounds the shared remote fetch that seeds the cache.
func WithSeedTimeout(d time.Duration) StoreOption {
	return func(s *CachedStore) {
		if d > 0 {
			s.seedTimeout = d
		}
	}
}

func NewCachedStore(source Source, cache RecordCache, logger *slog.Logger, opts ...StoreOption) *CachedStore {
	s := &CachedStore{
		source:      source,
		cache:       cache,
		logger:      logger.With(slog.String("component", "catalog_store")),
		seedTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *CachedStore) FetchAll(ctx context.Context) ([]Record, error) {
	n, err := s.cache.Len(ctx)
	if err != nil {
		return nil, fmt.Errorf("cache len: %w", err)
	}

	if n == 0 {
		return s.seedFromSource(ctx)
	}

	records, err := s.cache.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("cache list: %w", err)
	}

	return records, nil
}

func (s *CachedStore) FetchByID(ctx context.Context, id int64) (Record, error) {
	if err := s.ensureSeeded(ctx); err != nil {
		return Record{}, err
	}

	record, err := s.cache.Get(ctx, id)
	if err != nil {
		return Record{}, fmt.Errorf("cache get: %w", err)
	}

	return record, nil
}

func (s *CachedStore) Save(ctx context.Context, record Record) error {
	if err := s.ensureSeeded(ctx); err != nil {
		return err
	}

	if err := s.cache.Put(ctx, record); err != nil {
		return fmt.Errorf("cache put: %w", err)
	}

	return nil
}

func (s *CachedStore) ensureSeeded(ctx context.Context) error {
	n, err := s.cache.Len(ctx)
	if err != nil {
		return fmt.Errorf("cache len: %w", err)
	}
	if n > 0 {
		return nil
	}

	_, err = s.seedFromSource(ctx)
	return err
}

// seedFromSource shares one remote fetch between concurrent callers. The fetch
// is detached from the caller that started it, so a caller giving up does not
// fail the others; each caller only waits as long as its own ctx allows.
func (s *CachedStore) seedFromSource(ctx context.Context) ([]Record, error) {
	ch := s.seed.DoChan("seed", func() (any, error) {
		seedCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.seedTimeout)
		defer cancel()

		records, err := s.source.FetchAll(seedCtx)
		if err != nil {
			return nil, fmt.Errorf("source fetch all: %w: %w", ErrSourceUnavailable, err)
		}

		if err := s.cache.ReplaceAll(seedCtx, records); err != nil {
			return nil, fmt.Errorf("cache replace all: %w", err)
		}

		s.logger.InfoContext(seedCtx, "seeded record cache from remote catalog", slog.Int("count", len(records)))
		return records, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("wait for cache seed: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]Record), nil
	}
}
