package catalog_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/catalog-pricing/internal/log"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/storage/catalog"
)

type fakeSource struct {
	records    []catalog.Record
	err        error
	fetchCalls atomic.Int32
}

func (s *fakeSource) FetchAll(_ context.Context) ([]catalog.Record, error) {
	s.fetchCalls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

// slowSource blocks FetchAll until release is closed.
type slowSource struct {
	records    []catalog.Record
	started    chan struct{}
	release    chan struct{}
	fetchCalls atomic.Int32
}

func (s *slowSource) FetchAll(ctx context.Context) ([]catalog.Record, error) {
	if s.fetchCalls.Add(1) == 1 {
		close(s.started)
	}
	select {
	case <-s.release:
		return s.records, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestCachedStore(t *testing.T) {
	ctx := context.Background()
	remote := []catalog.Record{
		{ID: 1, Title: "Backpack", Price: 109.95},
		{ID: 2, Title: "T-Shirt", Price: 22.3},
	}

	t.Run("Should seed from the source once", func(t *testing.T) {
		source := &fakeSource{records: remote}
		store := catalog.NewCachedStore(source, catalog.NewMemoryCache(), log.Discard())

		first, err := store.FetchAll(ctx)
		require.NoError(t, err)
		second, err := store.FetchAll(ctx)
		require.NoError(t, err)

		assert.Equal(t, remote, first)
		assert.Equal(t, remote, second)
		assert.Equal(t, int32(1), source.fetchCalls.Load())
	})

	t.Run("Should seed before looking up by id", func(t *testing.T) {
		source := &fakeSource{records: remote}
		store := catalog.NewCachedStore(source, catalog.NewMemoryCache(), log.Discard())

		record, err := store.FetchByID(ctx, 2)
		require.NoError(t, err)

		assert.Equal(t, "T-Shirt", record.Title)
		assert.Equal(t, int32(1), source.fetchCalls.Load())
	})

	t.Run("Should report unknown ids", func(t *testing.T) {
		store := catalog.NewCachedStore(&fakeSource{records: remote}, catalog.NewMemoryCache(), log.Discard())

		_, err := store.FetchByID(ctx, 99)
		assert.ErrorIs(t, err, catalog.ErrRecordNotFound)
	})

	t.Run("Should serve saved records without reaching the source", func(t *testing.T) {
		source := &fakeSource{records: remote}
		store := catalog.NewCachedStore(source, catalog.NewMemoryCache(), log.Discard())

		updated := remote[0]
		updated.Price = 120.99
		require.NoError(t, store.Save(ctx, updated))

		records, err := store.FetchAll(ctx)
		require.NoError(t, err)

		require.Len(t, records, 2)
		assert.Equal(t, 120.99, records[0].Price)
		assert.Equal(t, 109.95, remote[0].Price)
		assert.Equal(t, int32(1), source.fetchCalls.Load())
	})

	t.Run("Should refetch while the remote catalog is empty", func(t *testing.T) {
		source := &fakeSource{}
		store := catalog.NewCachedStore(source, catalog.NewMemoryCache(), log.Discard())

		records, err := store.FetchAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, records)

		_, err = store.FetchAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, int32(2), source.fetchCalls.Load())
	})

	t.Run("Should surface source failures", func(t *testing.T) {
		boom := errors.New("connection refused")
		store := catalog.NewCachedStore(&fakeSource{err: boom}, catalog.NewMemoryCache(), log.Discard())

		_, err := store.FetchAll(ctx)
		assert.ErrorIs(t, err, boom)
		assert.ErrorIs(t, err, catalog.ErrSourceUnavailable)

		_, err = store.FetchByID(ctx, 1)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("Should not fail waiting callers when the first caller gives up", func(t *testing.T) {
		source := &slowSource{
			records: remote,
			started: make(chan struct{}),
			release: make(chan struct{}),
		}
		store := catalog.NewCachedStore(source, catalog.NewMemoryCache(), log.Discard(), catalog.WithSeedTimeout(5*time.Second))

		shortCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()

		firstErr := make(chan error, 1)
		go func() {
			_, err := store.FetchAll(shortCtx)
			firstErr <- err
		}()
		<-source.started

		type result struct {
			records []catalog.Record
			err     error
		}
		second := make(chan result, 1)
		go func() {
			records, err := store.FetchAll(ctx)
			second <- result{records: records, err: err}
		}()

		assert.ErrorIs(t, <-firstErr, context.DeadlineExceeded)
		close(source.release)

		res := <-second
		require.NoError(t, res.err)
		assert.Equal(t, remote, res.records)

		records, err := store.FetchAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, remote, records)
	})
}
