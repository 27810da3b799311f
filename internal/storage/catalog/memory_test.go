package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/catalog-pricing/internal/storage/catalog"
)

func TestMemoryCache(t *testing.T) {
	testRecordCache(t, func(*testing.T) catalog.RecordCache {
		return catalog.NewMemoryCache()
	})

	t.Run("Should return copies from List", func(t *testing.T) {
		ctx := context.Background()
		c := catalog.NewMemoryCache()
		require.NoError(t, c.Put(ctx, catalog.Record{ID: 1, Price: 5}))

		records, err := c.List(ctx)
		require.NoError(t, err)
		records[0].Price = 100

		got, err := c.Get(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, float64(5), got.Price)
	})
}
