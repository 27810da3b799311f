package catalog

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

var _ RecordCache = (*MemoryCache)(nil)

// MemoryCache is an in-process RecordCache.
type MemoryCache struct {
	mu      sync.RWMutex
	records []Record
	index   map[int64]int
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{index: make(map[int64]int)}
}

func (c *MemoryCache) List(_ context.Context) ([]Record, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.records), nil
}

func (c *MemoryCache) Get(_ context.Context, id int64) (Record, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[id]
	if !ok {
		return Record{}, fmt.Errorf("product %d: %w", id, ErrRecordNotFound)
	}
	return c.records[i], nil
}

func (c *MemoryCache) Put(_ context.Context, record Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i, ok := c.index[record.ID]; ok {
		c.records[i] = record
		return nil
	}

	c.index[record.ID] = len(c.records)
	c.records = append(c.records, record)
	return nil
}

func (c *MemoryCache) ReplaceAll(_ context.Context, records []Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = DedupeRecords(records)
	c.index = make(map[int64]int, len(c.records))
	for i, r := range c.records {
		c.index[r.ID] = i
	}

	return nil
}

func (c *MemoryCache) Len(_ context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.records), nil
}
