package catalog

import (
	"context"
	"errors"
)

// ErrRecordNotFound is returned when no record matches the requested id.
var ErrRecordNotFound = errors.New("catalog record not found")

// ErrSourceUnavailable wraps failures to reach or read the remote catalog.
var ErrSourceUnavailable = errors.New("remote catalog unavailable")

type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Record is a product as exposed by the remote catalog service.
type Record struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
	Rating      Rating  `json:"rating"`
}

// Source reads records from the remote catalog.
type Source interface {
	FetchAll(ctx context.Context) ([]Record, error)
}

// RecordCache keeps records in the order they were first stored.
type RecordCache interface {
	List(ctx context.Context) ([]Record, error)
	// Get returns ErrRecordNotFound when id is unknown.
	Get(ctx context.Context, id int64) (Record, error)
	// Put replaces the record with the same id in place, or appends it.
	Put(ctx context.Context, record Record) error
	ReplaceAll(ctx context.Context, records []Record) error
	Len(ctx context.Context) (int, error)
}

// Store is the backing store consumed by the product repository.
type Store interface {
	FetchAll(ctx context.Context) ([]Record, error)
	FetchByID(ctx context.Context, id int64) (Record, error)
	Save(ctx context.Context, record Record) error
}

// DedupeRecords collapses repeated ids. Each id keeps the position of its first
// occurrence and the value of its last one, which is what applying the records
// one by one with RecordCache.Put would leave behind.
func DedupeRecords(records []Record) []Record {
	index := make(map[int64]int, len(records))
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if i, ok := index[r.ID]; ok {
			out[i] = r
			continue
		}
		index[r.ID] = len(out)
		out = append(out, r)
	}
	return out
}
