package relay_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/catalog-pricing/internal/config"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/event"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/log"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/relay"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/repository"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/storage/db"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/storage/mq"
)

// fakeDB only supports WithTx; the relay never queries it directly.
type fakeDB struct {
	db.DB
	txCalls int
}

func (d *fakeDB) WithTx(_ context.Context, txFunc func(db.DB) error) error {
	d.txCalls++
	return txFunc(d)
}

func (d *fakeDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errors.New("unexpected exec")
}

func (d *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("unexpected query")
}

type fakeOutboxRepo struct {
	msgs    []repository.ListUnprocessedOutboxMsgsResult
	updated []repository.BulkUpdateOutboxMsgsItem
}

func (r *fakeOutboxRepo) WithDB(db.DB) repository.OutboxMsgRepository { return r }

func (r *fakeOutboxRepo) CreateOutboxMsg(context.Context, repository.CreateOutboxMsgParams) error {
	return nil
}

func (r *fakeOutboxRepo) ListUnprocessedOutboxMsgs(_ context.Context, params repository.ListUnprocessedOutboxMsgsParams) ([]repository.ListUnprocessedOutboxMsgsResult, error) {
	if int(params.BatchSize) < len(r.msgs) {
		return r.msgs[:params.BatchSize], nil
	}
	return r.msgs, nil
}

func (r *fakeOutboxRepo) BulkUpdateOutboxMsgs(_ context.Context, params repository.BulkUpdateOutboxMsgsParams) error {
	r.updated = append(r.updated, params.Items...)
	return nil
}

type fakeProducer struct {
	mu       sync.Mutex
	produced []mq.ProduceMsg
	failFor  string
}

func (p *fakeProducer) Produce(_ context.Context, msg mq.ProduceMsg) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if msg.PartitionKey != nil && *msg.PartitionKey == p.failFor {
		return errors.New("broker unavailable")
	}
	p.produced = append(p.produced, msg)
	return nil
}

func outboxMsg(key string) repository.ListUnprocessedOutboxMsgsResult {
	return repository.ListUnprocessedOutboxMsgsResult{
		ID:           uuid.New(),
		Topic:        event.TopicProductPriceUpdated,
		Headers:      map[string]string{},
		Payload:      []byte(`{"product_id":` + key + `}`),
		PartitionKey: &key,
	}
}

func TestService_RelayBatch(t *testing.T) {
	ctx := context.Background()
	cfg := config.Relay{BatchSize: 10}

	t.Run("Should do nothing when the outbox is empty", func(t *testing.T) {
		repo := &fakeOutboxRepo{}
		producer := &fakeProducer{}
		svc := relay.NewService(cfg, log.Discard(), &fakeDB{}, repo, producer)

		n, err := svc.RelayBatch(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Empty(t, producer.produced)
		assert.Empty(t, repo.updated)
	})

	t.Run("Should publish and mark every message", func(t *testing.T) {
		ok, failing := outboxMsg("1"), outboxMsg("2")
		repo := &fakeOutboxRepo{msgs: []repository.ListUnprocessedOutboxMsgsResult{ok, failing}}
		producer := &fakeProducer{failFor: "2"}
		database := &fakeDB{}
		svc := relay.NewService(cfg, log.Discard(), database, repo, producer)

		n, err := svc.RelayBatch(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, 1, database.txCalls)

		require.Len(t, producer.produced, 1)
		assert.Equal(t, event.TopicProductPriceUpdated, producer.produced[0].Topic)

		require.Len(t, repo.updated, 2)
		byID := map[uuid.UUID]*string{}
		for _, item := range repo.updated {
			byID[item.ID] = item.Error
		}
		assert.Nil(t, byID[ok.ID])
		require.NotNil(t, byID[failing.ID])
		assert.Contains(t, *byID[failing.ID], "broker unavailable")
	})

	t.Run("Should respect the batch size", func(t *testing.T) {
		repo := &fakeOutboxRepo{msgs: []repository.ListUnprocessedOutboxMsgsResult{outboxMsg("1"), outboxMsg("2"), outboxMsg("3")}}
		svc := relay.NewService(config.Relay{BatchSize: 2}, log.Discard(), &fakeDB{}, repo, &fakeProducer{})

		n, err := svc.RelayBatch(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})
}
