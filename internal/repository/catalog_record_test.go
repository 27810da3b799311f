package repository_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/catalog-pricing/internal/event"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/repository"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/storage/catalog"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/storage/db"
)

// mockDB runs transactions on the pgxmock pool the same way db.Client does.
type mockDB struct {
	pgxmock.PgxPoolIface
}

func (m mockDB) WithTx(ctx context.Context, txFunc func(db.DB) error) error {
	return db.RunInTx(ctx, m.PgxPoolIface, txFunc)
}

type recordingOutboxRepo struct {
	repository.OutboxMsgRepository
	created []repository.CreateOutboxMsgParams
	err     error
}

func (r *recordingOutboxRepo) WithDB(db.DB) repository.OutboxMsgRepository { return r }

func (r *recordingOutboxRepo) CreateOutboxMsg(_ context.Context, params repository.CreateOutboxMsgParams) error {
	if r.err != nil {
		return r.err
	}
	r.created = append(r.created, params)
	return nil
}

var recordColumns = []string{"id", "title", "description", "category", "image", "price", "rating_rate", "rating_count"}

func newRecordRepository(t *testing.T) (*repository.CatalogRecordRepository, pgxmock.PgxPoolIface, *recordingOutboxRepo) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	outboxRepo := &recordingOutboxRepo{}
	return repository.NewCatalogRecordRepository(mockDB{mock}, outboxRepo), mock, outboxRepo
}

func backpackRow(price string) *pgxmock.Rows {
	return pgxmock.NewRows(recordColumns).AddRow(int64(1), "Backpack", "fits laptops", "bags", "https://img/1.png", price, 3.9, 120)
}

func TestCatalogRecordRepository_Put(t *testing.T) {
	ctx := context.Background()

	t.Run("Should insert an unknown record without an outbox message", func(t *testing.T) {
		repo, mock, outboxRepo := newRecordRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`FROM catalog_records WHERE id = .+ FOR UPDATE`).WillReturnRows(pgxmock.NewRows(recordColumns))
		mock.ExpectExec(`INSERT INTO catalog_records`).WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Put(ctx, catalog.Record{ID: 1, Title: "Backpack", Price: 109.95}))

		assert.Empty(t, outboxRepo.created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should write a price updated message when the price changes", func(t *testing.T) {
		repo, mock, outboxRepo := newRecordRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`FROM catalog_records WHERE id = .+ FOR UPDATE`).WillReturnRows(backpackRow("109.95"))
		mock.ExpectExec(`UPDATE catalog_records`).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Put(ctx, catalog.Record{ID: 1, Title: "Backpack", Price: 120.99}))
		require.NoError(t, mock.ExpectationsWereMet())

		require.Len(t, outboxRepo.created, 1)
		msg := outboxRepo.created[0]
		assert.Equal(t, event.TopicProductPriceUpdated, msg.Topic)
		require.NotNil(t, msg.PartitionKey)
		assert.Equal(t, "1", *msg.PartitionKey)

		var payload event.ProductPriceUpdatedEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &payload))
		assert.Equal(t, int64(1), payload.ProductID)
		assert.Equal(t, "Backpack", payload.Title)
		assert.Equal(t, 109.95, payload.OldPrice)
		assert.Equal(t, 120.99, payload.NewPrice)
		assert.False(t, payload.UpdatedAt.IsZero())
	})

	t.Run("Should skip the message when the two decimal price is unchanged", func(t *testing.T) {
		repo, mock, outboxRepo := newRecordRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`FROM catalog_records WHERE id = .+ FOR UPDATE`).WillReturnRows(backpackRow("109.95"))
		mock.ExpectExec(`UPDATE catalog_records`).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Put(ctx, catalog.Record{ID: 1, Title: "Backpack (new)", Price: 109.951}))

		assert.Empty(t, outboxRepo.created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should roll back when the outbox message cannot be written", func(t *testing.T) {
		repo, mock, outboxRepo := newRecordRepository(t)
		outboxRepo.err = errors.New("outbox unavailable")

		mock.ExpectBegin()
		mock.ExpectQuery(`FROM catalog_records WHERE id = .+ FOR UPDATE`).WillReturnRows(backpackRow("109.95"))
		mock.ExpectExec(`UPDATE catalog_records`).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectRollback()

		err := repo.Put(ctx, catalog.Record{ID: 1, Price: 1})
		assert.ErrorIs(t, err, outboxRepo.err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCatalogRecordRepository_ReplaceAll(t *testing.T) {
	ctx := context.Background()

	t.Run("Should copy each id once", func(t *testing.T) {
		repo, mock, _ := newRecordRepository(t)

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM catalog_records`).WillReturnResult(pgxmock.NewResult("DELETE", 5))
		mock.ExpectCopyFrom(pgx.Identifier{"catalog_records"}, recordColumns).WillReturnResult(2)
		mock.ExpectCommit()

		err := repo.ReplaceAll(ctx, []catalog.Record{
			{ID: 1, Price: 1},
			{ID: 2, Price: 2},
			{ID: 1, Price: 3},
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should only clear the table for an empty catalog", func(t *testing.T) {
		repo, mock, _ := newRecordRepository(t)

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM catalog_records`).WillReturnResult(pgxmock.NewResult("DELETE", 2))
		mock.ExpectCommit()

		require.NoError(t, repo.ReplaceAll(ctx, nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should roll back a short copy", func(t *testing.T) {
		repo, mock, _ := newRecordRepository(t)

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM catalog_records`).WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectCopyFrom(pgx.Identifier{"catalog_records"}, recordColumns).WillReturnResult(1)
		mock.ExpectRollback()

		err := repo.ReplaceAll(ctx, []catalog.Record{{ID: 1}, {ID: 2}})
		assert.ErrorContains(t, err, "copied 1 of 2")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCatalogRecordRepository_Reads(t *testing.T) {
	ctx := context.Background()

	t.Run("Should list records in position order", func(t *testing.T) {
		repo, mock, _ := newRecordRepository(t)

		mock.ExpectQuery(`FROM catalog_records ORDER BY position`).WillReturnRows(
			pgxmock.NewRows(recordColumns).
				AddRow(int64(2), "T-Shirt", "", "", "b.png", "22.30", 4.1, 259).
				AddRow(int64(1), "Backpack", "", "", "a.png", "109.95", 3.9, 120),
		)

		records, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, int64(2), records[0].ID)
		assert.Equal(t, 22.3, records[0].Price)
		assert.Equal(t, 259, records[0].Rating.Count)
		assert.Equal(t, 109.95, records[1].Price)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should map a missing row to ErrRecordNotFound", func(t *testing.T) {
		repo, mock, _ := newRecordRepository(t)

		mock.ExpectQuery(`FROM catalog_records WHERE id = `).WillReturnRows(pgxmock.NewRows(recordColumns))

		_, err := repo.Get(ctx, 42)
		assert.ErrorIs(t, err, catalog.ErrRecordNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should count records", func(t *testing.T) {
		repo, mock, _ := newRecordRepository(t)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM catalog_records`).WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))

		n, err := repo.Len(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
