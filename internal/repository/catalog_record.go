package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tuanvumaihuynh/catalog-pricing/internal/event"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/storage/catalog"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/storage/db"
	"github.com/tuanvumaihuynh/catalog-pricing/pkg/outbox"
	"github.com/tuanvumaihuynh/catalog-pricing/pkg/ptr"
)

var _ catalog.RecordCache = (*CatalogRecordRepository)(nil)

// CatalogRecordRepository is a Postgres backed record cache. A Put that
// changes the price of an existing record writes a product.price_updated
// outbox message in the same transaction.
type CatalogRecordRepository struct {
	db            db.DB
	outboxMsgRepo OutboxMsgRepository
}

func NewCatalogRecordRepository(db db.DB, outboxMsgRepo OutboxMsgRepository) *CatalogRecordRepository {
	return &CatalogRecordRepository{
		db:            db,
		outboxMsgRepo: outboxMsgRepo,
	}
}

const selectRecordColumns = `id, title, description, category, image, price, rating_rate, rating_count`

func (r *CatalogRecordRepository) List(ctx context.Context) ([]catalog.Record, error) {
	rows, err := r.db.Query(ctx, `SELECT `+selectRecordColumns+` FROM catalog_records ORDER BY position;`)
	if err != nil {
		return nil, fmt.Errorf("list catalog records: %w", err)
	}

	records, err := pgx.CollectRows(rows, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("collect catalog records: %w", err)
	}

	return records, nil
}

func (r *CatalogRecordRepository) Get(ctx context.Context, id int64) (catalog.Record, error) {
	return r.get(ctx, r.db, id, false)
}

func (r *CatalogRecordRepository) Put(ctx context.Context, record catalog.Record) error {
	return r.db.WithTx(ctx, func(tx db.DB) error {
		existing, err := r.get(ctx, tx, record.ID, true)
		switch {
		case errors.Is(err, catalog.ErrRecordNotFound):
			return insertRecord(ctx, tx, record)
		case err != nil:
			return err
		}

		if _, err := tx.Exec(ctx, `
			UPDATE catalog_records
			SET title        = @title,
				description  = @description,
				category     = @category,
				image        = @image,
				price        = @price::numeric,
				rating_rate  = @rating_rate,
				rating_count = @rating_count,
				updated_at   = NOW()
			WHERE id = @id;
		`, recordArgs(record)); err != nil {
			return fmt.Errorf("update catalog record %d: %w", record.ID, err)
		}

		if formatPrice(existing.Price) == formatPrice(record.Price) {
			return nil
		}

		payload, err := json.Marshal(event.ProductPriceUpdatedEvent{
			ProductID: record.ID,
			Title:     record.Title,
			OldPrice:  existing.Price,
			NewPrice:  record.Price,
			UpdatedAt: time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("marshal product price updated event: %w", err)
		}

		if err := r.outboxMsgRepo.WithDB(tx).CreateOutboxMsg(ctx, CreateOutboxMsgParams{
			Topic:        event.TopicProductPriceUpdated,
			Headers:      outbox.BuildHeaders(ctx),
			Payload:      payload,
			PartitionKey: ptr.New(strconv.FormatInt(record.ID, 10)),
		}); err != nil {
			return fmt.Errorf("create outbox msg: %w", err)
		}

		return nil
	})
}

var recordCopyColumns = []string{"id", "title", "description", "category", "image", "price", "rating_rate", "rating_count"}

// ReplaceAll swaps the table contents for records. Repeated ids collapse the
// way they do in the other caches, and positions follow the copy order.
func (r *CatalogRecordRepository) ReplaceAll(ctx context.Context, records []catalog.Record) error {
	records = catalog.DedupeRecords(records)

	return r.db.WithTx(ctx, func(tx db.DB) error {
		if _, err := tx.Exec(ctx, `DELETE FROM catalog_records;`); err != nil {
			return fmt.Errorf("delete catalog records: %w", err)
		}

		if len(records) == 0 {
			return nil
		}

		n, err := tx.CopyFrom(ctx, pgx.Identifier{"catalog_records"}, recordCopyColumns,
			pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
				return recordCopyRow(records[i])
			}),
		)
		if err != nil {
			return fmt.Errorf("copy catalog records: %w", err)
		}
		if int(n) != len(records) {
			return fmt.Errorf("copy catalog records: copied %d of %d", n, len(records))
		}

		return nil
	})
}

func (r *CatalogRecordRepository) Len(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM catalog_records;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count catalog records: %w", err)
	}
	return n, nil
}

func (r *CatalogRecordRepository) get(ctx context.Context, q db.DB, id int64, forUpdate bool) (catalog.Record, error) {
	query := `SELECT ` + selectRecordColumns + ` FROM catalog_records WHERE id = @id`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	rows, err := q.Query(ctx, query, pgx.NamedArgs{"id": id})
	if err != nil {
		return catalog.Record{}, fmt.Errorf("get catalog record %d: %w", id, err)
	}

	record, err := pgx.CollectExactlyOneRow(rows, scanRecord)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return catalog.Record{}, catalog.ErrRecordNotFound
		}
		return catalog.Record{}, fmt.Errorf("scan catalog record %d: %w", id, err)
	}

	return record, nil
}

const insertRecordSQL = `
	INSERT INTO catalog_records (id, title, description, category, image, price, rating_rate, rating_count)
	VALUES (@id, @title, @description, @category, @image, @price::numeric, @rating_rate, @rating_count);
`

func insertRecord(ctx context.Context, q db.DB, record catalog.Record) error {
	if _, err := q.Exec(ctx, insertRecordSQL, recordArgs(record)); err != nil {
		return fmt.Errorf("insert catalog record %d: %w", record.ID, err)
	}
	return nil
}

func recordArgs(record catalog.Record) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":           record.ID,
		"title":        record.Title,
		"description":  record.Description,
		"category":     record.Category,
		"image":        record.Image,
		"price":        formatPrice(record.Price),
		"rating_rate":  record.Rating.Rate,
		"rating_count": record.Rating.Count,
	}
}

func recordCopyRow(record catalog.Record) ([]any, error) {
	var price pgtype.Numeric
	if err := price.Scan(formatPrice(record.Price)); err != nil {
		return nil, fmt.Errorf("encode price of record %d: %w", record.ID, err)
	}

	return []any{
		record.ID,
		record.Title,
		record.Description,
		record.Category,
		record.Image,
		price,
		record.Rating.Rate,
		record.Rating.Count,
	}, nil
}

func scanRecord(row pgx.CollectableRow) (catalog.Record, error) {
	var (
		record catalog.Record
		price  pgtype.Numeric
	)
	if err := row.Scan(
		&record.ID,
		&record.Title,
		&record.Description,
		&record.Category,
		&record.Image,
		&price,
		&record.Rating.Rate,
		&record.Rating.Count,
	); err != nil {
		return record, err
	}

	f, err := price.Float64Value()
	if err != nil {
		return record, fmt.Errorf("convert price to float64: %w", err)
	}
	record.Price = f.Float64

	return record, nil
}

func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', 2, 64)
}
