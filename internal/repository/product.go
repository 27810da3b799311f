package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/tuanvumaihuynh/catalog-pricing/internal/apperr"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/model"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/storage/catalog"
)

// ErrMalformedRecord marks a stored record whose price the price rules reject.
// The rule violation is kept as text only so that corrupt data surfaces as an
// unexpected failure rather than as a validation error of the caller's input.
var ErrMalformedRecord = errors.New("malformed catalog record")

type ProductRepository interface {
	// GetAll returns apperr.CatalogUnavailableErr when the remote catalog
	// cannot be read.
	GetAll(ctx context.Context) ([]model.Product, error)
	// GetByID returns apperr.ResourceNotFoundErr for any lookup failure.
	GetByID(ctx context.Context, id int64) (model.Product, error)
	// Save overwrites the price of the stored record. Saving a product whose
	// record does not exist is a no-op.
	Save(ctx context.Context, product model.Product) error
}

type productRepository struct {
	store  catalog.Store
	logger *slog.Logger
}

func NewProductRepository(store catalog.Store, logger *slog.Logger) ProductRepository {
	return &productRepository{
		store:  store,
		logger: logger.With(slog.String("component", "product_repository")),
	}
}

func (r productRepository) GetAll(ctx context.Context) ([]model.Product, error) {
	records, err := r.store.FetchAll(ctx)
	if err != nil {
		if errors.Is(err, catalog.ErrSourceUnavailable) {
			return nil, apperr.CatalogUnavailableErr.WrapParent(err)
		}
		return nil, fmt.Errorf("fetch all records: %w", err)
	}

	products := make([]model.Product, 0, len(records))
	for _, record := range records {
		product, err := RecordToProduct(record)
		if err != nil {
			return nil, malformedRecord(record.ID, err)
		}
		products = append(products, product)
	}

	return products, nil
}

func (r productRepository) GetByID(ctx context.Context, id int64) (model.Product, error) {
	record, err := r.store.FetchByID(ctx, id)
	if err != nil {
		return model.Product{}, apperr.ResourceNotFoundErr.WrapParent(err)
	}

	product, err := RecordToProduct(record)
	if err != nil {
		return model.Product{}, malformedRecord(id, err)
	}

	return product, nil
}

func (r productRepository) Save(ctx context.Context, product model.Product) error {
	record, err := r.store.FetchByID(ctx, product.ID())
	if err != nil {
		if errors.Is(err, catalog.ErrRecordNotFound) {
			r.logger.WarnContext(ctx, "skipping save of unknown product", slog.Int64("product_id", product.ID()))
			return nil
		}
		return fmt.Errorf("fetch record %d: %w", product.ID(), err)
	}

	record.Price = product.Price().Value()
	if err := r.store.Save(ctx, record); err != nil {
		return fmt.Errorf("save record %d: %w", product.ID(), err)
	}

	return nil
}

func malformedRecord(id int64, err error) error {
	return fmt.Errorf("record %d: %w: %v", id, ErrMalformedRecord, err)
}

// RecordToProduct drops the attributes products do not carry and formats the
// price with exactly two decimals before validating it.
func RecordToProduct(record catalog.Record) (model.Product, error) {
	return model.NewProduct(model.NewProductParams{
		ID:    record.ID,
		Title: record.Title,
		Image: record.Image,
		Price: strconv.FormatFloat(record.Price, 'f', 2, 64),
	})
}
