package service

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tuanvumaihuynh/catalog-pricing/internal/apperr"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/model"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/repository"
)

var tracer = otel.Tracer("internal/service")

type UpdatePriceParams struct {
	User      model.User
	ProductID int64
	Price     string
}

type ProductService interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id int64) (model.Product, error)
	// StartPriceEdit checks that user may open product id for editing and returns it.
	StartPriceEdit(ctx context.Context, user model.User, id int64) (model.Product, error)
	// ValidatePrice runs the price rules on text without touching the catalog.
	ValidatePrice(text string) error
	UpdatePrice(ctx context.Context, params UpdatePriceParams) (model.Product, error)
}

type productService struct {
	logger      *slog.Logger
	productRepo repository.ProductRepository
}

func NewProductService(
	logger *slog.Logger,
	productRepo repository.ProductRepository,
) ProductService {
	return &productService{
		logger:      logger.With(slog.String("service", "product")),
		productRepo: productRepo,
	}
}

func (s *productService) ListProducts(ctx context.Context) ([]model.Product, error) {
	ctx, span := tracer.Start(ctx, "ProductService.ListProducts")
	defer span.End()

	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		recordSpanError(span, err)
		return nil, fmt.Errorf("product repository get all: %w", err)
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	return products, nil
}

func (s *productService) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	ctx, span := tracer.Start(ctx, "ProductService.GetProduct", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		recordSpanError(span, err)
		return model.Product{}, fmt.Errorf("product repository get by id: %w", err)
	}

	return product, nil
}

func (s *productService) StartPriceEdit(ctx context.Context, user model.User, id int64) (model.Product, error) {
	ctx, span := tracer.Start(ctx, "ProductService.StartPriceEdit", trace.WithAttributes(
		attribute.Int64("product.id", id),
		attribute.String("user.id", user.ID),
	))
	defer span.End()

	if !user.IsAdmin {
		recordSpanError(span, apperr.EditNotAllowedErr)
		return model.Product{}, apperr.EditNotAllowedErr
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		recordSpanError(span, err)
		return model.Product{}, fmt.Errorf("product repository get by id: %w", err)
	}

	return product, nil
}

func (s *productService) ValidatePrice(text string) error {
	_, err := model.NewPrice(text)
	return err
}

func (s *productService) UpdatePrice(ctx context.Context, params UpdatePriceParams) (model.Product, error) {
	ctx, span := tracer.Start(ctx, "ProductService.UpdatePrice", trace.WithAttributes(
		attribute.Int64("product.id", params.ProductID),
		attribute.String("user.id", params.User.ID),
	))
	defer span.End()

	if !params.User.IsAdmin {
		recordSpanError(span, apperr.ActionNotAllowedErr)
		return model.Product{}, apperr.ActionNotAllowedErr
	}

	product, err := s.productRepo.GetByID(ctx, params.ProductID)
	if err != nil {
		recordSpanError(span, err)
		return model.Product{}, fmt.Errorf("product repository get by id: %w", err)
	}

	edited, err := product.EditPrice(params.Price)
	if err != nil {
		recordSpanError(span, err)
		return model.Product{}, fmt.Errorf("edit price: %w", err)
	}

	if err := s.productRepo.Save(ctx, edited); err != nil {
		recordSpanError(span, err)
		return model.Product{}, fmt.Errorf("product repository save: %w", err)
	}

	s.logger.InfoContext(ctx, "product price updated",
		slog.Int64("product_id", edited.ID()),
		slog.String("old_price", product.Price().String()),
		slog.String("new_price", edited.Price().String()),
		slog.String("user_id", params.User.ID),
	)

	return edited, nil
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	if apperr.KindOf(err) == apperr.KindUnexpected {
		span.SetStatus(codes.Error, err.Error())
	}
}
