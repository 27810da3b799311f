package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/tuanvumaihuynh/catalog-pricing/internal/apperr"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/http/apierr"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/service"
)

const priceUpdateFailedCode = "PRICE_UPDATE_FAILED"

func (s *Service) listProducts(w http.ResponseWriter, r *http.Request) error {
	products, err := s.productSvc.ListProducts(r.Context())
	if err != nil {
		return fmt.Errorf("product service list products: %w", err)
	}

	items := make([]ProductResponse, 0, len(products))
	for _, product := range products {
		items = append(items, toProductResponse(product))
	}

	s.writeJSON(w, r, http.StatusOK, items)
	return nil
}

func (s *Service) getProduct(w http.ResponseWriter, r *http.Request) error {
	id, err := productIDParam(r)
	if err != nil {
		return err
	}

	product, err := s.productSvc.GetProduct(r.Context(), id)
	if err != nil {
		return fmt.Errorf("product service get product: %w", err)
	}

	s.writeJSON(w, r, http.StatusOK, toProductResponse(product))
	return nil
}

func (s *Service) startPriceEdit(w http.ResponseWriter, r *http.Request) error {
	id, err := productIDParam(r)
	if err != nil {
		return err
	}

	user, err := s.actingUser(r)
	if err != nil {
		return err
	}

	product, err := s.productSvc.StartPriceEdit(r.Context(), user, id)
	if err != nil {
		return fmt.Errorf("product service start price edit: %w", err)
	}

	s.writeJSON(w, r, http.StatusOK, toProductResponse(product))
	return nil
}

func (s *Service) updatePrice(w http.ResponseWriter, r *http.Request) error {
	id, err := productIDParam(r)
	if err != nil {
		return err
	}

	user, err := s.actingUser(r)
	if err != nil {
		return err
	}

	// Authorization comes before the body: a non-admin is refused by the
	// workflow even when the body cannot be read.
	var req PriceRequest
	if err := s.decodeAndValidate(r, &req); err != nil && user.IsAdmin {
		return err
	}

	product, err := s.productSvc.UpdatePrice(r.Context(), service.UpdatePriceParams{
		User:      user,
		ProductID: id,
		Price:     req.Price,
	})
	if err != nil {
		if apperr.KindOf(err) != apperr.KindUnexpected {
			return fmt.Errorf("product service update price: %w", err)
		}

		s.logger.ErrorContext(r.Context(), "error updating price",
			slog.Int64("product_id", id),
			slog.Any("error", err),
		)
		s.writeJSON(w, r, http.StatusInternalServerError, apierr.ErrorResponse{
			Code:    priceUpdateFailedCode,
			Message: "An error has occurred updating the price",
		})
		return nil
	}

	s.writeJSON(w, r, http.StatusOK, UpdatePriceResponse{
		Product: toProductResponse(product),
		Message: fmt.Sprintf("Price %s for '%s' updated", product.Price().String(), product.Title()),
	})
	return nil
}
