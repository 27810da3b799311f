package http

import (
	"net/http"

	"github.com/tuanvumaihuynh/catalog-pricing/internal/apperr"
	"github.com/tuanvumaihuynh/catalog-pricing/pkg/ptr"
	"github.com/tuanvumaihuynh/catalog-pricing/pkg/zerror"
)

// validatePrice always answers 200; the verdict is in the body.
func (s *Service) validatePrice(w http.ResponseWriter, r *http.Request) error {
	var req PriceRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		return err
	}

	res := ValidatePriceResponse{Valid: true}
	if err := s.productSvc.ValidatePrice(req.Price); err != nil {
		zErr, ok := zerror.From(err)
		if !ok || apperr.KindOf(err) != apperr.KindValidation {
			return err
		}

		res = ValidatePriceResponse{Valid: false, Message: ptr.New(zErr.Msg())}
	}

	s.writeJSON(w, r, http.StatusOK, res)
	return nil
}
