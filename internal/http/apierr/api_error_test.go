package apierr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/catalog-pricing/internal/apperr"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/http/apierr"
	"github.com/tuanvumaihuynh/catalog-pricing/pkg/validator"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"price validation", apperr.PriceTooHighErr, http.StatusBadRequest, apperr.PriceTooHighCode},
		{"wrapped not found", fmt.Errorf("get: %w", apperr.ResourceNotFoundErr.WrapParent(errors.New("404"))), http.StatusNotFound, apperr.ResourceNotFoundCode},
		{"not allowed", apperr.ActionNotAllowedErr, http.StatusForbidden, apperr.ActionNotAllowedCode},
		{"unknown acting user", apperr.UnknownActingUserErr, http.StatusUnauthorized, apperr.UnknownActingUserCode},
		{"catalog unavailable", apperr.CatalogUnavailableErr, http.StatusBadGateway, apperr.CatalogUnavailableCode},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, apierr.InternalServerErr.Code},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := apierr.New(tc.err)
			assert.Equal(t, tc.wantStatus, res.StatusCode)
			assert.Equal(t, tc.wantCode, res.Code)
		})
	}

	t.Run("Should list field errors", func(t *testing.T) {
		v, err := validator.NewDefaultValidator()
		require.NoError(t, err)

		type body struct {
			Price *string `json:"price" validate:"required"`
		}

		res := apierr.New(v.Validate(body{}))
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		require.NotNil(t, res.Details)
		assert.Equal(t, []apierr.FieldError{{Field: "price", Message: "field is required"}}, *res.Details)
	})
}
