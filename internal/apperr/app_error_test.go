package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/catalog-pricing/internal/apperr"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperr.Kind
	}{
		{name: "nil", err: nil, want: apperr.KindNone},
		{name: "price not numeric", err: apperr.PriceNotNumericErr, want: apperr.KindValidation},
		{name: "price invalid format", err: apperr.PriceInvalidFormatErr, want: apperr.KindValidation},
		{name: "price too high", err: apperr.PriceTooHighErr, want: apperr.KindValidation},
		{name: "wrapped not found", err: fmt.Errorf("get: %w", apperr.ResourceNotFoundErr.WrapParent(errors.New("x"))), want: apperr.KindNotFound},
		{name: "user not found", err: apperr.UserNotFoundErr, want: apperr.KindNotFound},
		{name: "action not allowed", err: apperr.ActionNotAllowedErr, want: apperr.KindNotAllowed},
		{name: "edit not allowed", err: apperr.EditNotAllowedErr, want: apperr.KindNotAllowed},
		{name: "catalog unavailable", err: apperr.CatalogUnavailableErr, want: apperr.KindUnexpected},
		{name: "plain error", err: errors.New("connection reset"), want: apperr.KindUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperr.KindOf(tt.err))
		})
	}
}
