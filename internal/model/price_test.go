package model_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/catalog-pricing/internal/apperr"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/model"
)

func TestNewPrice(t *testing.T) {
	t.Run("Should create price when all validations pass", func(t *testing.T) {
		for _, text := range []string{"0", "2.4", "10", "10.5", "120.99", "999.99", "007.10"} {
			price, err := model.NewPrice(text)
			require.NoError(t, err, text)

			want, err := strconv.ParseFloat(text, 64)
			require.NoError(t, err)
			assert.Equal(t, want, price.Value(), text)
		}
	})

	t.Run("Should reject non numeric text", func(t *testing.T) {
		for _, text := range []string{"nonnumber", "12a", "1,5", "--1", "1.2.3", "infinity", "NaN", "-0x10", "1e"} {
			_, err := model.NewPrice(text)
			assert.ErrorIs(t, err, apperr.PriceNotNumericErr, text)
			assert.EqualError(t, err, "Code=PRICE_NOT_NUMERIC, Msg=Only numbers are allowed", text)
		}
	})

	t.Run("Should reject numeric text with an invalid format", func(t *testing.T) {
		for _, text := range []string{"-2.4", "1.234", "+5", ".5", "5.", "1e3", "0x1f", "Infinity", " 12", "", "   "} {
			_, err := model.NewPrice(text)
			assert.ErrorIs(t, err, apperr.PriceInvalidFormatErr, text)
		}
	})

	t.Run("Should trim the same whitespace as number coercion", func(t *testing.T) {
		for _, text := range []string{"\ufeff12", "12\u00a0", "\u200312", "\u2028 12\t", "\v12\f"} {
			_, err := model.NewPrice(text)
			assert.ErrorIs(t, err, apperr.PriceInvalidFormatErr, text)
		}

		for _, text := range []string{"\u008512", "12\u0085", "\u200b12"} {
			_, err := model.NewPrice(text)
			assert.ErrorIs(t, err, apperr.PriceNotNumericErr, text)
		}
	})

	t.Run("Should report non numeric before format", func(t *testing.T) {
		_, err := model.NewPrice("-abc.123")
		assert.ErrorIs(t, err, apperr.PriceNotNumericErr)
	})

	t.Run("Should reject prices above 999.99", func(t *testing.T) {
		for _, text := range []string{"1000", "1000.00", "1000.5", "123456"} {
			_, err := model.NewPrice(text)
			assert.ErrorIs(t, err, apperr.PriceTooHighErr, text)
		}
	})

	t.Run("Should compare prices structurally", func(t *testing.T) {
		a, err := model.NewPrice("2.4")
		require.NoError(t, err)
		b, err := model.NewPrice("2.40")
		require.NoError(t, err)
		c, err := model.NewPrice("2.41")
		require.NoError(t, err)

		assert.True(t, a.Equal(b))
		assert.False(t, a.Equal(c))
	})

	t.Run("Should format with two decimals", func(t *testing.T) {
		price, err := model.NewPrice("7.5")
		require.NoError(t, err)

		assert.Equal(t, "7.50", price.String())
	})
}
