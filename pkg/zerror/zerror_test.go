package zerror_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tuanvumaihuynh/catalog-pricing/pkg/zerror"
)

func TestZError(t *testing.T) {
	notFound := zerror.NewNotFound("PRODUCT_NOT_FOUND", "product not found")

	t.Run("Should match predefined error after wrapping a parent", func(t *testing.T) {
		cause := errors.New("boom")
		err := fmt.Errorf("get product: %w", notFound.WrapParent(cause))

		assert.ErrorIs(t, err, notFound)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("Should not match a different code", func(t *testing.T) {
		other := zerror.NewNotFound("USER_NOT_FOUND", "user not found")

		assert.NotErrorIs(t, notFound, other)
	})

	t.Run("Should expose fields through errors.As", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", notFound)

		var zErr zerror.ZError
		assert.True(t, errors.As(err, &zErr))
		assert.Equal(t, zerror.StatusNotFound, zErr.Status())
		assert.Equal(t, "PRODUCT_NOT_FOUND", zErr.Code())
		assert.Equal(t, "product not found", zErr.Msg())
	})

	t.Run("Should keep the original when wrapping nil", func(t *testing.T) {
		assert.Nil(t, notFound.WrapParent(nil).Parent())
		assert.Equal(t, "Code=PRODUCT_NOT_FOUND, Msg=product not found", notFound.Error())
	})

	t.Run("Should find the first ZError in a chain", func(t *testing.T) {
		zErr, ok := zerror.From(fmt.Errorf("outer: %w", notFound))
		assert.True(t, ok)
		assert.Equal(t, "PRODUCT_NOT_FOUND", zErr.Code())

		_, ok = zerror.From(errors.New("plain"))
		assert.False(t, ok)
	})
}
