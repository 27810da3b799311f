package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/catalog-pricing/internal/apperr"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/model"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/session"
)

func TestSession(t *testing.T) {
	t.Run("Should default to the admin user", func(t *testing.T) {
		s := session.NewDefault()

		assert.Equal(t, model.AdminUser, s.CurrentUser())
		assert.True(t, s.CurrentUser().IsAdmin)
		assert.Len(t, s.Users(), 2)
	})

	t.Run("Should select a known user", func(t *testing.T) {
		s := session.NewDefault()

		user, err := s.SelectUser("user2")
		require.NoError(t, err)

		assert.Equal(t, model.NonAdminUser, user)
		assert.Equal(t, model.NonAdminUser, s.CurrentUser())
		assert.False(t, s.CurrentUser().IsAdmin)
	})

	t.Run("Should keep the selection on unknown user", func(t *testing.T) {
		s := session.NewDefault()

		_, err := s.SelectUser("ghost")
		assert.ErrorIs(t, err, apperr.UserNotFoundErr)
		assert.Equal(t, model.AdminUser, s.CurrentUser())
	})

	t.Run("Should not expose the internal roster", func(t *testing.T) {
		s := session.NewDefault()

		users := s.Users()
		users[0].IsAdmin = false

		u, err := s.User("user1")
		require.NoError(t, err)
		assert.True(t, u.IsAdmin)
	})

	t.Run("Should reject an empty roster", func(t *testing.T) {
		_, err := session.New(nil)
		assert.Error(t, err)
	})
}
