package session

import (
	"fmt"
	"slices"
	"sync"

	"github.com/tuanvumaihuynh/catalog-pricing/internal/apperr"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/model"
)

// Session holds the process-wide user roster and the currently selected user.
// Selecting a user is a local state change, not an authentication step.
type Session struct {
	mu      sync.RWMutex
	users   []model.User
	current model.User
}

// New creates a session over users. The first user is selected initially.
func New(users []model.User) (*Session, error) {
	if len(users) == 0 {
		return nil, fmt.Errorf("session needs at least one user")
	}

	return &Session{
		users:   slices.Clone(users),
		current: users[0],
	}, nil
}

// NewDefault creates a session over the fixed roster with the admin selected.
func NewDefault() *Session {
	s, err := New(model.DefaultUsers())
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Session) Users() []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.users)
}

func (s *Session) CurrentUser() model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current
}

// User looks up a roster member by id.
func (s *Session) User(id string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.find(id)
}

// SelectUser makes the user with the given id current.
// An unknown id leaves the selection unchanged.
func (s *Session) SelectUser(id string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.find(id)
	if err != nil {
		return model.User{}, err
	}

	s.current = user
	return user, nil
}

func (s *Session) find(id string) (model.User, error) {
	idx := slices.IndexFunc(s.users, func(u model.User) bool { return u.ID == id })
	if idx < 0 {
		return model.User{}, apperr.UserNotFoundErr
	}
	return s.users[idx], nil
}
