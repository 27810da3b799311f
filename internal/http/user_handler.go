package http

import (
	"fmt"
	"net/http"
)

func (s *Service) listUsers(w http.ResponseWriter, r *http.Request) error {
	users := s.session.Users()

	items := make([]UserResponse, 0, len(users))
	for _, user := range users {
		items = append(items, toUserResponse(user))
	}

	s.writeJSON(w, r, http.StatusOK, items)
	return nil
}

func (s *Service) getCurrentUser(w http.ResponseWriter, r *http.Request) error {
	s.writeJSON(w, r, http.StatusOK, toUserResponse(s.session.CurrentUser()))
	return nil
}

func (s *Service) selectCurrentUser(w http.ResponseWriter, r *http.Request) error {
	var req SelectUserRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		return err
	}

	user, err := s.session.SelectUser(req.UserID)
	if err != nil {
		return fmt.Errorf("select user: %w", err)
	}

	s.writeJSON(w, r, http.StatusOK, toUserResponse(user))
	return nil
}
