package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/tuanvumaihuynh/catalog-pricing/internal/apperr"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/http/apierr"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/http/middleware"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/model"
)

// handlerFunc is an http.HandlerFunc that reports failures instead of writing them.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (s *Service) handle(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			s.handleResponseError(w, r, err)
		}
	}
}

func (s *Service) handleResponseError(w http.ResponseWriter, r *http.Request, err error) {
	res := apierr.New(err)

	logLevel := slog.LevelInfo
	if res.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if res.StatusCode >= 400 {
		logLevel = slog.LevelWarn
	}
	s.logger.Log(r.Context(), logLevel, "http response error", slog.Any("error", err))

	s.writeJSON(w, r, res.StatusCode, res)
}

func (s *Service) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.ErrorContext(r.Context(), "error encoding response", slog.Any("error", err))
	}
}

// decodeAndValidate reads a JSON body into dst and runs the struct validation tags.
func (s *Service) decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.ValidationErr.WrapParent(err)
	}

	if err := s.validator.Validate(dst); err != nil {
		return err
	}

	return nil
}

func productIDParam(r *http.Request) (int64, error) {
	var id int64
	if err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	}); err != nil {
		return 0, apperr.InvalidProductIDErr.WrapParent(err)
	}
	return id, nil
}

// actingUser is the user named by the X-User-ID header, or the session's
// current user when the header is absent.
func (s *Service) actingUser(r *http.Request) (model.User, error) {
	id := r.Header.Get(middleware.UserIDHeader)
	if id == "" {
		return s.session.CurrentUser(), nil
	}

	user, err := s.session.User(id)
	if err != nil {
		if errors.Is(err, apperr.UserNotFoundErr) {
			return model.User{}, apperr.UnknownActingUserErr.WrapParent(err)
		}
		return model.User{}, err
	}

	return user, nil
}
