package http

import (
	"log/slog"
	"net/http"
)

const HealthPath = "/healthz"

func (s *Service) health(w http.ResponseWriter, r *http.Request) {
	res := HealthResponse{Status: "ok"}
	status := http.StatusOK

	if len(s.healthCheckers) > 0 {
		res.Checks = make(map[string]string, len(s.healthCheckers))
	}
	for name, checker := range s.healthCheckers {
		ok, err := checker.IsHealthy(r.Context())
		if err != nil || !ok {
			s.logger.WarnContext(r.Context(), "health check failed", slog.String("check", name), slog.Any("error", err))
			res.Checks[name] = "unhealthy"
			res.Status = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		res.Checks[name] = "ok"
	}

	s.writeJSON(w, r, status, res)
}
