package http

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/tuanvumaihuynh/catalog-pricing/internal/config"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/http/metric"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/http/middleware"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/http/swagger"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/service"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/session"
	"github.com/tuanvumaihuynh/catalog-pricing/internal/storage/db"
	"github.com/tuanvumaihuynh/catalog-pricing/pkg/validator"
)

var tracer = otel.Tracer("internal/http")

// Service represents the HTTP service.
type Service struct {
	cfg       config.HTTP
	logger    *slog.Logger
	metrics   *metric.Metrics
	validator validator.Validator

	productSvc     service.ProductService
	session        *session.Session
	healthCheckers map[string]db.HealthChecker
}

type CleanupFunc func(ctx context.Context) error

type Option func(*Service)

// WithHealthChecker adds a named dependency to the /healthz report.
func WithHealthChecker(name string, checker db.HealthChecker) Option {
	return func(s *Service) {
		s.healthCheckers[name] = checker
	}
}

func New(
	cfg config.HTTP,
	log *slog.Logger,
	productSvc service.ProductService,
	sess *session.Session,
	opts ...Option,
) (*Service, error) {
	v, err := validator.NewDefaultValidator()
	if err != nil {
		return nil, fmt.Errorf("create validator: %w", err)
	}

	s := &Service{
		cfg:            cfg,
		logger:         log.With(slog.String("service", "http")),
		metrics:        metric.New(),
		validator:      v,
		productSvc:     productSvc,
		session:        sess,
		healthCheckers: make(map[string]db.HealthChecker),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	router, err := s.Router(ctx)
	if err != nil {
		return nil, err
	}

	return s.RunWithServer(ctx, router)
}

// Router builds the full handler tree without starting a server.
func (s *Service) Router(ctx context.Context) (http.Handler, error) {
	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.Swagger {
		if err := swagger.Register(ctx, r); err != nil {
			return nil, fmt.Errorf("register swagger: %w", err)
		}
	}

	s.RegisterHandlers(r)

	return r, nil
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.ErrorContext(ctx, "http server stopped unexpectedly", slog.Any("error", err))
		}
	}()

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Service) RegisterMiddlewares(r chi.Router) {
	r.Use(
		middleware.Recoverer(s.logger),
		middleware.Trace(tracer),
		middleware.Metrics(s.metrics),
		middleware.CorrelationID(),
		middleware.Cors(s.cfg.AllowedOrigins),
		middleware.Logging(s.logger),
	)
}

func (s *Service) RegisterHandlers(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", s.handle(s.listProducts))
		r.Get("/products/{id}", s.handle(s.getProduct))
		r.Post("/products/{id}/edit", s.handle(s.startPriceEdit))
		r.Put("/products/{id}/price", s.handle(s.updatePrice))

		r.Post("/prices/validate", s.handle(s.validatePrice))

		r.Get("/users", s.handle(s.listUsers))
		r.Get("/users/current", s.handle(s.getCurrentUser))
		r.Put("/users/current", s.handle(s.selectCurrentUser))
	})

	r.Get(HealthPath, s.health)

	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))
}
