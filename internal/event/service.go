package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tuanvumaihuynh/catalog-pricing/internal/storage/mq"
)

// Service consumes catalog events.
type Service struct {
	logger     *slog.Logger
	mqConsumer mq.Consumer

	onPriceUpdated func(context.Context, ProductPriceUpdatedEvent)
}

type Option func(*Service)

// WithPriceUpdatedHook registers fn to be called after a price update event was handled.
func WithPriceUpdatedHook(fn func(context.Context, ProductPriceUpdatedEvent)) Option {
	return func(s *Service) {
		s.onPriceUpdated = fn
	}
}

// New creates a new event service.
func New(
	logger *slog.Logger,
	mqConsumer mq.Consumer,
	opts ...Option,
) *Service {
	s := &Service{
		logger:     logger.With(slog.String("service", "event")),
		mqConsumer: mqConsumer,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	if err := s.mqConsumer.RegisterHandler(TopicProductPriceUpdated, s.handleProductPriceUpdatedPayload); err != nil {
		return nil, fmt.Errorf("register product price updated event handler: %w", err)
	}

	mqCleanup, err := s.mqConsumer.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run mq consumer: %w", err)
	}

	return CleanupFunc(mqCleanup), nil
}

func (s *Service) handleProductPriceUpdatedPayload(ctx context.Context, _ string, payload []byte) error {
	var ev ProductPriceUpdatedEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return fmt.Errorf("unmarshal product price updated event: %w", err)
	}

	if err := s.handleProductPriceUpdatedEvent(ctx, ev); err != nil {
		return fmt.Errorf("handle product price updated event: %w", err)
	}

	return nil
}
