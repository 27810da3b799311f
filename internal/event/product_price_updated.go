package event

import (
	"context"
	"log/slog"
	"time"
)

const TopicProductPriceUpdated = "product.price_updated"

// ProductPriceUpdatedEvent is emitted whenever a stored record changes price.
type ProductPriceUpdatedEvent struct {
	ProductID int64     `json:"product_id"`
	Title     string    `json:"title"`
	OldPrice  float64   `json:"old_price"`
	NewPrice  float64   `json:"new_price"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Service) handleProductPriceUpdatedEvent(ctx context.Context, ev ProductPriceUpdatedEvent) error {
	s.logger.InfoContext(ctx, "product price updated",
		slog.Int64("product_id", ev.ProductID),
		slog.String("title", ev.Title),
		slog.Float64("old_price", ev.OldPrice),
		slog.Float64("new_price", ev.NewPrice),
	)

	if s.onPriceUpdated != nil {
		s.onPriceUpdated(ctx, ev)
	}

	return nil
}
