package outbox

import (
	"context"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/tuanvumaihuynh/catalog-pricing/pkg/correlationid"
)

// BuildHeaders creates a headers map carrying the trace context and correlation ID of ctx.
// It is stored next to an outbox message so the relay can restore the request context.
func BuildHeaders(ctx context.Context) map[string]string {
	headers := map[string]string{}

	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(headers))

	if correlationID, ok := correlationid.FromContext(ctx); ok {
		headers[correlationid.Header] = correlationID
	}

	return headers
}

// ContextFromRecord restores trace context and correlation ID from Kafka record headers.
func ContextFromRecord(ctx context.Context, rec *kgo.Record) context.Context {
	headers := make(map[string]string, len(rec.Headers))
	for _, h := range rec.Headers {
		headers[h.Key] = string(h.Value)
	}

	ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(headers))

	if correlationID, ok := headers[correlationid.Header]; ok && correlationID != "" {
		ctx = correlationid.NewContext(ctx, correlationID)
	}

	return ctx
}
