package mq

import (
	"github.com/twmb/franz-go/plugin/kotel"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("internal/storage/mq")

// kotelHooks instruments both clients with producer/consumer spans and
// franz-go's client metrics.
var kotelHooks = kotel.NewKotel(
	kotel.WithTracer(kotel.NewTracer()),
	kotel.WithMeter(kotel.NewMeter()),
).Hooks()
