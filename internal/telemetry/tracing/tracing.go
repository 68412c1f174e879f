package tracing

import (
	"go.opentelemetry.io/otel"
)

// GlobalTracer is used for all SYSTM client spans. Spans are no-ops unless
// the embedding process installs a tracer provider.
var GlobalTracer = otel.Tracer("systm-mcp")
