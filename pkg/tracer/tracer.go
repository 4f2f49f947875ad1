package tracer

import (
	"context"
	"sync"

	"github.com/snapser-community/snapser-byosnaps/pkg/otel"
	gootel "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var (
	defaultTracer trace.Tracer
	initOnce      sync.Once
	errInit       error
)

const fallbackName = "github.com/snapser-community/snapser-byosnaps"

func InitTracer(serviceName string, cfg otel.Config) error {
	initOnce.Do(func() {
		cfg.ServiceName = serviceName
		t, err := otel.InitTracer(cfg)
		if err != nil {
			errInit = err
			return
		}

		defaultTracer = t
	})

	return errInit
}

// Start opens a span on the service tracer. Before InitTracer it uses the
// global provider, which is a no-op unless a test installed one.
func Start(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if defaultTracer == nil {
		return gootel.Tracer(fallbackName).Start(ctx, spanName, opts...)
	}

	return defaultTracer.Start(ctx, spanName, opts...)
}
