package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// Tracing wraps the OTel tracer provider with a Jaeger exporter.
type Tracing struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// NewTracing sets up a Jaeger-backed tracer provider. Returns a no-op
// Tracing when the collector endpoint is empty.
func NewTracing(serviceName, collectorEndpoint string) (*Tracing, error) {
	if collectorEndpoint == "" {
		return &Tracing{}, nil
	}

	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(
		jaeger.WithEndpoint(collectorEndpoint),
	))
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		)),
	)
	otel.SetTracerProvider(provider)

	return &Tracing{
		provider: provider,
		tracer:   provider.Tracer(serviceName),
	}, nil
}

// StartSpan starts a span for a job execution. Safe on a no-op Tracing.
func (t *Tracing) StartSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if t.tracer == nil {
		return trace.NewNoopTracerProvider().Tracer("").Start(ctx, name)
	}
	return t.tracer.Start(ctx, name)
}

func (t *Tracing) Shutdown() {
	if t.provider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = t.provider.Shutdown(ctx)
	}
}
