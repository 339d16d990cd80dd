// internal/common/observability/metrics.go
package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability owns the OTel meter provider backed by the Prometheus
// exporter, so agent-level instruments land on the same /metrics endpoint
// as the promauto worker counters.
type Observability struct {
	meterProvider *metric.MeterProvider
	meter         otelmetric.Meter
	agentRuns     otelmetric.Int64Counter
	agentDuration otelmetric.Float64Histogram
}

// New installs the global meter provider. A failed exporter degrades to a
// no-op instance rather than blocking startup.
func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	agentRuns, _ := meter.Int64Counter(
		"agent.runs",
		otelmetric.WithDescription("Number of agent runs, by agent type and status"),
	)

	agentDuration, _ := meter.Float64Histogram(
		"agent.run.duration",
		otelmetric.WithDescription("Agent run duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider: provider,
		meter:         meter,
		agentRuns:     agentRuns,
		agentDuration: agentDuration,
	}
}

// RecordAgentRun counts one finished run for an agent.
func (o *Observability) RecordAgentRun(ctx context.Context, agentType, status string) {
	if o.agentRuns != nil {
		o.agentRuns.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("agent", agentType),
			attribute.String("status", status),
		))
	}
}

// RecordAgentRunDuration records how long a run took end to end.
func (o *Observability) RecordAgentRunDuration(ctx context.Context, agentType string, duration time.Duration) {
	if o.agentDuration != nil {
		o.agentDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("agent", agentType),
		))
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
