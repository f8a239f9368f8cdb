package runner

import (
	"context"
	"fmt"

	"bombarena/pkg/core"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "bombarena/internal/runner"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

type metrics struct {
	ticks      metric.Int64Counter
	events     metric.Int64Counter
	explosions metric.Int64Histogram
}

func newMetrics() (*metrics, error) {
	m := meter()
	var (
		out metrics
		err error
	)
	out.ticks, err = m.Int64Counter(
		"bombarena.ticks",
		metric.WithDescription("Simulation ticks executed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ticks counter: %w", err)
	}
	out.events, err = m.Int64Counter(
		"bombarena.events",
		metric.WithDescription("Simulation events by kind"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating events counter: %w", err)
	}
	out.explosions, err = m.Int64Histogram(
		"bombarena.explosions_per_tick",
		metric.WithDescription("Bombs detonated in a single tick, including chain reactions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating explosions histogram: %w", err)
	}
	return &out, nil
}

func (m *metrics) record(ctx context.Context, events []core.Event) {
	m.ticks.Add(ctx, 1)
	exploded := int64(0)
	for _, e := range events {
		m.events.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", e.Kind.String())))
		if e.Kind == core.EventExploded {
			exploded++
		}
	}
	if exploded > 0 {
		m.explosions.Record(ctx, exploded)
	}
}
