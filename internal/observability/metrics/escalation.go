package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	escalationMeterName = "escalation.service"
)

type EscalationMetrics struct {
	passesTotal          metric.Int64Counter
	passFailures         metric.Int64Counter
	passDuration         metric.Float64Histogram
	notificationsCreated metric.Int64Counter
	notificationsSkipped metric.Int64Counter
}

func NewEscalationMetrics() (*EscalationMetrics, error) {
	meter := otel.Meter(escalationMeterName)

	passesTotal, err := meter.Int64Counter(
		"escalation_passes_total",
		metric.WithDescription("Total number of completed escalation passes"),
		metric.WithUnit("{pass}"),
	)
	if err != nil {
		return nil, err
	}

	passFailures, err := meter.Int64Counter(
		"escalation_pass_failures_total",
		metric.WithDescription("Total number of escalation passes rolled back"),
		metric.WithUnit("{pass}"),
	)
	if err != nil {
		return nil, err
	}

	passDuration, err := meter.Float64Histogram(
		"escalation_pass_duration_seconds",
		metric.WithDescription("Escalation pass duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10,
		),
	)
	if err != nil {
		return nil, err
	}

	notificationsCreated, err := meter.Int64Counter(
		"escalation_notifications_created_total",
		metric.WithDescription("Notifications created, by tag"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	notificationsSkipped, err := meter.Int64Counter(
		"escalation_notifications_skipped_total",
		metric.WithDescription("Same-day duplicate notifications suppressed, by tag"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	return &EscalationMetrics{
		passesTotal:          passesTotal,
		passFailures:         passFailures,
		passDuration:         passDuration,
		notificationsCreated: notificationsCreated,
		notificationsSkipped: notificationsSkipped,
	}, nil
}

func (m *EscalationMetrics) RecordPass(ctx context.Context, duration time.Duration, failed bool) {
	if m == nil {
		return
	}
	m.passesTotal.Add(ctx, 1)
	m.passDuration.Record(ctx, duration.Seconds())
	if failed {
		m.passFailures.Add(ctx, 1)
	}
}

func (m *EscalationMetrics) RecordCreated(ctx context.Context, tag string) {
	if m == nil {
		return
	}
	m.notificationsCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("tag", tag)))
}

func (m *EscalationMetrics) RecordSkipped(ctx context.Context, tag string) {
	if m == nil {
		return
	}
	m.notificationsSkipped.Add(ctx, 1, metric.WithAttributes(attribute.String("tag", tag)))
}
