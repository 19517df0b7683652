package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrResult  = "result"
	attrPurpose = "purpose"
	attrOutcome = "outcome"
)

// Model call purposes.
const (
	PurposeClassify  = "classify"
	PurposeSummarize = "summarize"
	PurposeGenerate  = "generate"
)

// Metrics records pipeline metrics. The zero value is a no-op recorder.
type Metrics struct {
	invitationsProcessed metric.Int64Counter
	invitationsSkipped   metric.Int64Counter
	modelCalls           metric.Int64Counter
	generationIterations metric.Int64Histogram
	generationDuration   metric.Float64Histogram
}

// NewMetrics creates a Metrics instance with all instruments registered.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.invitationsProcessed, err = meter.Int64Counter(
		"invitations_processed_total",
		metric.WithDescription("Total number of invitation emails processed"),
		metric.WithUnit("{invitation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create invitations_processed_total counter: %w", err)
	}

	m.invitationsSkipped, err = meter.Int64Counter(
		"invitations_skipped_total",
		metric.WithDescription("Total number of emails skipped before task generation"),
		metric.WithUnit("{invitation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create invitations_skipped_total counter: %w", err)
	}

	m.modelCalls, err = meter.Int64Counter(
		"model_calls_total",
		metric.WithDescription("Total number of model completions by purpose"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create model_calls_total counter: %w", err)
	}

	m.generationIterations, err = meter.Int64Histogram(
		"generation_iterations",
		metric.WithDescription("Number of draft iterations per task generation run"),
		metric.WithUnit("{iteration}"),
		metric.WithExplicitBucketBoundaries(1, 2, 3, 4, 5, 8),
	)
	if err != nil {
		return nil, fmt.Errorf("create generation_iterations histogram: %w", err)
	}

	m.generationDuration, err = meter.Float64Histogram(
		"generation_duration_seconds",
		metric.WithDescription("Task generation run duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.5, 1, 2.5, 5, 10, 30, 60, 120),
	)
	if err != nil {
		return nil, fmt.Errorf("create generation_duration_seconds histogram: %w", err)
	}

	return m, nil
}

// RecordInvitationProcessed records a fully processed invitation with its
// result ("accepted", "exhausted" or "error").
func (m *Metrics) RecordInvitationProcessed(ctx context.Context, result string) {
	if m.invitationsProcessed == nil {
		return
	}
	m.invitationsProcessed.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrResult, result),
	))
}

// RecordInvitationSkipped records an email that was skipped with the reason
// ("already_processed", "no_calendar_part" or "not_an_invite").
func (m *Metrics) RecordInvitationSkipped(ctx context.Context, reason string) {
	if m.invitationsSkipped == nil {
		return
	}
	m.invitationsSkipped.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}

// RecordModelCall records a model completion with its purpose and result.
func (m *Metrics) RecordModelCall(ctx context.Context, purpose, result string) {
	if m.modelCalls == nil {
		return
	}
	m.modelCalls.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrPurpose, purpose),
		attribute.String(attrResult, result),
	))
}

// RecordGeneration records a completed task generation run.
func (m *Metrics) RecordGeneration(ctx context.Context, iterations int, outcome string, duration time.Duration) {
	if m.generationIterations == nil || m.generationDuration == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(attrOutcome, outcome))
	m.generationIterations.Record(ctx, int64(iterations), attrs)
	m.generationDuration.Record(ctx, duration.Seconds(), attrs)
}
