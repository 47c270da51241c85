// Package telemetry provides OpenTelemetry metrics for the reservation
// runtime.
package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/felixgeelhaar/maitre/domain/task"
)

// MetricsProvider provides access to metrics instruments.
type MetricsProvider struct {
	meter metric.Meter

	// Counters
	stepDispatches   metric.Int64Counter
	phaseTransitions metric.Int64Counter
	providerCalls    metric.Int64Counter
	suspensions      metric.Int64Counter
	escalations      metric.Int64Counter
	bookingOutcomes  metric.Int64Counter
	errors           metric.Int64Counter

	// Histograms
	stepDuration metric.Float64Histogram
	taskDuration metric.Float64Histogram

	// Gauges (UpDownCounters)
	activeTasks    metric.Int64UpDownCounter
	suspendedTasks metric.Int64UpDownCounter

	initOnce sync.Once
	initErr  error
}

// MetricsConfig configures the metrics provider.
type MetricsConfig struct {
	// MeterName is the name of the meter (default: "github.com/felixgeelhaar/maitre").
	MeterName string
	// MeterVersion is the version of the meter.
	MeterVersion string
	// Attributes are default attributes to attach to all metrics.
	Attributes []attribute.KeyValue
}

// DefaultMetricsConfig returns a default metrics configuration.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		MeterName:    "github.com/felixgeelhaar/maitre",
		MeterVersion: "1.0.0",
	}
}

// NewMetricsProvider creates a new metrics provider.
func NewMetricsProvider(config MetricsConfig) *MetricsProvider {
	if config.MeterName == "" {
		config = DefaultMetricsConfig()
	}

	provider := otel.GetMeterProvider()
	meter := provider.Meter(
		config.MeterName,
		metric.WithInstrumentationVersion(config.MeterVersion),
	)

	mp := &MetricsProvider{
		meter: meter,
	}

	mp.initOnce.Do(func() {
		mp.initErr = mp.initInstruments()
	})

	return mp
}

// initInstruments initializes all metric instruments.
func (mp *MetricsProvider) initInstruments() error {
	var err error

	mp.stepDispatches, err = mp.meter.Int64Counter(
		"reservation.step.dispatches",
		metric.WithDescription("Number of step dispatches"),
		metric.WithUnit("{dispatch}"),
	)
	if err != nil {
		return err
	}

	mp.phaseTransitions, err = mp.meter.Int64Counter(
		"reservation.phase.transitions",
		metric.WithDescription("Number of phase transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return err
	}

	mp.providerCalls, err = mp.meter.Int64Counter(
		"reservation.provider.calls",
		metric.WithDescription("Number of collaborator calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return err
	}

	mp.suspensions, err = mp.meter.Int64Counter(
		"reservation.task.suspensions",
		metric.WithDescription("Number of task suspensions awaiting diner input"),
		metric.WithUnit("{suspension}"),
	)
	if err != nil {
		return err
	}

	mp.escalations, err = mp.meter.Int64Counter(
		"reservation.booking.escalations",
		metric.WithDescription("Number of escalations from primary booking to voice"),
		metric.WithUnit("{escalation}"),
	)
	if err != nil {
		return err
	}

	mp.bookingOutcomes, err = mp.meter.Int64Counter(
		"reservation.booking.outcomes",
		metric.WithDescription("Booking outcomes by kind"),
		metric.WithUnit("{outcome}"),
	)
	if err != nil {
		return err
	}

	mp.errors, err = mp.meter.Int64Counter(
		"reservation.errors",
		metric.WithDescription("Number of errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	mp.stepDuration, err = mp.meter.Float64Histogram(
		"reservation.step.duration",
		metric.WithDescription("Duration of step executions"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	mp.taskDuration, err = mp.meter.Float64Histogram(
		"reservation.task.duration",
		metric.WithDescription("Duration of reservation tasks"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	mp.activeTasks, err = mp.meter.Int64UpDownCounter(
		"reservation.tasks.active",
		metric.WithDescription("Number of tasks currently executing"),
		metric.WithUnit("{task}"),
	)
	if err != nil {
		return err
	}

	mp.suspendedTasks, err = mp.meter.Int64UpDownCounter(
		"reservation.tasks.suspended",
		metric.WithDescription("Number of tasks suspended awaiting input"),
		metric.WithUnit("{task}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Error returns any initialization error.
func (mp *MetricsProvider) Error() error {
	return mp.initErr
}

// RecordStepDispatch records a single step execution.
func (mp *MetricsProvider) RecordStepDispatch(ctx context.Context, phase task.Phase, iteration int, success bool, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("phase", string(phase)),
		attribute.Bool("success", success),
	}

	mp.stepDispatches.Add(ctx, 1, metric.WithAttributes(attrs...))
	mp.stepDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if !success {
		mp.errors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("error.type", "step_execution"),
			attribute.String("phase", string(phase)),
		))
	}
}

// RecordPhaseTransition records a phase transition.
func (mp *MetricsProvider) RecordPhaseTransition(ctx context.Context, from, to task.Phase, taskID string) {
	attrs := []attribute.KeyValue{
		attribute.String("phase.from", string(from)),
		attribute.String("phase.to", string(to)),
		attribute.String("task.id", taskID),
	}

	mp.phaseTransitions.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordProviderCall records a collaborator call.
func (mp *MetricsProvider) RecordProviderCall(ctx context.Context, provider string, success bool, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("provider", provider),
		attribute.Bool("success", success),
	}

	mp.providerCalls.Add(ctx, 1, metric.WithAttributes(attrs...))

	if !success {
		mp.errors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("error.type", "provider_call"),
			attribute.String("provider", provider),
		))
	}
}

// RecordSuspension records a task suspension.
func (mp *MetricsProvider) RecordSuspension(ctx context.Context, phase task.Phase) {
	attrs := []attribute.KeyValue{
		attribute.String("phase", string(phase)),
	}

	mp.suspensions.Add(ctx, 1, metric.WithAttributes(attrs...))
	mp.suspendedTasks.Add(ctx, 1)
}

// RecordResume records a task resume.
func (mp *MetricsProvider) RecordResume(ctx context.Context, phase task.Phase) {
	mp.suspendedTasks.Add(ctx, -1, metric.WithAttributes(
		attribute.String("phase", string(phase)),
	))
}

// RecordEscalation records an escalation from primary booking to voice.
func (mp *MetricsProvider) RecordEscalation(ctx context.Context, venue string) {
	attrs := []attribute.KeyValue{
		attribute.String("venue", venue),
	}

	mp.escalations.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordBookingOutcome records the final booking outcome of a task.
func (mp *MetricsProvider) RecordBookingOutcome(ctx context.Context, outcome task.BookingOutcome, channel task.Channel) {
	attrs := []attribute.KeyValue{
		attribute.String("outcome", string(outcome)),
		attribute.String("channel", string(channel)),
	}

	mp.bookingOutcomes.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordError records an error.
func (mp *MetricsProvider) RecordError(ctx context.Context, errorType string, details map[string]string) {
	attrs := []attribute.KeyValue{
		attribute.String("error.type", errorType),
	}
	for k, v := range details {
		attrs = append(attrs, attribute.String(k, v))
	}

	mp.errors.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordTaskDuration records the duration of a reservation task.
func (mp *MetricsProvider) RecordTaskDuration(ctx context.Context, duration time.Duration, finalPhase task.Phase, success bool) {
	attrs := []attribute.KeyValue{
		attribute.String("phase.final", string(finalPhase)),
		attribute.Bool("success", success),
	}

	mp.taskDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// IncrementActiveTasks increments the active tasks counter.
func (mp *MetricsProvider) IncrementActiveTasks(ctx context.Context) {
	mp.activeTasks.Add(ctx, 1)
}

// DecrementActiveTasks decrements the active tasks counter.
func (mp *MetricsProvider) DecrementActiveTasks(ctx context.Context) {
	mp.activeTasks.Add(ctx, -1)
}

// NoopMetricsProvider is a no-op metrics provider for testing or when
// metrics are disabled.
type NoopMetricsProvider struct{}

// RecordStepDispatch is a no-op.
func (n *NoopMetricsProvider) RecordStepDispatch(ctx context.Context, phase task.Phase, iteration int, success bool, duration time.Duration) {
}

// RecordPhaseTransition is a no-op.
func (n *NoopMetricsProvider) RecordPhaseTransition(ctx context.Context, from, to task.Phase, taskID string) {
}

// RecordProviderCall is a no-op.
func (n *NoopMetricsProvider) RecordProviderCall(ctx context.Context, provider string, success bool, duration time.Duration) {
}

// RecordSuspension is a no-op.
func (n *NoopMetricsProvider) RecordSuspension(ctx context.Context, phase task.Phase) {}

// RecordResume is a no-op.
func (n *NoopMetricsProvider) RecordResume(ctx context.Context, phase task.Phase) {}

// RecordEscalation is a no-op.
func (n *NoopMetricsProvider) RecordEscalation(ctx context.Context, venue string) {}

// RecordBookingOutcome is a no-op.
func (n *NoopMetricsProvider) RecordBookingOutcome(ctx context.Context, outcome task.BookingOutcome, channel task.Channel) {
}

// RecordError is a no-op.
func (n *NoopMetricsProvider) RecordError(ctx context.Context, errorType string, details map[string]string) {
}

// RecordTaskDuration is a no-op.
func (n *NoopMetricsProvider) RecordTaskDuration(ctx context.Context, duration time.Duration, finalPhase task.Phase, success bool) {
}

// IncrementActiveTasks is a no-op.
func (n *NoopMetricsProvider) IncrementActiveTasks(ctx context.Context) {}

// DecrementActiveTasks is a no-op.
func (n *NoopMetricsProvider) DecrementActiveTasks(ctx context.Context) {}

// Metrics defines the interface for metrics recording.
type Metrics interface {
	RecordStepDispatch(ctx context.Context, phase task.Phase, iteration int, success bool, duration time.Duration)
	RecordPhaseTransition(ctx context.Context, from, to task.Phase, taskID string)
	RecordProviderCall(ctx context.Context, provider string, success bool, duration time.Duration)
	RecordSuspension(ctx context.Context, phase task.Phase)
	RecordResume(ctx context.Context, phase task.Phase)
	RecordEscalation(ctx context.Context, venue string)
	RecordBookingOutcome(ctx context.Context, outcome task.BookingOutcome, channel task.Channel)
	RecordError(ctx context.Context, errorType string, details map[string]string)
	RecordTaskDuration(ctx context.Context, duration time.Duration, finalPhase task.Phase, success bool)
	IncrementActiveTasks(ctx context.Context)
	DecrementActiveTasks(ctx context.Context)
}

// Ensure implementations satisfy the interface.
var (
	_ Metrics = (*MetricsProvider)(nil)
	_ Metrics = (*NoopMetricsProvider)(nil)
)
