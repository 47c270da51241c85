package application

import (
	"github.com/felixgeelhaar/maitre/domain/provider"
	"github.com/felixgeelhaar/maitre/domain/taskstore"
	"github.com/felixgeelhaar/maitre/infrastructure/resilience"
	"github.com/felixgeelhaar/maitre/infrastructure/telemetry"
)

// Option configures an Engine.
type Option func(*EngineConfig)

// WithCalendar attaches a calendar provider for recording confirmed
// bookings.
func WithCalendar(calendar provider.CalendarProvider) Option {
	return func(c *EngineConfig) {
		c.Calendar = calendar
	}
}

// WithClock overrides the time source.
func WithClock(clock provider.Clock) Option {
	return func(c *EngineConfig) {
		c.Clock = clock
	}
}

// WithStore enables task snapshot persistence.
func WithStore(store taskstore.Store) Option {
	return func(c *EngineConfig) {
		c.Store = store
	}
}

// WithExecutor overrides the resilience executor.
func WithExecutor(executor *resilience.Executor) Option {
	return func(c *EngineConfig) {
		c.Executor = executor
	}
}

// WithMetrics attaches a metrics provider.
func WithMetrics(metrics telemetry.Metrics) Option {
	return func(c *EngineConfig) {
		c.Metrics = metrics
	}
}

// WithMaxIterations overrides the loop guard ceiling.
func WithMaxIterations(n int) Option {
	return func(c *EngineConfig) {
		c.MaxIterations = n
	}
}

// WithShortlistSize overrides the shortlist cap.
func WithShortlistSize(n int) Option {
	return func(c *EngineConfig) {
		c.ShortlistSize = n
	}
}

// WithCustomer sets the diner identity placed on booking requests.
func WithCustomer(name, phone string) Option {
	return func(c *EngineConfig) {
		c.CustomerName = name
		c.CustomerPhone = phone
	}
}

// NewEngineWithOptions creates an engine from required providers plus
// functional options.
func NewEngineWithOptions(
	inference provider.Inference,
	search provider.SearchProvider,
	availability provider.AvailabilityProvider,
	booking provider.BookingProvider,
	voice provider.VoiceProvider,
	opts ...Option,
) (*Engine, error) {
	config := EngineConfig{
		Inference:    inference,
		Search:       search,
		Availability: availability,
		Booking:      booking,
		Voice:        voice,
	}
	for _, opt := range opts {
		opt(&config)
	}
	return NewEngine(config)
}
