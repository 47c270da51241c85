// Package api is the public facade for embedding the reservation
// runtime. It re-exports the engine, its configuration surface and the
// provider contracts so embedders depend on one import path.
package api

import (
	"github.com/felixgeelhaar/maitre/application"
	"github.com/felixgeelhaar/maitre/domain/provider"
	"github.com/felixgeelhaar/maitre/domain/task"
	"github.com/felixgeelhaar/maitre/domain/taskstore"
)

// Engine drives reservation tasks. See application.Engine.
type Engine = application.Engine

// EngineConfig holds engine collaborators and tuning knobs.
type EngineConfig = application.EngineConfig

// Option configures an engine.
type Option = application.Option

// Task is the reservation task aggregate.
type Task = task.Task

// Candidate is one restaurant under consideration.
type Candidate = task.Candidate

// ReservationParams are the structured reservation parameters.
type ReservationParams = task.ReservationParams

// Store persists task snapshots.
type Store = taskstore.Store

// Provider contracts an embedder implements.
type (
	Inference            = provider.Inference
	SearchProvider       = provider.SearchProvider
	AvailabilityProvider = provider.AvailabilityProvider
	BookingProvider      = provider.BookingProvider
	VoiceProvider        = provider.VoiceProvider
	CalendarProvider     = provider.CalendarProvider
	Clock                = provider.Clock
)

// New creates an engine from the given configuration.
func New(config EngineConfig) (*Engine, error) {
	return application.NewEngine(config)
}

// NewWithOptions creates an engine from required providers plus options.
func NewWithOptions(
	inference Inference,
	search SearchProvider,
	availability AvailabilityProvider,
	booking BookingProvider,
	voice VoiceProvider,
	opts ...Option,
) (*Engine, error) {
	return application.NewEngineWithOptions(inference, search, availability, booking, voice, opts...)
}

// Re-exported engine options.
var (
	WithCalendar      = application.WithCalendar
	WithClock         = application.WithClock
	WithStore         = application.WithStore
	WithExecutor      = application.WithExecutor
	WithMetrics       = application.WithMetrics
	WithMaxIterations = application.WithMaxIterations
	WithShortlistSize = application.WithShortlistSize
	WithCustomer      = application.WithCustomer
)
