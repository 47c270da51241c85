// Package resilience provides resilient provider execution using fortify.
package resilience

import (
	"context"
	"time"

	"github.com/felixgeelhaar/fortify/bulkhead"
	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/retry"
)

// Executor wraps collaborator calls with bulkhead, timeout, circuit
// breaker, and (for read-only providers only) retry. Booking and voice
// calls are never retried: the orchestration core reports their failures
// through designed routing instead.
type Executor struct {
	bulkhead bulkhead.Bulkhead[any]
	breaker  circuitbreaker.CircuitBreaker[any]
	retry    retry.Retry[any]
	timeout  time.Duration
}

// ExecutorConfig configures the resilient executor.
type ExecutorConfig struct {
	// MaxConcurrent limits concurrent provider calls. Bounds the
	// availability fan-out.
	MaxConcurrent int

	// CircuitBreakerThreshold is the number of failures before opening.
	CircuitBreakerThreshold int

	// CircuitBreakerTimeout is how long the circuit stays open.
	CircuitBreakerTimeout time.Duration

	// RetryMaxAttempts is the maximum number of attempts for read-only calls.
	RetryMaxAttempts int

	// RetryInitialDelay is the initial delay between retries.
	RetryInitialDelay time.Duration

	// RetryBackoffMultiplier is the exponential backoff multiplier.
	RetryBackoffMultiplier float64

	// DefaultTimeout is the per-call timeout.
	DefaultTimeout time.Duration
}

// DefaultExecutorConfig returns a configuration with sensible defaults.
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		MaxConcurrent:           8,
		CircuitBreakerThreshold: 5,
		CircuitBreakerTimeout:   30 * time.Second,
		RetryMaxAttempts:        3,
		RetryInitialDelay:       100 * time.Millisecond,
		RetryBackoffMultiplier:  2.0,
		DefaultTimeout:          30 * time.Second,
	}
}

// NewExecutor creates a new resilient executor.
func NewExecutor(config ExecutorConfig) *Executor {
	maxConcurrent := config.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 8
	}
	threshold := config.CircuitBreakerThreshold
	if threshold <= 0 {
		threshold = 5
	}

	return &Executor{
		bulkhead: bulkhead.New[any](bulkhead.Config{
			MaxConcurrent: maxConcurrent,
		}),
		breaker: circuitbreaker.New[any](circuitbreaker.Config{
			MaxRequests: uint32(maxConcurrent), // #nosec G115 -- bounds checked above
			Interval:    config.CircuitBreakerTimeout,
			Timeout:     config.CircuitBreakerTimeout,
			ReadyToTrip: func(counts circuitbreaker.Counts) bool {
				return counts.ConsecutiveFailures >= uint32(threshold) // #nosec G115 -- bounds checked above
			},
		}),
		retry: retry.New[any](retry.Config{
			MaxAttempts:   config.RetryMaxAttempts,
			InitialDelay:  config.RetryInitialDelay,
			BackoffPolicy: retry.BackoffExponential,
			Multiplier:    config.RetryBackoffMultiplier,
		}),
		timeout: config.DefaultTimeout,
	}
}

// NewDefaultExecutor creates an executor with default configuration.
func NewDefaultExecutor() *Executor {
	return NewExecutor(DefaultExecutorConfig())
}

// execute runs fn with resilience patterns applied.
// Composition order: Bulkhead → Timeout → Circuit Breaker → Retry (read-only only).
func (e *Executor) execute(ctx context.Context, readOnly bool, fn func(context.Context) (any, error)) (any, error) {
	return e.bulkhead.Execute(ctx, func(ctx context.Context) (any, error) {
		ctx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()

		return e.breaker.Execute(ctx, func(ctx context.Context) (any, error) {
			if readOnly {
				return e.retry.Do(ctx, fn)
			}
			return fn(ctx)
		})
	})
}

// Call runs a read-only provider call through the executor. Read-only
// calls are idempotent and may be retried.
func Call[T any](ctx context.Context, e *Executor, fn func(context.Context) (T, error)) (T, error) {
	out, err := e.execute(ctx, true, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out.(T), nil
}

// CallOnce runs a side-effecting provider call (booking, voice) through
// the executor with retries disabled.
func CallOnce[T any](ctx context.Context, e *Executor, fn func(context.Context) (T, error)) (T, error) {
	out, err := e.execute(ctx, false, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out.(T), nil
}

// BreakerState returns the current state of the circuit breaker.
func (e *Executor) BreakerState() circuitbreaker.State {
	return e.breaker.State()
}
