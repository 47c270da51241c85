package resilience

import "time"

// Option configures an Executor.
type Option func(*ExecutorConfig)

// WithMaxConcurrent sets the bulkhead concurrency limit.
func WithMaxConcurrent(n int) Option {
	return func(c *ExecutorConfig) {
		c.MaxConcurrent = n
	}
}

// WithCircuitBreakerThreshold sets the consecutive-failure threshold.
func WithCircuitBreakerThreshold(n int) Option {
	return func(c *ExecutorConfig) {
		c.CircuitBreakerThreshold = n
	}
}

// WithCircuitBreakerTimeout sets how long the circuit stays open.
func WithCircuitBreakerTimeout(d time.Duration) Option {
	return func(c *ExecutorConfig) {
		c.CircuitBreakerTimeout = d
	}
}

// WithRetryAttempts sets the maximum attempts for read-only calls.
func WithRetryAttempts(n int) Option {
	return func(c *ExecutorConfig) {
		c.RetryMaxAttempts = n
	}
}

// WithRetryDelay sets the initial retry delay.
func WithRetryDelay(d time.Duration) Option {
	return func(c *ExecutorConfig) {
		c.RetryInitialDelay = d
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *ExecutorConfig) {
		c.DefaultTimeout = d
	}
}

// NewExecutorWithOptions creates an executor from defaults plus options.
func NewExecutorWithOptions(opts ...Option) *Executor {
	config := DefaultExecutorConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return NewExecutor(config)
}
