// Package config provides domain models for service configuration.
package config

import "time"

// ServiceConfig represents the complete reservation service configuration.
type ServiceConfig struct {
	// Name is a human-readable name for this configuration.
	Name string `json:"name" yaml:"name"`
	// Version is the configuration schema version.
	Version string `json:"version" yaml:"version"`
	// Description describes the deployment.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Engine contains orchestration core settings.
	Engine EngineSettings `json:"engine" yaml:"engine"`
	// Customer contains the diner identity used when booking.
	Customer CustomerConfig `json:"customer,omitempty" yaml:"customer,omitempty"`
	// Logging contains logging settings.
	Logging LoggingConfig `json:"logging,omitempty" yaml:"logging,omitempty"`
	// Resilience contains resilience settings for provider calls.
	Resilience ResilienceConfig `json:"resilience,omitempty" yaml:"resilience,omitempty"`
	// Storage contains task persistence settings.
	Storage StorageConfig `json:"storage,omitempty" yaml:"storage,omitempty"`
	// Telemetry contains metrics settings.
	Telemetry TelemetryConfig `json:"telemetry,omitempty" yaml:"telemetry,omitempty"`
}

// MinIterations is the smallest usable iteration ceiling: the longest
// continuous run takes seven step dispatches plus the error step.
const MinIterations = 8

// EngineSettings contains orchestration core behavior settings.
type EngineSettings struct {
	// MaxIterations is the step dispatch ceiling before the loop guard
	// forces the error path (default: 20, minimum: MinIterations).
	MaxIterations int `json:"max_iterations,omitempty" yaml:"max_iterations,omitempty"`
	// ShortlistSize is the number of ranked candidates presented
	// (default: 3).
	ShortlistSize int `json:"shortlist_size,omitempty" yaml:"shortlist_size,omitempty"`
	// DefaultPartySize is assumed when the diner never states one.
	DefaultPartySize int `json:"default_party_size,omitempty" yaml:"default_party_size,omitempty"`
}

// CustomerConfig carries the identity passed to booking providers.
type CustomerConfig struct {
	// Name is the name a reservation is booked under.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	// Phone is the contact number given to venues.
	Phone string `json:"phone,omitempty" yaml:"phone,omitempty"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `json:"level,omitempty" yaml:"level,omitempty"`
	// Format is the output format (json, console).
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// ResilienceConfig contains resilience settings for provider calls.
type ResilienceConfig struct {
	// Timeout is the per-call timeout.
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	// Retry configures retry behavior for read-only providers.
	Retry RetryConfig `json:"retry,omitempty" yaml:"retry,omitempty"`
	// CircuitBreaker configures circuit breaker behavior.
	CircuitBreaker CircuitBreakerConfig `json:"circuit_breaker,omitempty" yaml:"circuit_breaker,omitempty"`
	// Bulkhead configures bulkhead behavior.
	Bulkhead BulkheadConfig `json:"bulkhead,omitempty" yaml:"bulkhead,omitempty"`
}

// RetryConfig configures retry behavior. Retries apply only to
// read-only provider calls; booking and voice calls are never retried.
type RetryConfig struct {
	// Enabled enables retry.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	// MaxAttempts is the maximum retry attempts.
	MaxAttempts int `json:"max_attempts,omitempty" yaml:"max_attempts,omitempty"`
	// InitialDelay is the first retry delay.
	InitialDelay Duration `json:"initial_delay,omitempty" yaml:"initial_delay,omitempty"`
	// Multiplier is the backoff multiplier.
	Multiplier float64 `json:"multiplier,omitempty" yaml:"multiplier,omitempty"`
}

// CircuitBreakerConfig configures circuit breaker behavior.
type CircuitBreakerConfig struct {
	// Enabled enables circuit breaker.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	// Threshold is failures before opening.
	Threshold int `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	// Timeout is how long the circuit stays open.
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// BulkheadConfig configures bulkhead behavior.
type BulkheadConfig struct {
	// Enabled enables bulkhead.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	// MaxConcurrent is the maximum concurrent provider calls.
	MaxConcurrent int `json:"max_concurrent,omitempty" yaml:"max_concurrent,omitempty"`
}

// StorageConfig contains task persistence settings.
type StorageConfig struct {
	// Backend selects the task store (memory, sqlite, redis).
	Backend string `json:"backend,omitempty" yaml:"backend,omitempty"`
	// SQLite configures the sqlite backend.
	SQLite SQLiteConfig `json:"sqlite,omitempty" yaml:"sqlite,omitempty"`
	// Redis configures the redis backend.
	Redis RedisConfig `json:"redis,omitempty" yaml:"redis,omitempty"`
}

// SQLiteConfig configures the sqlite task store.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// RedisConfig configures the redis task store.
type RedisConfig struct {
	// Addr is the host:port of the redis server.
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`
	// Password is the redis password, if any.
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	// DB is the redis database number.
	DB int `json:"db,omitempty" yaml:"db,omitempty"`
	// KeyPrefix namespaces task keys.
	KeyPrefix string `json:"key_prefix,omitempty" yaml:"key_prefix,omitempty"`
	// TTL is the expiry applied to stored tasks (0 = no expiry).
	TTL Duration `json:"ttl,omitempty" yaml:"ttl,omitempty"`
}

// TelemetryConfig contains metrics settings.
type TelemetryConfig struct {
	// Enabled enables metric recording.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	// ServiceName overrides the reported service name.
	ServiceName string `json:"service_name,omitempty" yaml:"service_name,omitempty"`
}

// Duration is a time.Duration that supports JSON/YAML string representation.
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}

	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Default returns a configuration with production defaults.
func Default() *ServiceConfig {
	return &ServiceConfig{
		Name:    "maitre",
		Version: "1",
		Engine: EngineSettings{
			MaxIterations:    20,
			ShortlistSize:    3,
			DefaultPartySize: 2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Storage: StorageConfig{
			Backend: "memory",
		},
	}
}
