package api

import (
	"fmt"

	"github.com/felixgeelhaar/maitre/application"
	domainconfig "github.com/felixgeelhaar/maitre/domain/config"
	"github.com/felixgeelhaar/maitre/domain/taskstore"
	"github.com/felixgeelhaar/maitre/infrastructure/logging"
	"github.com/felixgeelhaar/maitre/infrastructure/resilience"
	memorystore "github.com/felixgeelhaar/maitre/infrastructure/storage/memory"
	redisstore "github.com/felixgeelhaar/maitre/infrastructure/storage/redis"
	sqlitestore "github.com/felixgeelhaar/maitre/infrastructure/storage/sqlite"
	"github.com/felixgeelhaar/maitre/infrastructure/telemetry"
)

// RuntimeBuilder turns a service configuration into wired runtime
// components: task store, resilience executor, metrics provider, and the
// engine options carrying them.
type RuntimeBuilder struct {
	config *domainconfig.ServiceConfig
}

// NewRuntimeBuilder creates a builder for the given configuration.
func NewRuntimeBuilder(config *domainconfig.ServiceConfig) *RuntimeBuilder {
	return &RuntimeBuilder{config: config}
}

// BuildResult holds the components built from configuration. Providers
// are not part of the result; the embedder supplies those.
type BuildResult struct {
	// Store is the configured task store backend.
	Store taskstore.Store

	// Executor wraps provider calls with the configured resilience policies.
	Executor *resilience.Executor

	// Metrics is the configured metrics provider.
	Metrics telemetry.Metrics

	// EngineOptions carries everything above plus engine tuning, ready to
	// pass to NewWithOptions.
	EngineOptions []Option

	closers []func() error
}

// Close releases resources held by the built components.
func (r *BuildResult) Close() error {
	var firstErr error
	for _, close := range r.closers {
		if err := close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Build wires the configured components. Logging is initialized as a
// side effect.
func (b *RuntimeBuilder) Build() (*BuildResult, error) {
	cfg := b.config
	if cfg == nil {
		cfg = domainconfig.Default()
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	result := &BuildResult{}

	store, closer, err := b.buildStore(cfg)
	if err != nil {
		return nil, err
	}
	result.Store = store
	if closer != nil {
		result.closers = append(result.closers, closer)
	}

	result.Executor = b.buildExecutor(cfg)
	result.Metrics = b.buildMetrics(cfg)

	result.EngineOptions = []Option{
		application.WithStore(result.Store),
		application.WithExecutor(result.Executor),
		application.WithMetrics(result.Metrics),
		application.WithMaxIterations(cfg.Engine.MaxIterations),
		application.WithShortlistSize(cfg.Engine.ShortlistSize),
		application.WithCustomer(cfg.Customer.Name, cfg.Customer.Phone),
	}

	return result, nil
}

// buildStore selects and constructs the task store backend.
func (b *RuntimeBuilder) buildStore(cfg *domainconfig.ServiceConfig) (taskstore.Store, func() error, error) {
	switch cfg.Storage.Backend {
	case "", "memory":
		return memorystore.NewTaskStore(), nil, nil

	case "sqlite":
		opts := []sqlitestore.Option{sqlitestore.WithAutoMigrate()}
		if cfg.Storage.SQLite.Path != "" {
			opts = append(opts, sqlitestore.WithDSN(
				fmt.Sprintf("file:%s?cache=shared&mode=rwc", cfg.Storage.SQLite.Path),
			))
		}
		store, err := sqlitestore.NewTaskStore(sqlitestore.DefaultConfig(), opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to build sqlite store: %w", err)
		}
		return store, store.Close, nil

	case "redis":
		opts := []redisstore.ConfigOption{}
		if cfg.Storage.Redis.Addr != "" {
			opts = append(opts, redisstore.WithAddress(cfg.Storage.Redis.Addr))
		}
		if cfg.Storage.Redis.Password != "" {
			opts = append(opts, redisstore.WithPassword(cfg.Storage.Redis.Password))
		}
		if cfg.Storage.Redis.DB != 0 {
			opts = append(opts, redisstore.WithDB(cfg.Storage.Redis.DB))
		}
		if cfg.Storage.Redis.KeyPrefix != "" {
			opts = append(opts, redisstore.WithKeyPrefix(cfg.Storage.Redis.KeyPrefix))
		}
		if cfg.Storage.Redis.TTL > 0 {
			opts = append(opts, redisstore.WithTTL(cfg.Storage.Redis.TTL.Duration()))
		}
		store, err := redisstore.NewTaskStore(redisstore.DefaultConfig(), opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to build redis store: %w", err)
		}
		return store, store.Close, nil

	default:
		return nil, nil, fmt.Errorf("%w: unknown storage backend %q",
			domainconfig.ErrValidationFailed, cfg.Storage.Backend)
	}
}

// buildExecutor maps the resilience configuration onto an executor.
// Disabled retry means one attempt; everything else keeps its default
// when unset.
func (b *RuntimeBuilder) buildExecutor(cfg *domainconfig.ServiceConfig) *resilience.Executor {
	ec := resilience.DefaultExecutorConfig()

	if cfg.Resilience.Timeout > 0 {
		ec.DefaultTimeout = cfg.Resilience.Timeout.Duration()
	}
	if cfg.Resilience.Bulkhead.Enabled && cfg.Resilience.Bulkhead.MaxConcurrent > 0 {
		ec.MaxConcurrent = cfg.Resilience.Bulkhead.MaxConcurrent
	}
	if cfg.Resilience.CircuitBreaker.Enabled {
		if cfg.Resilience.CircuitBreaker.Threshold > 0 {
			ec.CircuitBreakerThreshold = cfg.Resilience.CircuitBreaker.Threshold
		}
		if cfg.Resilience.CircuitBreaker.Timeout > 0 {
			ec.CircuitBreakerTimeout = cfg.Resilience.CircuitBreaker.Timeout.Duration()
		}
	}
	if cfg.Resilience.Retry.Enabled {
		if cfg.Resilience.Retry.MaxAttempts > 0 {
			ec.RetryMaxAttempts = cfg.Resilience.Retry.MaxAttempts
		}
		if cfg.Resilience.Retry.InitialDelay > 0 {
			ec.RetryInitialDelay = cfg.Resilience.Retry.InitialDelay.Duration()
		}
		if cfg.Resilience.Retry.Multiplier > 0 {
			ec.RetryBackoffMultiplier = cfg.Resilience.Retry.Multiplier
		}
	} else {
		ec.RetryMaxAttempts = 1
	}

	return resilience.NewExecutor(ec)
}

// buildMetrics selects the metrics provider.
func (b *RuntimeBuilder) buildMetrics(cfg *domainconfig.ServiceConfig) telemetry.Metrics {
	if !cfg.Telemetry.Enabled {
		return &telemetry.NoopMetricsProvider{}
	}

	mc := telemetry.DefaultMetricsConfig()
	if cfg.Telemetry.ServiceName != "" {
		mc.MeterName = cfg.Telemetry.ServiceName
	}
	return telemetry.NewMetricsProvider(mc)
}
