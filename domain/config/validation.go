package config

import (
	"fmt"
	"strings"
)

// ValidationError describes a single configuration problem.
type ValidationError struct {
	// Field is the dotted path to the offending field.
	Field string
	// Message describes what is wrong.
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// HasErrors reports whether any errors were collected.
func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

// Error implements the error interface.
func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validator validates service configurations.
type Validator struct{}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{}
}

var validLogLevels = map[string]bool{
	"": true, "trace": true, "debug": true, "info": true,
	"warn": true, "error": true, "fatal": true,
}

var validLogFormats = map[string]bool{
	"": true, "json": true, "console": true,
}

var validBackends = map[string]bool{
	"": true, "memory": true, "sqlite": true, "redis": true,
}

// Validate checks the configuration and returns all problems found.
func (v *Validator) Validate(cfg *ServiceConfig) ValidationErrors {
	var errs ValidationErrors

	if cfg == nil {
		return ValidationErrors{{Field: "config", Message: "configuration is nil"}}
	}

	if cfg.Engine.MaxIterations != 0 && cfg.Engine.MaxIterations < MinIterations {
		errs = append(errs, ValidationError{
			Field:   "engine.max_iterations",
			Message: fmt.Sprintf("must be 0 (default) or at least %d", MinIterations),
		})
	}
	if cfg.Engine.ShortlistSize < 0 {
		errs = append(errs, ValidationError{
			Field:   "engine.shortlist_size",
			Message: "must not be negative",
		})
	}
	if cfg.Engine.DefaultPartySize < 0 {
		errs = append(errs, ValidationError{
			Field:   "engine.default_party_size",
			Message: "must not be negative",
		})
	}

	if !validLogLevels[strings.ToLower(cfg.Logging.Level)] {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("unknown level %q", cfg.Logging.Level),
		})
	}
	if !validLogFormats[strings.ToLower(cfg.Logging.Format)] {
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: fmt.Sprintf("unknown format %q", cfg.Logging.Format),
		})
	}

	if cfg.Resilience.Retry.MaxAttempts < 0 {
		errs = append(errs, ValidationError{
			Field:   "resilience.retry.max_attempts",
			Message: "must not be negative",
		})
	}
	if cfg.Resilience.CircuitBreaker.Threshold < 0 {
		errs = append(errs, ValidationError{
			Field:   "resilience.circuit_breaker.threshold",
			Message: "must not be negative",
		})
	}
	if cfg.Resilience.Bulkhead.MaxConcurrent < 0 {
		errs = append(errs, ValidationError{
			Field:   "resilience.bulkhead.max_concurrent",
			Message: "must not be negative",
		})
	}

	backend := strings.ToLower(cfg.Storage.Backend)
	if !validBackends[backend] {
		errs = append(errs, ValidationError{
			Field:   "storage.backend",
			Message: fmt.Sprintf("unknown backend %q", cfg.Storage.Backend),
		})
	}
	if backend == "sqlite" && cfg.Storage.SQLite.Path == "" {
		errs = append(errs, ValidationError{
			Field:   "storage.sqlite.path",
			Message: "required when backend is sqlite",
		})
	}
	if backend == "redis" && cfg.Storage.Redis.Addr == "" {
		errs = append(errs, ValidationError{
			Field:   "storage.redis.addr",
			Message: "required when backend is redis",
		})
	}

	return errs
}
