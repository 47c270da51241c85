package config

import (
	"strings"
	"testing"
)

func TestValidator_DefaultConfigIsValid(t *testing.T) {
	v := NewValidator()
	if errs := v.Validate(Default()); errs.HasErrors() {
		t.Errorf("Validate(Default()) = %v, want no errors", errs)
	}
}

func TestValidator_NilConfig(t *testing.T) {
	v := NewValidator()
	errs := v.Validate(nil)
	if !errs.HasErrors() {
		t.Fatal("Validate(nil) reported no errors")
	}
}

func TestValidator_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*ServiceConfig)
		wantField string
	}{
		{
			name:      "negative max iterations",
			mutate:    func(c *ServiceConfig) { c.Engine.MaxIterations = -1 },
			wantField: "engine.max_iterations",
		},
		{
			name:      "max iterations below minimum",
			mutate:    func(c *ServiceConfig) { c.Engine.MaxIterations = 3 },
			wantField: "engine.max_iterations",
		},
		{
			name:      "negative shortlist size",
			mutate:    func(c *ServiceConfig) { c.Engine.ShortlistSize = -3 },
			wantField: "engine.shortlist_size",
		},
		{
			name:      "unknown log level",
			mutate:    func(c *ServiceConfig) { c.Logging.Level = "verbose" },
			wantField: "logging.level",
		},
		{
			name:      "unknown log format",
			mutate:    func(c *ServiceConfig) { c.Logging.Format = "xml" },
			wantField: "logging.format",
		},
		{
			name:      "negative retry attempts",
			mutate:    func(c *ServiceConfig) { c.Resilience.Retry.MaxAttempts = -2 },
			wantField: "resilience.retry.max_attempts",
		},
		{
			name:      "unknown storage backend",
			mutate:    func(c *ServiceConfig) { c.Storage.Backend = "etcd" },
			wantField: "storage.backend",
		},
		{
			name:      "sqlite backend requires path",
			mutate:    func(c *ServiceConfig) { c.Storage.Backend = "sqlite" },
			wantField: "storage.sqlite.path",
		},
		{
			name:      "redis backend requires addr",
			mutate:    func(c *ServiceConfig) { c.Storage.Backend = "redis" },
			wantField: "storage.redis.addr",
		},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			errs := v.Validate(cfg)
			if !errs.HasErrors() {
				t.Fatal("Validate() reported no errors")
			}

			found := false
			for _, e := range errs {
				if e.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("Validate() = %v, want error on field %q", errs, tt.wantField)
			}
		})
	}
}

func TestValidator_ZeroMaxIterationsMeansDefault(t *testing.T) {
	cfg := Default()
	cfg.Engine.MaxIterations = 0

	if errs := NewValidator().Validate(cfg); errs.HasErrors() {
		t.Errorf("Validate() = %v, want zero accepted as the default", errs)
	}
}

func TestValidator_CaseInsensitiveEnums(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "INFO"
	cfg.Logging.Format = "JSON"
	cfg.Storage.Backend = "Memory"

	if errs := NewValidator().Validate(cfg); errs.HasErrors() {
		t.Errorf("Validate() = %v, want case-insensitive enum matching", errs)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "a", Message: "broken"},
		{Field: "b", Message: "also broken"},
	}
	msg := errs.Error()
	if !strings.Contains(msg, "a: broken") || !strings.Contains(msg, "b: also broken") {
		t.Errorf("Error() = %q", msg)
	}
}
