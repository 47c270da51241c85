package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	domainconfig "github.com/felixgeelhaar/maitre/domain/config"
)

func TestLoader_LoadString_YAML(t *testing.T) {
	content := `
name: test-service
engine:
  max_iterations: 10
  shortlist_size: 2
customer:
  name: Alex Diner
  phone: "+1-555-0000"
resilience:
  timeout: 15s
  retry:
    enabled: true
    max_attempts: 4
storage:
  backend: sqlite
  sqlite:
    path: /tmp/maitre.db
`

	cfg, err := NewLoader().LoadString(content, FormatYAML)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}

	if cfg.Name != "test-service" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.Engine.MaxIterations != 10 || cfg.Engine.ShortlistSize != 2 {
		t.Errorf("Engine = %+v", cfg.Engine)
	}
	if cfg.Customer.Name != "Alex Diner" {
		t.Errorf("Customer = %+v", cfg.Customer)
	}
	if cfg.Resilience.Timeout.Duration() != 15*time.Second {
		t.Errorf("Timeout = %v", cfg.Resilience.Timeout.Duration())
	}
	if !cfg.Resilience.Retry.Enabled || cfg.Resilience.Retry.MaxAttempts != 4 {
		t.Errorf("Retry = %+v", cfg.Resilience.Retry)
	}
	if cfg.Storage.Backend != "sqlite" || cfg.Storage.SQLite.Path != "/tmp/maitre.db" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
}

func TestLoader_PartialFileKeepsDefaults(t *testing.T) {
	cfg, err := NewLoader().LoadString(`name: minimal`, FormatYAML)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}

	if cfg.Name != "minimal" {
		t.Errorf("Name = %q", cfg.Name)
	}
	// Values the file never names keep production defaults.
	if cfg.Engine.MaxIterations != 20 {
		t.Errorf("MaxIterations = %d, want default 20", cfg.Engine.MaxIterations)
	}
	if cfg.Engine.ShortlistSize != 3 {
		t.Errorf("ShortlistSize = %d, want default 3", cfg.Engine.ShortlistSize)
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("Backend = %q, want default memory", cfg.Storage.Backend)
	}
}

func TestLoader_LoadString_JSON(t *testing.T) {
	content := `{"name":"json-service","engine":{"max_iterations":15},"resilience":{"timeout":"2m"}}`

	cfg, err := NewLoader().LoadString(content, FormatJSON)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	if cfg.Name != "json-service" || cfg.Engine.MaxIterations != 15 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Resilience.Timeout.Duration() != 2*time.Minute {
		t.Errorf("Timeout = %v", cfg.Resilience.Timeout.Duration())
	}
}

func TestLoader_InvalidContent(t *testing.T) {
	_, err := NewLoader().LoadString(`{broken`, FormatJSON)
	if !errors.Is(err, domainconfig.ErrInvalidFormat) {
		t.Errorf("LoadString(broken) error = %v, want ErrInvalidFormat", err)
	}
}

func TestLoader_ValidationFailure(t *testing.T) {
	_, err := NewLoader().LoadString(`storage: {backend: etcd}`, FormatYAML)
	if !errors.Is(err, domainconfig.ErrValidationFailed) {
		t.Errorf("LoadString() error = %v, want ErrValidationFailed", err)
	}
}

func TestLoader_ValidationDisabled(t *testing.T) {
	loader := NewLoaderWithOptions(WithValidation(false))
	cfg, err := loader.LoadString(`storage: {backend: etcd}`, FormatYAML)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	if cfg.Storage.Backend != "etcd" {
		t.Errorf("Backend = %q", cfg.Storage.Backend)
	}
}

func TestLoader_LoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "maitre.yaml")
	if err := os.WriteFile(path, []byte("name: from-file"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewLoader().LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Name != "from-file" {
		t.Errorf("Name = %q", cfg.Name)
	}
}

func TestLoader_LoadFile_Missing(t *testing.T) {
	_, err := NewLoader().LoadFile("/nonexistent/maitre.yaml")
	if !errors.Is(err, domainconfig.ErrConfigNotFound) {
		t.Errorf("LoadFile(missing) error = %v, want ErrConfigNotFound", err)
	}
}

func TestLoader_LoadFile_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "maitre.toml")
	if err := os.WriteFile(path, []byte("name = 'nope'"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := NewLoader().LoadFile(path)
	if !errors.Is(err, domainconfig.ErrUnsupportedFormat) {
		t.Errorf("LoadFile(.toml) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoader_EnvExpansion(t *testing.T) {
	t.Setenv("MAITRE_TEST_NAME", "expanded")

	cfg, err := NewLoader().LoadString(`name: ${MAITRE_TEST_NAME}`, FormatYAML)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	if cfg.Name != "expanded" {
		t.Errorf("Name = %q, want expanded", cfg.Name)
	}
}

func TestEnvExpander(t *testing.T) {
	t.Setenv("MAITRE_SET", "value")
	os.Unsetenv("MAITRE_UNSET")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain variable", "${MAITRE_SET}", "value"},
		{"default used", "${MAITRE_UNSET:-fallback}", "fallback"},
		{"default ignored when set", "${MAITRE_SET:-fallback}", "value"},
		{"missing without strict", "${MAITRE_UNSET}", ""},
		{"simple form", "$MAITRE_SET", "value"},
		{"embedded", "prefix-${MAITRE_SET}-suffix", "prefix-value-suffix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandEnv(tt.input); got != tt.expected {
				t.Errorf("ExpandEnv(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestEnvExpander_Strict(t *testing.T) {
	os.Unsetenv("MAITRE_UNSET")

	_, err := ExpandEnvStrict("${MAITRE_UNSET}")
	if !errors.Is(err, domainconfig.ErrMissingEnvVar) {
		t.Errorf("ExpandEnvStrict() error = %v, want ErrMissingEnvVar", err)
	}

	_, err = ExpandEnvStrict("${MAITRE_UNSET:?database password is required}")
	if !errors.Is(err, domainconfig.ErrMissingEnvVar) {
		t.Errorf("ExpandEnvStrict(:?) error = %v, want ErrMissingEnvVar", err)
	}
}
