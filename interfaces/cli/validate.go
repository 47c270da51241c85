package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	api "github.com/felixgeelhaar/maitre/interfaces/api"
)

// validateOptions holds options for the validate command.
type validateOptions struct {
	configPath string
	strict     bool
}

// newValidateCmd creates the validate command.
func (a *App) newValidateCmd() *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		Long: `Validate a maitre configuration file for correctness.

This command checks:
  - File format (YAML or JSON)
  - Field types and constraints
  - Storage backend settings
  - Environment variable references (in strict mode)

Examples:
  # Validate a configuration file
  maitre validate -c config.yaml

  # Strict validation (fail on missing env vars)
  maitre validate -c config.yaml --strict`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.validateConfig(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Enable strict validation (fail on missing env vars)")

	return cmd
}

// validateConfig validates the configuration file.
func (a *App) validateConfig(opts *validateOptions) error {
	if opts.configPath == "" {
		return fmt.Errorf("configuration file path is required (-c flag)")
	}

	loaderOpts := []api.ConfigLoaderOption{
		api.ConfigWithValidation(true),
	}
	if opts.strict {
		loaderOpts = append(loaderOpts, api.ConfigWithStrictEnv(true))
	}

	loader := api.NewConfigLoaderWithOptions(loaderOpts...)
	config, err := loader.LoadFile(opts.configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	// Additional validation via the builder.
	result, err := api.NewRuntimeBuilder(config).Build()
	if err != nil {
		return fmt.Errorf("configuration build failed: %w", err)
	}
	defer result.Close()

	fmt.Fprintf(a.stdout, "✓ Configuration is valid\n")
	fmt.Fprintf(a.stdout, "  Name: %s\n", config.Name)
	fmt.Fprintf(a.stdout, "  Version: %s\n", config.Version)
	if config.Description != "" {
		fmt.Fprintf(a.stdout, "  Description: %s\n", config.Description)
	}

	fmt.Fprintf(a.stdout, "\nConfiguration summary:\n")
	fmt.Fprintf(a.stdout, "  Max iterations: %d\n", config.Engine.MaxIterations)
	fmt.Fprintf(a.stdout, "  Shortlist size: %d\n", config.Engine.ShortlistSize)

	backend := config.Storage.Backend
	if backend == "" {
		backend = "memory"
	}
	fmt.Fprintf(a.stdout, "  Storage backend: %s\n", backend)

	if config.Customer.Name != "" {
		fmt.Fprintf(a.stdout, "  Customer: %s\n", config.Customer.Name)
	}

	if config.Resilience.Retry.Enabled {
		fmt.Fprintf(a.stdout, "  Retry: enabled (max attempts=%d)\n", config.Resilience.Retry.MaxAttempts)
	}
	if config.Resilience.CircuitBreaker.Enabled {
		fmt.Fprintf(a.stdout, "  Circuit breaker: enabled (threshold=%d)\n", config.Resilience.CircuitBreaker.Threshold)
	}
	if config.Telemetry.Enabled {
		fmt.Fprintf(a.stdout, "  Telemetry: enabled\n")
	}

	return nil
}
