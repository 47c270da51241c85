package api

import (
	domainconfig "github.com/felixgeelhaar/maitre/domain/config"
	infraconfig "github.com/felixgeelhaar/maitre/infrastructure/config"
)

// ServiceConfig is the complete service configuration.
type ServiceConfig = domainconfig.ServiceConfig

// ConfigLoader loads service configuration from files.
type ConfigLoader = infraconfig.Loader

// ConfigLoaderOption configures a ConfigLoader.
type ConfigLoaderOption = infraconfig.LoaderOption

// NewConfigLoader creates a configuration loader with default settings.
func NewConfigLoader() *ConfigLoader {
	return infraconfig.NewLoader()
}

// NewConfigLoaderWithOptions creates a loader with the given options.
func NewConfigLoaderWithOptions(opts ...ConfigLoaderOption) *ConfigLoader {
	return infraconfig.NewLoaderWithOptions(opts...)
}

// Re-exported loader options.
var (
	ConfigWithEnvExpansion = infraconfig.WithEnvExpansion
	ConfigWithStrictEnv    = infraconfig.WithStrictEnv
	ConfigWithValidation   = infraconfig.WithValidation
)

// DefaultConfig returns a configuration with production defaults.
func DefaultConfig() *ServiceConfig {
	return domainconfig.Default()
}
