package dicecalc

import "errors"

var (
	// ErrConfigValidation is returned when a loaded configuration is inconsistent.
	ErrConfigValidation = errors.New("configuration validation failed")
	// ErrConfigParse is returned when the configuration file is not valid YAML
	// or contains unknown fields.
	ErrConfigParse = errors.New("failed to parse config file")
	// ErrEnvFile is returned when a .env file exists but cannot be loaded.
	ErrEnvFile = errors.New("failed to load environment file")
)
