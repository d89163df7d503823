// Package dicecalc holds the configuration shared by the dicecalc command.
package dicecalc

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/goccy/go-yaml"
	"github.com/ivorydice/dicecalc/history"
	"github.com/ivorydice/dicecalc/output"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

// DefaultConfigFile is read when no --config flag is given.
const DefaultConfigFile = "dicecalc.yaml"

// Config is the dicecalc configuration file.
type Config struct {
	// Seed for the dice roller. Zero picks a fresh random seed per process.
	Seed    uint64        `yaml:"seed"`
	Limits  LimitsConfig  `yaml:"limits"`
	Router  RouterConfig  `yaml:"router"`
	Output  OutputConfig  `yaml:"output"`
	History HistoryConfig `yaml:"history"`
	Log     LogConfig     `yaml:"log"`
}

// LimitsConfig bounds the work a single expression may request. Zero
// disables a limit.
type LimitsConfig struct {
	MaxDice             int `yaml:"max_dice"`
	MaxExpressionLength int `yaml:"max_expression_length"`
}

type RouterConfig struct {
	Prefix string `yaml:"prefix"`
}

type OutputConfig struct {
	Format string `yaml:"format"`
	Color  *bool  `yaml:"color,omitempty"`
}

// ColorEnabled reports whether colored text output is requested.
func (o OutputConfig) ColorEnabled() bool {
	return o.Color == nil || *o.Color
}

type HistoryConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Driver     string `yaml:"driver"`
	Connection string `yaml:"connection"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// ZapLevel returns the configured log level. Validation guarantees it parses.
func (l LogConfig) ZapLevel() zapcore.Level {
	level, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return zapcore.InfoLevel
	}

	return level
}

func boolPtr(b bool) *bool {
	return &b
}

func getDefaultConfig() *Config {
	return &Config{
		Seed: 0,
		Limits: LimitsConfig{
			MaxDice:             100000,
			MaxExpressionLength: 256,
		},
		Router: RouterConfig{
			Prefix: "$calc",
		},
		Output: OutputConfig{
			Format: string(output.FormatText),
			Color:  boolPtr(true),
		},
		History: HistoryConfig{
			Enabled:    false,
			Driver:     "sqlite3",
			Connection: "dicecalc.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return getDefaultConfig()
}

// LoadConfig reads configPath on top of the defaults. A missing file is not
// an error. A .env file next to the config file is loaded first so that
// ${VAR} references in the history connection can use it.
func LoadConfig(configPath string) (*Config, error) {
	if err := loadEnvFile(filepath.Join(filepath.Dir(configPath), ".env")); err != nil {
		return nil, err
	}

	config := getDefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		expandConfigEnvVars(config)
		return config, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.UnmarshalWithOptions(data, config, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfigParse, configPath, err)
	}

	applyDefaults(config)
	expandConfigEnvVars(config)

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// applyDefaults fills settings that were explicitly left empty.
func applyDefaults(config *Config) {
	defaults := getDefaultConfig()

	if config.Router.Prefix == "" {
		config.Router.Prefix = defaults.Router.Prefix
	}

	if config.Output.Format == "" {
		config.Output.Format = defaults.Output.Format
	}

	if config.Output.Color == nil {
		config.Output.Color = defaults.Output.Color
	}

	if config.History.Driver == "" {
		config.History.Driver = defaults.History.Driver
	}

	if config.History.Connection == "" {
		config.History.Connection = defaults.History.Connection
	}

	if config.Log.Level == "" {
		config.Log.Level = defaults.Log.Level
	}
}

func validateConfig(config *Config) error {
	if config.Limits.MaxDice < 0 {
		return fmt.Errorf("%w: limits.max_dice must be non-negative, got %d", ErrConfigValidation, config.Limits.MaxDice)
	}

	if config.Limits.MaxExpressionLength < 0 {
		return fmt.Errorf("%w: limits.max_expression_length must be non-negative, got %d", ErrConfigValidation, config.Limits.MaxExpressionLength)
	}

	if strings.IndexFunc(config.Router.Prefix, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: router.prefix '%s' must not contain whitespace", ErrConfigValidation, config.Router.Prefix)
	}

	if _, err := output.ParseFormat(config.Output.Format); err != nil {
		return fmt.Errorf("%w: output.format '%s' is invalid: must be one of text, json, yaml, markdown", ErrConfigValidation, config.Output.Format)
	}

	if _, err := history.NormalizeDriver(config.History.Driver); err != nil {
		return fmt.Errorf("%w: history.driver '%s' is invalid: must be one of sqlite3, postgres, mysql", ErrConfigValidation, config.History.Driver)
	}

	if _, err := zapcore.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level '%s' is invalid: must be one of debug, info, warn, error", ErrConfigValidation, config.Log.Level)
	}

	return nil
}

func loadEnvFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrEnvFile, path, err)
	}

	return nil
}

// expandEnvVars expands ${VAR} and $VAR references. Unset variables expand
// to the empty string.
func expandEnvVars(s string) string {
	return os.Expand(s, os.Getenv)
}

func expandConfigEnvVars(config *Config) {
	config.History.Driver = expandEnvVars(config.History.Driver)
	config.History.Connection = expandEnvVars(config.History.Connection)
}

// SampleConfig is written by "dicecalc init".
const SampleConfig = `# dicecalc configuration
seed: 0                      # 0 = fresh random seed per process
limits:
  max_dice: 100000           # 0 = unlimited
  max_expression_length: 256 # 0 = unlimited
router:
  prefix: "$calc"
output:
  format: text               # text | json | yaml | markdown
  color: true
history:
  enabled: false
  driver: sqlite3            # sqlite3 | postgres | mysql
  connection: dicecalc.db    # ${VAR} and $VAR are expanded
log:
  level: info                # debug | info | warn | error
`
