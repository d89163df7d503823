package dicecalc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "dicecalc.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.NoError(t, err)
	assert.Equal(t, getDefaultConfig(), config)
	assert.True(t, config.Output.ColorEnabled())
	assert.Equal(t, zapcore.InfoLevel, config.Log.ZapLevel())
}

func TestLoadConfig_SampleMatchesDefaults(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, SampleConfig))
	assert.NoError(t, err)
	assert.Equal(t, getDefaultConfig(), config)
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
seed: 42
limits:
  max_dice: 0
output:
  color: false
log:
  level: debug
`)

	config, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, uint64(42), config.Seed)
	assert.Equal(t, 0, config.Limits.MaxDice)
	assert.Equal(t, 256, config.Limits.MaxExpressionLength)
	assert.Equal(t, "$calc", config.Router.Prefix)
	assert.Equal(t, "text", config.Output.Format)
	assert.False(t, config.Output.ColorEnabled())
	assert.Equal(t, "sqlite3", config.History.Driver)
	assert.Equal(t, zapcore.DebugLevel, config.Log.ZapLevel())
}

func TestLoadConfig_EmptyValuesGetDefaults(t *testing.T) {
	path := writeConfig(t, `
router:
  prefix: ""
output:
  format: ""
log:
  level: ""
`)

	config, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, "$calc", config.Router.Prefix)
	assert.Equal(t, "text", config.Output.Format)
	assert.Equal(t, "info", config.Log.Level)
}

func TestLoadConfig_UnknownFieldRejected(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "limits:\n  max_rolls: 3\n"))
	assert.IsError(t, err, ErrConfigParse)
}

func TestLoadConfig_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "negative max dice", content: "limits:\n  max_dice: -1\n"},
		{name: "negative expression length", content: "limits:\n  max_expression_length: -5\n"},
		{name: "prefix with space", content: "router:\n  prefix: \"$ calc\"\n"},
		{name: "unknown format", content: "output:\n  format: csv\n"},
		{name: "unknown driver", content: "history:\n  driver: oracle\n"},
		{name: "unknown log level", content: "log:\n  level: chatty\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			assert.IsError(t, err, ErrConfigValidation)
		})
	}
}

func TestLoadConfig_ExpandsEnvironment(t *testing.T) {
	t.Setenv("DICECALC_TEST_DB_HOST", "db.internal")
	t.Setenv("DICECALC_TEST_DB_NAME", "rolls")

	path := writeConfig(t, `
history:
  enabled: true
  driver: postgres
  connection: postgres://bot@${DICECALC_TEST_DB_HOST}/$DICECALC_TEST_DB_NAME
`)

	config, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.True(t, config.History.Enabled)
	assert.Equal(t, "postgres://bot@db.internal/rolls", config.History.Connection)
}

func TestLoadConfig_LoadsDotEnv(t *testing.T) {
	const key = "DICECALC_TEST_DOTENV_PASSWORD"
	t.Cleanup(func() { os.Unsetenv(key) })

	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(key+"=hunter2\n"), 0o600))

	path := filepath.Join(dir, "dicecalc.yaml")
	assert.NoError(t, os.WriteFile(path, []byte("history:\n  driver: mysql\n  connection: bot:${"+key+"}@tcp(localhost:3306)/calc\n"), 0o644))

	config, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, "bot:hunter2@tcp(localhost:3306)/calc", config.History.Connection)
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("DICECALC_TEST_USER", "alice")

	tests := []struct {
		input    string
		expected string
	}{
		{input: "${DICECALC_TEST_USER}", expected: "alice"},
		{input: "$DICECALC_TEST_USER@host", expected: "alice@host"},
		{input: "plain", expected: "plain"},
		{input: "${DICECALC_TEST_UNSET}", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandEnvVars(tt.input))
		})
	}
}
