package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/statefold"
	"github.com/randalmurphal/statefold/fold"
	"github.com/randalmurphal/statefold/tokens"
	"github.com/randalmurphal/statefold/window"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 1000, cfg.Window.Size)
	assert.Equal(t, 250, cfg.Window.Overlap)
	assert.Equal(t, "prompts/main_instructions.txt", cfg.Inputs.Instructions)
	assert.Equal(t, "prompts/example.txt", cfg.Inputs.Example)
	assert.Equal(t, "prompts/initial_state.txt", cfg.Inputs.InitialState)
	assert.Equal(t, "data/network_data.txt", cfg.Inputs.Document)
	assert.Equal(t, "results/states.txt", cfg.Output.Path)
	assert.False(t, cfg.Output.Overwrite)
	assert.Equal(t, "openai", cfg.Provider.Provider)
	assert.Equal(t, DefaultModel, cfg.Provider.Model)
	assert.Equal(t, 1000, cfg.Generation.MaxTokens)
	assert.Equal(t, 0.0, cfg.Generation.Temperature)
	assert.Equal(t, 1.0, cfg.Generation.TopP)
	assert.NoError(t, cfg.Validate())
}

const yamlConfig = `
window:
  size: 300
  overlap: 50
provider:
  provider: mock
  api_key: sk-test
  timeout: 90s
  options:
    responses: [a, b]
generation:
  max_tokens: 200
output:
  path: out/states.txt
  overwrite: true
budget:
  mode: strict
  counter: tiktoken
log:
  level: debug
`

const tomlConfig = `
[window]
size = 300
overlap = 50

[provider]
provider = "mock"
api_key = "sk-test"
timeout = "90s"

[provider.options]
responses = ["a", "b"]

[generation]
max_tokens = 200

[output]
path = "out/states.txt"
overwrite = true

[budget]
mode = "strict"
counter = "tiktoken"

[log]
level = "debug"
`

const jsoncConfig = `{
	// comments and trailing commas are allowed
	"window": {"size": 300, "overlap": 50},
	"provider": {
		"provider": "mock",
		"api_key": "sk-test",
		"timeout": "90s",
		"options": {"responses": ["a", "b"]},
	},
	"generation": {"max_tokens": 200},
	"output": {"path": "out/states.txt", "overwrite": true},
	"budget": {"mode": "strict", "counter": "tiktoken"},
	"log": {"level": "debug"},
}`

func TestLoad_FormatsDecodeEquivalently(t *testing.T) {
	t.Setenv("STATEFOLD_API_KEY", "")

	files := map[string]string{
		"run.yaml":  yamlConfig,
		"run.toml":  tomlConfig,
		"run.jsonc": jsoncConfig,
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))

			cfg, err := Load(fs, name)
			require.NoError(t, err)

			assert.Equal(t, Window{Size: 300, Overlap: 50}, cfg.Window)
			assert.Equal(t, "mock", cfg.Provider.Provider)
			assert.Equal(t, 90*time.Second, cfg.Provider.Timeout)
			assert.Equal(t, "sk-test", cfg.Provider.APIKey)
			assert.Equal(t, []string{"a", "b"}, cfg.Provider.GetStringSliceOption("responses"))
			assert.Equal(t, 200, cfg.Generation.MaxTokens)
			assert.Equal(t, 1.0, cfg.Generation.TopP, "unset keys keep defaults")
			assert.Equal(t, Output{Path: "out/states.txt", Overwrite: true}, cfg.Output)
			assert.Equal(t, fold.BudgetStrict, cfg.Budget.Mode)
			assert.Equal(t, CounterTiktoken, cfg.Budget.Counter)
			assert.Equal(t, "debug", cfg.Log.Level)
			assert.Equal(t, "data/network_data.txt", cfg.Inputs.Document)
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load(afero.NewMemMapFs(), "")
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.Window.Size)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "nope.yaml")
	assert.ErrorIs(t, err, statefold.ErrIO)
}

func TestDecode_UnknownKeys(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		data   string
	}{
		{"yaml", FormatYAML, "windw:\n  size: 3\n"},
		{"toml", FormatTOML, "[windw]\nsize = 3\n"},
		{"json", FormatJSON, `{"windw": {"size": 3}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Decode(Default(), []byte(tt.data), tt.format)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestDecode_JSONInvalid(t *testing.T) {
	err := Decode(Default(), []byte(`{"window": {"size": 3}`), FormatJSON)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestDecode_JSONDurationString(t *testing.T) {
	cfg := Default()
	require.NoError(t, Decode(cfg, []byte(`{"provider": {"timeout": "2m30s"}}`), FormatJSON))
	assert.Equal(t, 150*time.Second, cfg.Provider.Timeout)
}

func TestDecode_EmptyDocument(t *testing.T) {
	for _, format := range []Format{FormatYAML, FormatTOML, FormatJSON} {
		cfg := Default()
		assert.NoError(t, Decode(cfg, nil, format), format)
		assert.Equal(t, Default(), cfg)
	}
}

func TestDecode_UnsupportedFormat(t *testing.T) {
	assert.ErrorIs(t, Decode(Default(), []byte("x"), "ini"), ErrInvalidConfig)
}

func TestLoadFromEnv_OverridesFile(t *testing.T) {
	cfg := Default()
	require.NoError(t, Decode(cfg, []byte(yamlConfig), FormatYAML))

	cfg.loadFromLookup(lookupFrom(map[string]string{
		"STATEFOLD_WINDOW_SIZE":    "120",
		"STATEFOLD_WINDOW_OVERLAP": "20",
		"STATEFOLD_MAX_TOKENS":     "64",
		"STATEFOLD_OUTPUT":         "elsewhere.txt",
		"STATEFOLD_OVERWRITE":      "false",
		"STATEFOLD_BUDGET_MODE":    "off",
		"STATEFOLD_LOG_LEVEL":      "warn",
		"STATEFOLD_LOG_JSON":       "true",
		"STATEFOLD_PROVIDER":       "openai",
		"OPENAI_API_KEY":           "sk-env",
	}))

	assert.Equal(t, Window{Size: 120, Overlap: 20}, cfg.Window)
	assert.Equal(t, 64, cfg.Generation.MaxTokens)
	assert.Equal(t, Output{Path: "elsewhere.txt"}, cfg.Output)
	assert.Equal(t, fold.BudgetOff, cfg.Budget.Mode)
	assert.Equal(t, Log{Level: "warn", JSON: true}, cfg.Log)
	assert.Equal(t, "openai", cfg.Provider.Provider)
	assert.Equal(t, "sk-env", cfg.Provider.APIKey)
}

func TestLoadFromEnv_BadNumbersIgnored(t *testing.T) {
	cfg := Default()
	cfg.loadFromLookup(lookupFrom(map[string]string{"STATEFOLD_WINDOW_SIZE": "big"}))
	assert.Equal(t, 1000, cfg.Window.Size)
}

func TestLoadFromEnv_Process(t *testing.T) {
	t.Setenv("STATEFOLD_WINDOW_OVERLAP", "10")

	cfg, err := Load(afero.NewMemMapFs(), "")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Window.Overlap)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("STATEFOLD_DOTENV_PROBE=loaded\n"), 0o644))

	// Registered so the variable is restored after the test.
	t.Setenv("STATEFOLD_DOTENV_PROBE", "")
	require.NoError(t, os.Unsetenv("STATEFOLD_DOTENV_PROBE"))

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), path))
	assert.Equal(t, "loaded", os.Getenv("STATEFOLD_DOTENV_PROBE"))
}

func TestLoadDotEnv_ExistingWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("STATEFOLD_DOTENV_PROBE=fromfile\n"), 0o644))
	t.Setenv("STATEFOLD_DOTENV_PROBE", "fromshell")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "fromshell", os.Getenv("STATEFOLD_DOTENV_PROBE"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		target error
	}{
		{"overlap equals size", func(c *Config) { c.Window.Overlap = c.Window.Size }, window.ErrInvalidWindowConfig},
		{"zero size", func(c *Config) { c.Window.Size = 0 }, window.ErrInvalidWindowConfig},
		{"no provider", func(c *Config) { c.Provider.Provider = "" }, ErrInvalidConfig},
		{"zero max tokens", func(c *Config) { c.Generation.MaxTokens = 0 }, ErrInvalidConfig},
		{"no output", func(c *Config) { c.Output.Path = "" }, ErrInvalidConfig},
		{"bad budget mode", func(c *Config) { c.Budget.Mode = "loud" }, ErrInvalidConfig},
		{"bad counter", func(c *Config) { c.Budget.Counter = "bpe" }, ErrInvalidConfig},
		{"negative limit", func(c *Config) { c.Budget.Limit = -1 }, ErrInvalidConfig},
		{"bad log level", func(c *Config) { c.Log.Level = "chatty" }, ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestTokenBudget(t *testing.T) {
	cfg := Default()
	b := cfg.TokenBudget()
	require.NotNil(t, b)
	assert.Equal(t, tokens.GetModelLimit(DefaultModel), b.Limit)
	assert.Equal(t, cfg.Generation.MaxTokens, b.Reserved)

	cfg.Budget.Limit = 2048
	cfg.Budget.Reserved = 100
	b = cfg.TokenBudget()
	assert.Equal(t, 2048, b.Limit)
	assert.Equal(t, 100, b.Reserved)

	cfg.Budget.Mode = fold.BudgetOff
	assert.Nil(t, cfg.TokenBudget())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseLevel("trace")
	assert.Error(t, err)
}

func TestSchema(t *testing.T) {
	data, err := Schema()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "statefold run configuration", doc["title"])

	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	for _, key := range []string{"inputs", "window", "provider", "generation", "output", "budget", "log", "layout_file"} {
		assert.Contains(t, props, key)
	}
	assert.Contains(t, string(data), `"strict"`)
	assert.Contains(t, string(data), "duration such as 90s")
}
