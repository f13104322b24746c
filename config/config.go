package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/randalmurphal/statefold/fold"
	"github.com/randalmurphal/statefold/input"
	"github.com/randalmurphal/statefold/provider"
	"github.com/randalmurphal/statefold/tokens"
	"github.com/randalmurphal/statefold/window"
)

// ErrInvalidConfig indicates a config file or value that cannot be used.
var ErrInvalidConfig = errors.New("invalid config")

// Token counters selectable in Budget.Counter.
const (
	CounterEstimate = "estimate"
	CounterTiktoken = "tiktoken"
)

// DefaultModel is the completion model runs use unless configured otherwise.
const DefaultModel = "gpt-3.5-turbo-instruct"

// Config is the full description of a run.
type Config struct {
	Inputs     input.Paths         `json:"inputs" yaml:"inputs" toml:"inputs"`
	Window     Window              `json:"window" yaml:"window" toml:"window"`
	Provider   provider.Config     `json:"provider" yaml:"provider" toml:"provider"`
	Generation provider.Generation `json:"generation" yaml:"generation" toml:"generation"`
	Output     Output              `json:"output" yaml:"output" toml:"output"`
	Budget     Budget              `json:"budget" yaml:"budget" toml:"budget"`
	Log        Log                 `json:"log" yaml:"log" toml:"log"`

	// LayoutFile holds a custom prompt layout. Empty uses the default layout.
	LayoutFile string `json:"layout_file,omitempty" yaml:"layout_file" toml:"layout_file"`
}

// Window sets how the document is split.
type Window struct {
	Size    int `json:"size" yaml:"size" toml:"size" jsonschema:"minimum=1"`
	Overlap int `json:"overlap" yaml:"overlap" toml:"overlap" jsonschema:"minimum=0"`
}

// Output sets where states are logged.
type Output struct {
	Path string `json:"path" yaml:"path" toml:"path"`

	// Overwrite truncates the log on the run's first write instead of appending.
	Overwrite bool `json:"overwrite" yaml:"overwrite" toml:"overwrite"`

	// SeedFromLog starts the fold from the log's last state instead of the
	// initial state file.
	SeedFromLog bool `json:"seed_from_log" yaml:"seed_from_log" toml:"seed_from_log"`
}

// Budget sets the preflight prompt size check.
type Budget struct {
	Mode    fold.BudgetMode `json:"mode" yaml:"mode" toml:"mode" jsonschema:"enum=off,enum=warn,enum=strict"`
	Counter string          `json:"counter" yaml:"counter" toml:"counter" jsonschema:"enum=estimate,enum=tiktoken"`

	// Limit is the context window. 0 looks it up from the model name.
	Limit int `json:"limit,omitempty" yaml:"limit" toml:"limit"`

	// Reserved is the room kept for the completion. 0 uses the generation max tokens.
	Reserved int `json:"reserved,omitempty" yaml:"reserved" toml:"reserved"`
}

// Log sets diagnostics output.
type Log struct {
	Level string `json:"level" yaml:"level" toml:"level" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
	JSON  bool   `json:"json" yaml:"json" toml:"json"`
}

// Default returns the configuration of a run laid out the conventional way.
func Default() *Config {
	pc := provider.DefaultConfig()
	pc.Model = DefaultModel

	return &Config{
		Inputs:     input.DefaultPaths(),
		Window:     Window{Size: 1000, Overlap: 250},
		Provider:   pc,
		Generation: provider.DefaultGeneration(),
		Output:     Output{Path: "results/states.txt"},
		Budget:     Budget{Mode: fold.BudgetWarn, Counter: CounterEstimate},
		Log:        Log{Level: "info"},
	}
}

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	if err := window.Validate(c.Window.Size, c.Window.Overlap); err != nil {
		return fmt.Errorf("%w: window: %w", ErrInvalidConfig, err)
	}
	if err := c.Provider.Validate(); err != nil {
		return fmt.Errorf("%w: provider: %w", ErrInvalidConfig, err)
	}
	if c.Generation.MaxTokens <= 0 {
		return fmt.Errorf("%w: generation: max_tokens must be > 0, got %d", ErrInvalidConfig, c.Generation.MaxTokens)
	}
	if c.Output.Path == "" {
		return fmt.Errorf("%w: output: path is required", ErrInvalidConfig)
	}

	switch c.Budget.Mode {
	case fold.BudgetOff, fold.BudgetWarn, fold.BudgetStrict:
	default:
		return fmt.Errorf("%w: budget: mode %q must be off, warn or strict", ErrInvalidConfig, c.Budget.Mode)
	}
	switch c.Budget.Counter {
	case CounterEstimate, CounterTiktoken:
	default:
		return fmt.Errorf("%w: budget: counter %q must be estimate or tiktoken", ErrInvalidConfig, c.Budget.Counter)
	}
	if c.Budget.Limit < 0 || c.Budget.Reserved < 0 {
		return fmt.Errorf("%w: budget: limit and reserved must be >= 0", ErrInvalidConfig)
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log: %w", ErrInvalidConfig, err)
	}
	return nil
}

// TokenBudget builds the budget the fold checks prompts against,
// or nil when budgeting is off.
func (c *Config) TokenBudget() *tokens.Budget {
	if c.Budget.Mode == fold.BudgetOff {
		return nil
	}

	model := c.Provider.Model
	if model == "" {
		model = DefaultModel
	}
	limit := c.Budget.Limit
	if limit == 0 {
		limit = tokens.GetModelLimit(model)
	}
	reserved := c.Budget.Reserved
	if reserved == 0 {
		reserved = c.Generation.MaxTokens
	}

	var counter tokens.Counter = tokens.NewEstimatingCounter()
	if c.Budget.Counter == CounterTiktoken {
		counter = tokens.NewTiktokenCounter(model)
	}
	return tokens.NewBudgetWithCounter(limit, reserved, counter)
}

// ParseLevel maps a level name onto a slog level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
