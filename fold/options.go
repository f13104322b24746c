package fold

import (
	"log/slog"

	"github.com/randalmurphal/statefold/provider"
	"github.com/randalmurphal/statefold/tokens"
)

// Sink receives every new state in window order.
type Sink interface {
	Append(state string) error
}

// BudgetMode controls what happens when a prompt exceeds the token budget.
type BudgetMode string

// Budget modes.
const (
	BudgetOff    BudgetMode = "off"
	BudgetWarn   BudgetMode = "warn"
	BudgetStrict BudgetMode = "strict"
)

// Step describes one completed window.
type Step struct {
	Window int    // Zero-based window index
	State  string // State produced for this window
	Tokens int    // Tokens consumed by this window's call
	Total  int    // Tokens consumed so far
}

// Option configures a Folder.
type Option func(*Folder)

// WithSink appends every new state to s.
func WithSink(s Sink) Option {
	return func(f *Folder) {
		f.sink = s
	}
}

// WithLogger sets the logger for progress diagnostics.
// Default: slog.Default()
func WithLogger(l *slog.Logger) Option {
	return func(f *Folder) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithGeneration sets the sampling parameters sent with every call.
// Default: provider.DefaultGeneration()
func WithGeneration(g provider.Generation) Option {
	return func(f *Folder) {
		f.gen = g
	}
}

// WithModel overrides the client's default model for every call.
func WithModel(model string) Option {
	return func(f *Folder) {
		f.model = model
	}
}

// WithBudget checks every prompt against b before it is sent.
// BudgetWarn logs oversized prompts; BudgetStrict fails the run on them.
func WithBudget(b *tokens.Budget, mode BudgetMode) Option {
	return func(f *Folder) {
		f.budget = b
		f.budgetMode = mode
	}
}

// WithOnStep calls fn after each window's state has been recorded.
func WithOnStep(fn func(Step)) Option {
	return func(f *Folder) {
		f.onStep = fn
	}
}
