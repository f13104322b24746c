package prompt

import (
	"fmt"
	"strings"
	"text/template"
)

// DefaultLayout reproduces Assemble's output.
const DefaultLayout = "{{instructions}}\n\nexample:\n{{example}}\n\ncurrent_state:\n{{state}}\n\nprompt:\nupdate_graph({{window}})\n\nnew state:\n"

// Assemble builds the prompt for one window using the default layout.
// It is pure: identical inputs always yield identical output.
func Assemble(instructions, example, state, window string) string {
	var b strings.Builder
	b.Grow(len(instructions) + len(example) + len(state) + len(window) + 64)
	b.WriteString(instructions)
	b.WriteString("\n\nexample:\n")
	b.WriteString(example)
	b.WriteString("\n\ncurrent_state:\n")
	b.WriteString(state)
	b.WriteString("\n\nprompt:\nupdate_graph(")
	b.WriteString(window)
	b.WriteString(")\n\nnew state:\n")
	return b.String()
}

// Builder holds the fixed parts of a run's prompts.
// A Builder is immutable after construction and safe for concurrent use.
type Builder struct {
	instructions string
	example      string
	layout       string
	tmpl         *template.Template
}

// Option configures a Builder.
type Option func(*Builder)

// WithLayout replaces the default layout.
// An empty layout keeps the default.
func WithLayout(layout string) Option {
	return func(b *Builder) {
		if layout != "" {
			b.layout = layout
		}
	}
}

// NewBuilder creates a Builder for the given instructions and example.
// Custom layouts are parsed here so Build never sees a syntax error.
func NewBuilder(instructions, example string, opts ...Option) (*Builder, error) {
	b := &Builder{
		instructions: instructions,
		example:      example,
		layout:       DefaultLayout,
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.layout == DefaultLayout {
		return b, nil
	}

	if strings.TrimSpace(b.layout) == "" {
		return nil, ErrEmpty
	}
	if err := validateLayout(b.layout); err != nil {
		return nil, err
	}

	tmpl, err := template.New("prompt").
		Funcs(helpers()).
		Option("missingkey=error").
		Parse(convertSyntax(b.layout))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	b.tmpl = tmpl
	return b, nil
}

// Layout returns the layout in use.
func (b *Builder) Layout() string {
	return b.layout
}

// Build renders the prompt for the current state and window text.
func (b *Builder) Build(state, window string) (string, error) {
	if b.tmpl == nil {
		return Assemble(b.instructions, b.example, state, window), nil
	}

	vars := map[string]any{
		VarInstructions: b.instructions,
		VarExample:      b.example,
		VarState:        state,
		VarWindow:       window,
	}

	var out strings.Builder
	if err := b.tmpl.Execute(&out, vars); err != nil {
		return "", fmt.Errorf("%w: %w", ErrExecute, err)
	}
	return out.String(), nil
}

// validateLayout checks that a layout shows the model both the state and the
// window, and references nothing else.
func validateLayout(layout string) error {
	vars := extractVariables(layout)
	present := make(map[string]bool, len(vars))
	for _, name := range vars {
		switch name {
		case VarInstructions, VarExample, VarState, VarWindow:
			present[name] = true
		default:
			return fmt.Errorf("%w: unknown variable %q", ErrParse, name)
		}
	}
	for _, name := range requiredVars {
		if !present[name] {
			return fmt.Errorf("%w: %s", ErrVariable, name)
		}
	}
	return nil
}
