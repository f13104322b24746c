package tokens

import (
	"strings"
	"unicode/utf8"
)

// DefaultCharsPerToken is the default character-to-token ratio.
// Approximately 4 characters equals 1 token for English text.
const DefaultCharsPerToken = 4.0

// Counter counts tokens in text.
type Counter interface {
	// Count returns the number of tokens in the given text.
	Count(text string) int

	// FitsInLimit returns true if the text fits within the token limit.
	FitsInLimit(text string, limit int) bool
}

// EstimatingCounter uses a character-to-token ratio for estimation.
type EstimatingCounter struct {
	// CharsPerToken is the average characters per token.
	// Default is 4, which works well for English text.
	CharsPerToken float64
}

// NewEstimatingCounter creates a token counter with default settings.
func NewEstimatingCounter() *EstimatingCounter {
	return &EstimatingCounter{
		CharsPerToken: DefaultCharsPerToken,
	}
}

// NewEstimatingCounterWithRatio creates a token counter with a custom ratio.
// If charsPerToken is <= 0, the default ratio (4.0) is used.
func NewEstimatingCounterWithRatio(charsPerToken float64) *EstimatingCounter {
	if charsPerToken <= 0 {
		charsPerToken = DefaultCharsPerToken
	}
	return &EstimatingCounter{
		CharsPerToken: charsPerToken,
	}
}

// Count estimates the number of tokens in the given text, rounding to the
// nearest integer. Runes are counted rather than bytes.
func (c *EstimatingCounter) Count(text string) int {
	ratio := c.CharsPerToken
	if ratio <= 0 {
		ratio = DefaultCharsPerToken
	}
	return int(float64(utf8.RuneCountInString(text))/ratio + 0.5)
}

// FitsInLimit returns true if the text fits within the token limit.
func (c *EstimatingCounter) FitsInLimit(text string, limit int) bool {
	return c.Count(text) <= limit
}

// EstimateTokens is a convenience function using the default estimator.
func EstimateTokens(text string) int {
	return NewEstimatingCounter().Count(text)
}

// ModelLimits holds context window sizes, in tokens, for the completion
// models statefold is typically pointed at.
var ModelLimits = map[string]int{
	"gpt-3.5-turbo-instruct": 4096,
	"text-davinci-003":       4097,
	"davinci-002":            16384,
	"babbage-002":            16384,
	"gpt-3.5-turbo":          16385,
	"gpt-4":                  8192,
	"gpt-4-turbo":            128000,
	"gpt-4o":                 128000,
	"gpt-4o-mini":            128000,
	"gpt-4.1":                1047576,
	"gpt-4.1-mini":           1047576,

	// Default fallback
	"default": 8192,
}

// GetModelLimit returns the token limit for a model, or the default if the
// model is unknown. Dated snapshots ("gpt-4o-2024-08-06") match their base
// model.
func GetModelLimit(model string) int {
	if limit, ok := lookupModel(ModelLimits, model); ok {
		return limit
	}
	return ModelLimits["default"]
}

// lookupModel finds model in m, falling back to the longest base name that
// model extends with a "-" suffix.
func lookupModel[T any](m map[string]T, model string) (T, bool) {
	if v, ok := m[model]; ok {
		return v, true
	}
	best := ""
	for name := range m {
		if name != "default" && strings.HasPrefix(model, name+"-") && len(name) > len(best) {
			best = name
		}
	}
	if best == "" {
		var zero T
		return zero, false
	}
	return m[best], true
}
