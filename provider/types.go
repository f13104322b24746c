package provider

import "time"

// Generation holds the sampling parameters sent with every request.
type Generation struct {
	// MaxTokens bounds the completion length.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" toml:"max_tokens"`

	// Temperature controls randomness (0 = deterministic).
	Temperature float64 `json:"temperature" yaml:"temperature" toml:"temperature"`

	// TopP is the nucleus sampling mass (1 = no truncation).
	TopP float64 `json:"top_p" yaml:"top_p" toml:"top_p"`

	// FrequencyPenalty penalizes tokens by how often they already appeared.
	FrequencyPenalty float64 `json:"frequency_penalty" yaml:"frequency_penalty" toml:"frequency_penalty"`

	// PresencePenalty penalizes tokens that already appeared at all.
	PresencePenalty float64 `json:"presence_penalty" yaml:"presence_penalty" toml:"presence_penalty"`
}

// DefaultGeneration returns deterministic sampling: temperature 0, top-p 1,
// no penalties and a 1000 token completion bound.
func DefaultGeneration() Generation {
	return Generation{
		MaxTokens:   1000,
		Temperature: 0,
		TopP:        1,
	}
}

// Request configures a completion call.
type Request struct {
	// Prompt is the full prompt text.
	Prompt string `json:"prompt"`

	// Model overrides the client's configured model. Empty uses the client default.
	Model string `json:"model,omitempty"`

	Generation
}

// NewRequest creates a request for prompt with the given sampling parameters.
func NewRequest(prompt string, gen Generation) Request {
	return Request{Prompt: prompt, Generation: gen}
}

// Response is the output of a completion call.
type Response struct {
	// Content is the generated text, exactly as the provider returned it.
	Content string `json:"content"`

	// Usage tracks token consumption for this request.
	Usage TokenUsage `json:"usage"`

	// Model is the model that actually served the request.
	Model string `json:"model"`

	// FinishReason indicates why the model stopped generating.
	// Common values: "stop", "length".
	FinishReason string `json:"finish_reason"`

	// Duration is the time taken for the completion.
	Duration time.Duration `json:"duration"`
}

// TokenUsage tracks token consumption.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// Add combines token usage from another TokenUsage.
func (u *TokenUsage) Add(other TokenUsage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.TotalTokens += other.TotalTokens
}

// Total returns TotalTokens, or input plus output when the provider did not
// report a total.
func (u TokenUsage) Total() int {
	if u.TotalTokens > 0 {
		return u.TotalTokens
	}
	return u.InputTokens + u.OutputTokens
}
