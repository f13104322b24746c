package openai

import (
	"fmt"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
)

// Endpoint selects which OpenAI API receives the prompt.
type Endpoint string

// Supported endpoints.
const (
	EndpointCompletions Endpoint = "completions"
	EndpointChat        Endpoint = "chat"
)

// DefaultModel is the instruct model the completions endpoint is used with.
const DefaultModel = goopenai.GPT3Dot5TurboInstruct

// Config holds OpenAI client configuration.
type Config struct {
	// APIKey authenticates requests. Required unless BaseURL points at a
	// server that takes no key.
	APIKey string `json:"-" yaml:"api_key"`

	// Model is the model name.
	// Default: "gpt-3.5-turbo-instruct"
	Model string `json:"model" yaml:"model"`

	// BaseURL overrides the API root, including the version path.
	// Default: "https://api.openai.com/v1"
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Organization is sent as the OpenAI-Organization header when set.
	Organization string `json:"organization" yaml:"organization"`

	// Endpoint selects completions or chat.
	// Default: "completions"
	Endpoint Endpoint `json:"endpoint" yaml:"endpoint"`

	// RequestTimeout bounds each request. 0 leaves only the caller's context.
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Model:    DefaultModel,
		Endpoint: EndpointCompletions,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.APIKey == "" && c.BaseURL == "" {
		return fmt.Errorf("api key is required")
	}
	switch c.Endpoint {
	case EndpointCompletions, EndpointChat:
	default:
		return fmt.Errorf("invalid endpoint %q: must be %q or %q", c.Endpoint, EndpointCompletions, EndpointChat)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must be >= 0, got %v", c.RequestTimeout)
	}
	return nil
}
