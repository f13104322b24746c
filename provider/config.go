package provider

import (
	"fmt"
	"os"
	"time"
)

// EnvPrefix prefixes every environment variable LoadFromEnv reads.
const EnvPrefix = "STATEFOLD_"

// Config holds configuration for creating a provider client.
// Common fields apply to all providers; use Options for provider-specific settings.
type Config struct {
	// Provider is the name of the provider to use.
	// Required. Values: "openai", "mock"
	Provider string `json:"provider" yaml:"provider" toml:"provider"`

	// Model is the model to use (provider-specific name).
	// Empty uses the provider default.
	Model string `json:"model,omitempty" yaml:"model" toml:"model"`

	// BaseURL overrides the API endpoint, for OpenAI-compatible servers.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url" toml:"base_url"`

	// APIKey authenticates requests. Supply it here; providers never read
	// it from the environment on their own.
	APIKey string `json:"-" yaml:"api_key" toml:"api_key"`

	// Organization is sent as the OpenAI organization header when set.
	Organization string `json:"organization,omitempty" yaml:"organization" toml:"organization"`

	// Timeout is the maximum duration of one completion request.
	// 0 means no timeout beyond the caller's context.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout" toml:"timeout" jsonschema:"description=duration such as 90s or 2m"`

	// Options holds provider-specific configuration.
	//
	// OpenAI:
	//   - "endpoint": "completions" (default) | "chat"
	//
	// Mock:
	//   - "responses": []string returned in order, cycling
	//   - "fail_after": int, fail every call after this many successes
	Options map[string]any `json:"options,omitempty" yaml:"options" toml:"options"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "openai",
		Timeout:  2 * time.Minute,
	}
}

// LoadFromEnv populates config fields from environment variables.
// Environment variables take precedence over existing values.
//
// Supported variables:
//   - STATEFOLD_PROVIDER: Provider name
//   - STATEFOLD_MODEL: Model name
//   - STATEFOLD_BASE_URL: API endpoint
//   - STATEFOLD_API_KEY: API key, falling back to OPENAI_API_KEY
//   - STATEFOLD_ORGANIZATION: OpenAI organization
//   - STATEFOLD_TIMEOUT: Request timeout (e.g., "90s")
func (c *Config) LoadFromEnv() {
	c.LoadFromEnvLookup(os.LookupEnv)
}

// LoadFromEnvLookup is LoadFromEnv reading variables through lookup.
func (c *Config) LoadFromEnvLookup(lookup func(string) (string, bool)) {
	get := func(name string) string {
		v, _ := lookup(EnvPrefix + name)
		return v
	}

	if v := get("PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := get("MODEL"); v != "" {
		c.Model = v
	}
	if v := get("BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := get("API_KEY"); v != "" {
		c.APIKey = v
	} else if v, ok := lookup("OPENAI_API_KEY"); ok && v != "" && c.APIKey == "" {
		c.APIKey = v
	}
	if v := get("ORGANIZATION"); v != "" {
		c.Organization = v
	}
	if v := get("TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		}
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0, got %v", c.Timeout)
	}
	return nil
}

// WithProvider returns a copy of the config with the specified provider.
func (c Config) WithProvider(provider string) Config {
	c.Provider = provider
	return c
}

// WithModel returns a copy of the config with the specified model.
func (c Config) WithModel(model string) Config {
	c.Model = model
	return c
}

// WithAPIKey returns a copy of the config with the specified API key.
func (c Config) WithAPIKey(key string) Config {
	c.APIKey = key
	return c
}

// WithOption returns a copy of the config with the specified option set.
func (c Config) WithOption(key string, value any) Config {
	opts := make(map[string]any, len(c.Options)+1)
	for k, v := range c.Options {
		opts[k] = v
	}
	opts[key] = value
	c.Options = opts
	return c
}

// GetStringOption retrieves a string option, returning defaultVal if not set.
func (c Config) GetStringOption(key, defaultVal string) string {
	if v, ok := c.Options[key].(string); ok {
		return v
	}
	return defaultVal
}

// GetBoolOption retrieves a bool option, returning defaultVal if not set.
func (c Config) GetBoolOption(key string, defaultVal bool) bool {
	if v, ok := c.Options[key].(bool); ok {
		return v
	}
	return defaultVal
}

// GetIntOption retrieves an int option, returning defaultVal if not set.
// Accepts the integer types yaml, toml and JSON decoding produce.
func (c Config) GetIntOption(key string, defaultVal int) int {
	switch v := c.Options[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return defaultVal
}

// GetStringSliceOption retrieves a string slice option, returning nil if not set.
// Handles both []string and []any (from yaml, toml and JSON decoding).
func (c Config) GetStringSliceOption(key string) []string {
	switch v := c.Options[key].(type) {
	case []string:
		return v
	case []any:
		result := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		return result
	}
	return nil
}
