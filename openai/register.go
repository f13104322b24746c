package openai

import (
	"fmt"

	"github.com/randalmurphal/statefold/provider"
)

func init() {
	provider.Register(providerName, newFromProviderConfig)
}

// newFromProviderConfig creates a Client from a provider.Config.
// This is the factory function registered with the provider registry.
// A key is required for the OpenAI API; with a BaseURL set it is optional,
// for local servers that do not authenticate.
func newFromProviderConfig(cfg provider.Config) (provider.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: set %sAPI_KEY or OPENAI_API_KEY", provider.ErrCredentialsNotFound, provider.EnvPrefix)
	}

	oaCfg := DefaultConfig()
	oaCfg.APIKey = cfg.APIKey
	oaCfg.BaseURL = cfg.BaseURL
	oaCfg.Organization = cfg.Organization
	oaCfg.RequestTimeout = cfg.Timeout
	if cfg.Model != "" {
		oaCfg.Model = cfg.Model
	}
	if endpoint := cfg.GetStringOption("endpoint", ""); endpoint != "" {
		oaCfg.Endpoint = Endpoint(endpoint)
	}

	if err := oaCfg.Validate(); err != nil {
		return nil, err
	}
	return NewClientWithConfig(oaCfg), nil
}
