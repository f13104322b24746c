package mock

import (
	"github.com/randalmurphal/statefold/provider"
	"github.com/randalmurphal/statefold/tokens"
)

func init() {
	provider.Register("mock", newFromProviderConfig)
}

// newFromProviderConfig builds a scripted client from provider options.
func newFromProviderConfig(cfg provider.Config) (provider.Client, error) {
	m := &MockClient{counter: tokens.NewEstimatingCounter()}
	m.WithFailAfter(cfg.GetIntOption("fail_after", -1))
	if responses := cfg.GetStringSliceOption("responses"); len(responses) > 0 {
		m.responses = responses
	}
	return m, nil
}
