package config

import (
	"os"
	"strconv"

	"github.com/randalmurphal/statefold/fold"
	"github.com/randalmurphal/statefold/provider"
)

// LoadFromEnv applies STATEFOLD_* overrides. Environment variables take
// precedence over file values; unparsable numbers are ignored.
//
// Supported variables, beyond the provider ones:
//   - STATEFOLD_WINDOW_SIZE, STATEFOLD_WINDOW_OVERLAP
//   - STATEFOLD_MAX_TOKENS
//   - STATEFOLD_OUTPUT, STATEFOLD_OVERWRITE
//   - STATEFOLD_BUDGET_MODE, STATEFOLD_BUDGET_COUNTER
//   - STATEFOLD_LOG_LEVEL, STATEFOLD_LOG_JSON
func (c *Config) LoadFromEnv() {
	c.loadFromLookup(os.LookupEnv)
}

func (c *Config) loadFromLookup(lookup func(string) (string, bool)) {
	c.Provider.LoadFromEnvLookup(lookup)

	get := func(name string) string {
		v, _ := lookup(provider.EnvPrefix + name)
		return v
	}
	setInt := func(name string, dst *int) {
		if v := get(name); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	setBool := func(name string, dst *bool) {
		if v := get(name); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				*dst = b
			}
		}
	}

	setInt("WINDOW_SIZE", &c.Window.Size)
	setInt("WINDOW_OVERLAP", &c.Window.Overlap)
	setInt("MAX_TOKENS", &c.Generation.MaxTokens)

	if v := get("OUTPUT"); v != "" {
		c.Output.Path = v
	}
	setBool("OVERWRITE", &c.Output.Overwrite)

	if v := get("BUDGET_MODE"); v != "" {
		c.Budget.Mode = fold.BudgetMode(v)
	}
	if v := get("BUDGET_COUNTER"); v != "" {
		c.Budget.Counter = v
	}

	if v := get("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	setBool("LOG_JSON", &c.Log.JSON)
}
