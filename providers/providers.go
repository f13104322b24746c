// Package providers registers every built-in completion backend.
// Import this package to make all providers available via provider.New():
//
//	import _ "github.com/randalmurphal/statefold/providers"
package providers

import (
	_ "github.com/randalmurphal/statefold/mock"
	_ "github.com/randalmurphal/statefold/openai"
)
