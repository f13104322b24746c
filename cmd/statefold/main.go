// Command statefold folds a long document into an evolving state with an
// LLM, one overlapping word window at a time.
//
// Usage:
//
//	statefold run --config statefold.yaml
//	statefold windows --size 800 --overlap 200
//	statefold watch results/states.txt
//	statefold schema > statefold.schema.json
package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"

	_ "github.com/randalmurphal/statefold/providers"
)

func main() {
	if err := newRootCmd(afero.NewOsFs()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "statefold:", err)
		os.Exit(1)
	}
}
