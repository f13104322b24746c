// Package input loads the four text files a fold run starts from.
package input

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/randalmurphal/statefold"
)

// Paths names the input files of a run.
type Paths struct {
	Instructions string `json:"instructions" yaml:"instructions" toml:"instructions"`
	Example      string `json:"example" yaml:"example" toml:"example"`
	InitialState string `json:"initial_state" yaml:"initial_state" toml:"initial_state"`
	Document     string `json:"document" yaml:"document" toml:"document"`
}

// DefaultPaths returns the conventional layout of a run directory.
func DefaultPaths() Paths {
	return Paths{
		Instructions: "prompts/main_instructions.txt",
		Example:      "prompts/example.txt",
		InitialState: "prompts/initial_state.txt",
		Document:     "data/network_data.txt",
	}
}

// Inputs holds the loaded contents, each trimmed of surrounding whitespace.
type Inputs struct {
	Instructions string
	Example      string
	InitialState string
	Document     string
}

// Load reads every input in p from fs.
// The first file that cannot be read fails the load with an error naming it.
func Load(fs afero.Fs, p Paths) (*Inputs, error) {
	in := &Inputs{}
	files := []struct {
		name string
		path string
		dst  *string
	}{
		{"instructions", p.Instructions, &in.Instructions},
		{"example", p.Example, &in.Example},
		{"initial state", p.InitialState, &in.InitialState},
		{"document", p.Document, &in.Document},
	}

	for _, f := range files {
		text, err := readTrimmed(fs, f.path)
		if err != nil {
			return nil, fmt.Errorf("%w: load %s: %w", statefold.ErrIO, f.name, err)
		}
		*f.dst = text
	}
	return in, nil
}

func readTrimmed(fs afero.Fs, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("no path configured")
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
