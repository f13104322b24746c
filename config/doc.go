// Package config describes a statefold run and loads it from files and the
// environment.
//
// A run is configured in layers, each overriding the one before:
//
//  1. Default(), the conventional prompts/ data/ results/ layout
//  2. a config file: .yaml/.yml, .toml, or .json/.jsonc
//  3. STATEFOLD_* environment variables, optionally seeded from .env files
//
// Example statefold.yaml:
//
//	window:
//	  size: 800
//	  overlap: 200
//	provider:
//	  provider: openai
//	  model: gpt-3.5-turbo-instruct
//	output:
//	  path: results/states.txt
//	  overwrite: true
//	budget:
//	  mode: strict
//	  counter: tiktoken
//
// Schema() returns the JSON Schema of this file format.
package config
