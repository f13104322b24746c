// Package statefold folds a long document into a bounded state string by
// repeatedly asking an LLM to merge overlapping word windows of the document
// into the current state.
//
// The pieces are importable on their own:
//
//   - window: split a document into overlapping fixed-size word windows
//   - prompt: assemble the per-window prompt from instructions, example, state and window
//   - provider: the completion client interface, registry and error taxonomy
//   - openai: OpenAI (and OpenAI-compatible) completion provider
//   - mock: scripted provider for tests and dry runs
//   - tokens: token estimation and prompt budget checks
//   - fold: the sequential state fold
//   - statelog: append-only state log, re-seeding and tailing
//   - input: loading the static prompt and document files
//   - config: run configuration from yaml, toml or jsonc files and the environment
//
// # Quick Start
//
//	words := window.Words(document)
//	windows, err := window.Split(words, 1000, 250)
//	if err != nil {
//	    return err
//	}
//
//	client, _ := provider.New("openai", provider.Config{APIKey: key})
//	builder, _ := prompt.NewBuilder(instructions, example)
//	folder := fold.New(client, builder, fold.WithSink(statelog.NewFileSink(afero.NewOsFs(), "results/states.txt")))
//	result, err := folder.Run(ctx, windows, initialState)
//
// A run is strictly sequential: window i+1 is always prompted with the state
// produced by window i.
package statefold
