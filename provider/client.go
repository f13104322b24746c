// Package provider defines the completion boundary a fold talks to.
//
// A fold only needs one thing from a model: turn a prompt string into a
// completion string and report how many tokens that cost. Client captures
// exactly that, so the fold can run against OpenAI, an OpenAI-compatible
// local server, or a scripted mock without changing.
//
// # Usage
//
// Create a client using the registry:
//
//	client, err := provider.New("openai", provider.Config{
//	    Model:  "gpt-3.5-turbo-instruct",
//	    APIKey: key,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	resp, err := client.Complete(ctx, provider.NewRequest(prompt, provider.DefaultGeneration()))
//
// Credentials are always passed in through Config. Nothing in this package
// or its implementations reads process-wide state while completing.
//
// # Available Providers
//
//   - "openai": OpenAI completions or chat completions, or any OpenAI-compatible server
//   - "mock": scripted responses for tests and dry runs
//
// Import github.com/randalmurphal/statefold/providers to register them all.
package provider

import "context"

// Client turns prompts into completions.
// Implementations must be safe for concurrent use.
type Client interface {
	// Complete sends a request and returns the full response.
	// The context controls cancellation and timeouts.
	Complete(ctx context.Context, req Request) (*Response, error)

	// Provider returns the provider name (e.g., "openai", "mock").
	Provider() string

	// Close releases any resources held by the client.
	Close() error
}
