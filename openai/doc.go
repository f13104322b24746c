// Package openai provides a provider.Client backed by the OpenAI HTTP API.
//
// The client speaks the legacy completions endpoint by default, which takes a
// single prompt string and honors temperature, top_p, both penalties and
// max_tokens. Set the "endpoint" option to "chat" to send the prompt as one
// user message to the chat completions endpoint instead.
//
// # Usage
//
//	client, err := provider.New("openai", provider.Config{
//	    Model:  "gpt-3.5-turbo-instruct",
//	    APIKey: os.Getenv("OPENAI_API_KEY"),
//	})
//
// Any OpenAI-compatible server works by setting BaseURL.
//
// # Errors
//
// HTTP failures are mapped onto the provider sentinels:
//
//   - 401, 403: provider.ErrUnauthorized
//   - 408 and deadline expiry: provider.ErrTimeout
//   - 429: provider.ErrRateLimited
//   - 5xx: provider.ErrUnavailable
//   - other 4xx: provider.ErrInvalidRequest
//
// A response with no choices yields provider.ErrEmptyResponse.
package openai
