package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/randalmurphal/statefold/provider"
)

// contextLengthCode is the API error code for prompts over the model window.
const contextLengthCode = "context_length_exceeded"

// mapError wraps an API failure in a provider.Error carrying the matching sentinel.
func mapError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return provider.NewError(providerName, op, fmt.Errorf("%w: %w", provider.ErrTimeout, err), true)
	}
	if errors.Is(err, context.Canceled) {
		return provider.NewError(providerName, op, err, false)
	}
	if errors.Is(err, goopenai.ErrCompletionUnsupportedModel) || errors.Is(err, goopenai.ErrChatCompletionInvalidModel) {
		return provider.NewError(providerName, op, fmt.Errorf("%w: %w", provider.ErrInvalidRequest, err), false)
	}

	status := 0
	var apiErr *goopenai.APIError
	var reqErr *goopenai.RequestError
	switch {
	case errors.As(err, &apiErr):
		if code, _ := apiErr.Code.(string); code == contextLengthCode {
			return provider.NewError(providerName, op, fmt.Errorf("%w: %w", provider.ErrContextTooLong, err), false).
				WithStatus(apiErr.HTTPStatusCode)
		}
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	sentinel := statusSentinel(status)
	if sentinel == nil {
		return provider.NewError(providerName, op, err, false).WithStatus(status)
	}
	return provider.NewError(providerName, op, fmt.Errorf("%w: %w", sentinel, err), provider.IsRetryable(sentinel)).
		WithStatus(status)
}

// statusSentinel maps an HTTP status onto a sentinel. Status 0 is a transport failure.
func statusSentinel(status int) error {
	switch {
	case status == 0:
		return provider.ErrUnavailable
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return provider.ErrUnauthorized
	case status == http.StatusRequestTimeout:
		return provider.ErrTimeout
	case status == http.StatusTooManyRequests:
		return provider.ErrRateLimited
	case status >= 500:
		return provider.ErrUnavailable
	case status >= 400:
		return provider.ErrInvalidRequest
	}
	return nil
}
