package openai

import (
	"context"
	"fmt"
	"math"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/randalmurphal/statefold/provider"
)

const providerName = "openai"

// Client implements provider.Client against the OpenAI API.
type Client struct {
	cfg Config
	api *goopenai.Client
}

// NewClient creates a client for the given API key with default settings.
func NewClient(apiKey string) *Client {
	cfg := DefaultConfig()
	cfg.APIKey = apiKey
	return NewClientWithConfig(cfg)
}

// NewClientWithConfig creates a client from cfg. Empty fields take defaults.
func NewClientWithConfig(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = EndpointCompletions
	}

	apiCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Organization != "" {
		apiCfg.OrgID = cfg.Organization
	}

	return &Client{
		cfg: cfg,
		api: goopenai.NewClientWithConfig(apiCfg),
	}
}

// Complete implements provider.Client.
func (c *Client) Complete(ctx context.Context, req provider.Request) (*provider.Response, error) {
	callCtx := ctx
	if c.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.cfg.RequestTimeout)
		defer cancel()
	}

	model := req.Model
	if model == "" {
		model = c.cfg.Model
	}

	start := time.Now()
	var (
		resp *provider.Response
		err  error
	)
	if c.cfg.Endpoint == EndpointChat {
		resp, err = c.chat(callCtx, model, req)
	} else {
		resp, err = c.completion(callCtx, model, req)
	}
	if err != nil {
		return nil, err
	}
	resp.Duration = time.Since(start)
	return resp, nil
}

func (c *Client) completion(ctx context.Context, model string, req provider.Request) (*provider.Response, error) {
	out, err := c.api.CreateCompletion(ctx, goopenai.CompletionRequest{
		Model:            model,
		Prompt:           req.Prompt,
		MaxTokens:        req.MaxTokens,
		Temperature:      temperature(req.Temperature),
		TopP:             float32(req.TopP),
		FrequencyPenalty: float32(req.FrequencyPenalty),
		PresencePenalty:  float32(req.PresencePenalty),
	})
	if err != nil {
		return nil, mapError("complete", err)
	}
	if len(out.Choices) == 0 {
		return nil, provider.NewError(providerName, "complete", provider.ErrEmptyResponse, false)
	}

	choice := out.Choices[0]
	return &provider.Response{
		Content:      choice.Text,
		Model:        out.Model,
		FinishReason: choice.FinishReason,
		Usage:        usage(out.Usage),
	}, nil
}

func (c *Client) chat(ctx context.Context, model string, req provider.Request) (*provider.Response, error) {
	out, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens:        req.MaxTokens,
		Temperature:      temperature(req.Temperature),
		TopP:             float32(req.TopP),
		FrequencyPenalty: float32(req.FrequencyPenalty),
		PresencePenalty:  float32(req.PresencePenalty),
	})
	if err != nil {
		return nil, mapError("chat", err)
	}
	if len(out.Choices) == 0 {
		return nil, provider.NewError(providerName, "chat", provider.ErrEmptyResponse, false)
	}

	choice := out.Choices[0]
	return &provider.Response{
		Content:      choice.Message.Content,
		Model:        out.Model,
		FinishReason: string(choice.FinishReason),
		Usage:        usage(out.Usage),
	}, nil
}

// temperature keeps an explicit 0 on the wire; the request field is
// omitempty and the API default is 1.
func temperature(t float64) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}

func usage(u goopenai.Usage) provider.TokenUsage {
	return provider.TokenUsage{
		InputTokens:  u.PromptTokens,
		OutputTokens: u.CompletionTokens,
		TotalTokens:  u.TotalTokens,
	}
}

// Provider implements provider.Client.
func (c *Client) Provider() string {
	return providerName
}

// Close implements provider.Client. The HTTP transport needs no teardown.
func (c *Client) Close() error {
	return nil
}

// Model returns the default model for requests that leave Model empty.
func (c *Client) Model() string {
	return c.cfg.Model
}

func (c *Client) String() string {
	return fmt.Sprintf("openai(%s, %s)", c.cfg.Model, c.cfg.Endpoint)
}
