// Package genai calls a chat-completions endpoint to answer prompts. The
// default target is Gemini's OpenAI-compatible API.
package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	coreconfig "github.com/m3rciful/cityexplorer/core/config"
	"github.com/m3rciful/cityexplorer/core/logger"
)

var (
	// ErrMissingAPIKey is returned by New without an API key.
	ErrMissingAPIKey = errors.New("genai: api key required")
	// ErrEmptyResponse means the service answered without any text.
	ErrEmptyResponse = errors.New("genai: empty response")
)

// chatCompletions is the slice of the SDK this package uses.
type chatCompletions interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Client generates text with fixed sampling parameters.
type Client struct {
	completions chatCompletions
	model       string
	temperature float64
	topP        float64
	topK        int
	maxTokens   int
	timeout     time.Duration
}

// Option customizes a Client.
type Option func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
}

// WithHTTPClient overrides the HTTP client used by the SDK.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = c }
}

// New builds a Client from normalized generation settings. The SDK's own
// retries are disabled: a failed call surfaces to the caller once.
func New(cfg coreconfig.GenerationConfig, opts ...Option) (*Client, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return nil, ErrMissingAPIKey
	}
	var co clientOptions
	for _, opt := range opts {
		opt(&co)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(key),
		option.WithMaxRetries(0),
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(base))
	}
	if co.httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(co.httpClient))
	}
	client := openai.NewClient(reqOpts...)
	return newClient(&client.Chat.Completions, cfg), nil
}

func newClient(cc chatCompletions, cfg coreconfig.GenerationConfig) *Client {
	return &Client{
		completions: cc,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		topP:        cfg.TopP,
		topK:        cfg.TopK,
		maxTokens:   cfg.MaxOutputTokens,
		timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
	}
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// Generate sends prompt as a single user message and returns the first
// choice's text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.completions.New(ctx, c.params(prompt), c.requestOptions()...)
	took := logger.Took(start)
	if err != nil {
		logger.Warn(ctx, "genai", "generate.fail",
			slog.String("model", c.model),
			slog.Duration("duration", took),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.Bool("retryable", retryable(err)),
		)
		return "", fmt.Errorf("genai: generate: %w", err)
	}

	text := firstChoice(resp)
	if text == "" {
		logger.Warn(ctx, "genai", "generate.empty",
			slog.String("model", c.model),
			slog.Duration("duration", took),
		)
		return "", ErrEmptyResponse
	}
	logger.Debug(ctx, "genai", "generate.ok",
		slog.String("model", c.model),
		slog.Duration("duration", took),
		slog.Int("query_len", len(prompt)),
		slog.Int("response_len", len(text)),
	)
	return text, nil
}

func (c *Client) params(prompt string) openai.ChatCompletionNewParams {
	p := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
	}
	if c.temperature > 0 {
		p.Temperature = openai.Float(c.temperature)
	}
	if c.topP > 0 {
		p.TopP = openai.Float(c.topP)
	}
	if c.maxTokens > 0 {
		p.MaxCompletionTokens = openai.Int(int64(c.maxTokens))
	}
	return p
}

// requestOptions carries top_k, which the OpenAI schema lacks but Gemini's
// compatible endpoint accepts.
func (c *Client) requestOptions() []option.RequestOption {
	if c.topK <= 0 {
		return nil
	}
	return []option.RequestOption{option.WithJSONSet("top_k", c.topK)}
}

func firstChoice(resp *openai.ChatCompletion) string {
	if resp == nil {
		return ""
	}
	for _, ch := range resp.Choices {
		if text := strings.TrimSpace(ch.Message.Content); text != "" {
			return text
		}
	}
	return ""
}

func retryable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= http.StatusInternalServerError
	}
	return false
}
