package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"mock-interview/internal/domain"

	"github.com/sashabaranov/go-openai"
)

// Prompt is a single chat-style request that must be answered with a JSON
// object.
type Prompt struct {
	// Operation names the call in logs and metrics, e.g. "generate_questions".
	Operation   string
	System      string
	User        string
	Temperature float32
}

// NewOpenAIClient builds a go-openai client. baseURL may be empty for the
// public API; tests point it at an httptest server.
func NewOpenAIClient(apiKey, baseURL string, httpClient *http.Client) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return openai.NewClientWithConfig(cfg)
}

// OpenAIGenerator requests JSON-mode chat completions.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

func NewOpenAIGenerator(client *openai.Client, model string) *OpenAIGenerator {
	return &OpenAIGenerator{client: client, model: model}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, p Prompt) (string, error) {
	log := slog.With("component", "llm", "provider", "openai", "operation", p.Operation, "model", g.model)
	start := time.Now()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.System},
			{Role: openai.ChatMessageRoleUser, Content: p.User},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: p.Temperature,
	})
	if err != nil {
		log.ErrorContext(ctx, "LLM call failed", "error", err, "duration_ms", time.Since(start).Milliseconds(), "status", apiStatus(err))
		return "", fmt.Errorf("%w: chat completion: %v", domain.ErrUpstream, err)
	}

	log.InfoContext(ctx, "LLM call completed",
		"duration_ms", time.Since(start).Milliseconds(),
		"input_tokens", resp.Usage.PromptTokens,
		"output_tokens", resp.Usage.CompletionTokens,
		"total_tokens", resp.Usage.TotalTokens)

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: no content in completion", domain.ErrMalformedUpstreamResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

func apiStatus(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
