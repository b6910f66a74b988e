package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"mock-interview/internal/domain"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiGenerator is the alternate generation backend, selected with
// LLM_PROVIDER=gemini.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

func (g *GeminiGenerator) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, p Prompt) (string, error) {
	log := slog.With("component", "llm", "provider", "gemini", "operation", p.Operation, "model", g.model)
	start := time.Now()

	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(p.Temperature)
	model.ResponseMIMEType = "application/json"
	if p.System != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(p.System)},
		}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(p.User))
	if err != nil {
		log.ErrorContext(ctx, "LLM call failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return "", fmt.Errorf("%w: generate content: %v", domain.ErrUpstream, err)
	}

	attrs := []any{"duration_ms", time.Since(start).Milliseconds()}
	if resp.UsageMetadata != nil {
		attrs = append(attrs,
			"input_tokens", resp.UsageMetadata.PromptTokenCount,
			"output_tokens", resp.UsageMetadata.CandidatesTokenCount,
			"total_tokens", resp.UsageMetadata.TotalTokenCount)
	}
	log.InfoContext(ctx, "LLM call completed", attrs...)

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: empty response from Gemini", domain.ErrMalformedUpstreamResponse)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: no text parts in Gemini response", domain.ErrMalformedUpstreamResponse)
	}
	return sb.String(), nil
}
