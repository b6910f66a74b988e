package ai

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"mock-interview/internal/domain"

	"github.com/sashabaranov/go-openai"
)

// AudioFilename is the name every clip is uploaded under. Browsers record
// voice answers as webm/opus.
const AudioFilename = "audio.webm"

// OpenAITranscriber sends clips to the Whisper transcription endpoint in one
// fixed language.
type OpenAITranscriber struct {
	client   *openai.Client
	model    string
	language string
}

func NewOpenAITranscriber(client *openai.Client, model, language string) *OpenAITranscriber {
	if model == "" {
		model = openai.Whisper1
	}
	return &OpenAITranscriber{client: client, model: model, language: language}
}

func (t *OpenAITranscriber) Transcribe(ctx context.Context, audio io.Reader) (string, error) {
	log := slog.With("component", "stt", "operation", "transcribe", "model", t.model, "language", t.language)
	start := time.Now()

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: AudioFilename,
		Reader:   audio,
		Language: t.language,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		log.ErrorContext(ctx, "Transcription failed", "error", err, "duration_ms", time.Since(start).Milliseconds(), "status", apiStatus(err))
		return "", fmt.Errorf("%w: transcription: %v", domain.ErrUpstream, err)
	}

	text := strings.TrimSpace(resp.Text)
	log.InfoContext(ctx, "Transcription completed", "duration_ms", time.Since(start).Milliseconds(), "chars", len(text))

	if text == "" {
		return "", fmt.Errorf("%w: empty transcript", domain.ErrMalformedUpstreamResponse)
	}
	return text, nil
}
