package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mock-interview/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatRequest struct {
	Model          string  `json:"model"`
	Temperature    float32 `json:"temperature"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func chatReply(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"model":  "gpt-4o",
		"choices": []map[string]interface{}{{
			"index":         0,
			"message":       map[string]string{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
		"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	})
}

func newFakeOpenAI(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIGeneratorSendsJSONModeRequest(t *testing.T) {
	var got chatRequest
	srv := newFakeOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		chatReply(w, `{"questions": ["q1"]}`)
	})

	gen := NewOpenAIGenerator(NewOpenAIClient("test-key", srv.URL+"/v1", nil), "gpt-4o")
	out, err := gen.Generate(context.Background(), Prompt{
		Operation:   "generate_questions",
		System:      "system text",
		User:        "user text",
		Temperature: 0.8,
	})
	require.NoError(t, err)

	assert.Equal(t, `{"questions": ["q1"]}`, out)
	assert.Equal(t, "gpt-4o", got.Model)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
	assert.InDelta(t, 0.8, got.Temperature, 1e-6)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "system text", got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "user text", got.Messages[1].Content)
}

func TestOpenAIGeneratorEmptyContent(t *testing.T) {
	srv := newFakeOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		chatReply(w, "")
	})

	gen := NewOpenAIGenerator(NewOpenAIClient("k", srv.URL+"/v1", nil), "gpt-4o")
	_, err := gen.Generate(context.Background(), Prompt{Operation: "score_answers", User: "u", Temperature: 0.7})
	assert.ErrorIs(t, err, domain.ErrMalformedUpstreamResponse)
}

func TestOpenAIGeneratorUpstreamError(t *testing.T) {
	calls := 0
	srv := newFakeOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "rate limited", "type": "requests"}}`))
	})

	gen := NewOpenAIGenerator(NewOpenAIClient("k", srv.URL+"/v1", nil), "gpt-4o")
	_, err := gen.Generate(context.Background(), Prompt{User: "u", Temperature: 0.7})
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.Equal(t, 1, calls, "upstream failures are not retried")
}

func TestOpenAITranscriber(t *testing.T) {
	srv := newFakeOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		assert.Equal(t, "whisper-1", r.FormValue("model"))
		assert.Equal(t, "en", r.FormValue("language"))

		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		assert.Equal(t, AudioFilename, hdr.Filename)
		b, _ := io.ReadAll(f)
		assert.Equal(t, "fake-webm-bytes", string(b))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text": "  I led the migration to Go.  "}`))
	})

	tr := NewOpenAITranscriber(NewOpenAIClient("k", srv.URL+"/v1", nil), "", "en")
	text, err := tr.Transcribe(context.Background(), strings.NewReader("fake-webm-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "I led the migration to Go.", text)
}

func TestOpenAITranscriberEmptyTranscript(t *testing.T) {
	srv := newFakeOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text": "   "}`))
	})

	tr := NewOpenAITranscriber(NewOpenAIClient("k", srv.URL+"/v1", nil), "whisper-1", "en")
	_, err := tr.Transcribe(context.Background(), strings.NewReader("x"))
	assert.ErrorIs(t, err, domain.ErrMalformedUpstreamResponse)
}

func TestOpenAITranscriberUpstreamError(t *testing.T) {
	srv := newFakeOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "boom"}}`))
	})

	tr := NewOpenAITranscriber(NewOpenAIClient("k", srv.URL+"/v1", nil), "whisper-1", "en")
	_, err := tr.Transcribe(context.Background(), strings.NewReader("x"))
	assert.ErrorIs(t, err, domain.ErrUpstream)
}
