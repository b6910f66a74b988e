// Command smoke drives one full interview through the HTTP app against a
// local fake of the OpenAI API. It needs no credentials and no database.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	httpadapter "mock-interview/internal/adapter/http"
	"mock-interview/internal/adapter/repository"
	"mock-interview/internal/config"
	"mock-interview/internal/metrics"
	"mock-interview/internal/usecase"
	"mock-interview/internal/web"
	"mock-interview/pkg/ai"
	"mock-interview/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

func startMockAI() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var content string
		if strings.Contains(string(body), "generate 10 challenging interview questions") {
			qs := make([]string, 10)
			for i := range qs {
				qs[i] = fmt.Sprintf("Smoke question %d: walk me through a hard trade-off you made.", i+1)
			}
			content = mustMarshal(map[string]interface{}{"questions": qs})
		} else {
			fb := make([]map[string]string, 10)
			for i := range fb {
				fb[i] = map[string]string{"question": "", "score": "C", "feedback": "Name the metric you moved."}
			}
			content = mustMarshal(map[string]interface{}{
				"overallScore":     58,
				"grade":            "C",
				"summary":          "Answers stay abstract and never land on outcomes.",
				"strengths":        []string{"Clear structure", "Calm delivery"},
				"weaknesses":       []string{"No numbers", "Skips trade-offs", "Too short"},
				"questionFeedback": fb,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, mustMarshal(map[string]interface{}{
			"id":      "chatcmpl-smoke",
			"object":  "chat.completion",
			"created": time.Now().Unix(),
			"model":   "smoke",
			"choices": []map[string]interface{}{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
		}))
	})
	mux.HandleFunc("/v1/audio/transcriptions", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"text":"I would measure first and then cut the p99."}`)
	})
	return httptest.NewServer(mux)
}

func mustMarshal(v interface{}) string { b, _ := json.Marshal(v); return string(b) }

func call(app *fiber.App, req *http.Request) (map[string]interface{}, error) {
	resp, err := app.Test(req, 10_000)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var out map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%s %s: decode: %w", req.Method, req.URL.Path, err)
	}
	if resp.StatusCode != http.StatusOK {
		return out, fmt.Errorf("%s %s: status %d: %v", req.Method, req.URL.Path, resp.StatusCode, out["error"])
	}
	return out, nil
}

func jsonRequest(method, path string, body interface{}) *http.Request {
	var r io.Reader
	if body != nil {
		r = strings.NewReader(mustMarshal(body))
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func run() error {
	mock := startMockAI()
	defer mock.Close()

	cfg := config.FromEnv()
	client := ai.NewOpenAIClient("smoke-key", mock.URL+"/v1", nil)
	m := metrics.NewMetrics()
	store := repository.NewMemoryStore()
	svc := usecase.NewInterviewService(
		store,
		ai.NewOpenAIGenerator(client, "smoke"),
		ai.NewOpenAITranscriber(client, "whisper-1", "en"),
		cfg.Interview, m,
	).WithTimeout(10 * time.Second)

	views, err := web.NewPages(cfg.Interview.HardQuestionCount)
	if err != nil {
		return err
	}
	app := httpadapter.NewApp(httpadapter.NewHandler(svc, usecase.NewExportService(store, views, nil, m), views), 4<<20)

	started, err := call(app, jsonRequest(http.MethodPost, "/start", map[string]string{
		"jobDescription": "<h1>Staff Engineer</h1><p>Own the <b>payments</b> platform.</p>",
	}))
	if err != nil {
		return err
	}
	id, _ := started["id"].(string)
	fmt.Printf("started session %s with %d questions\n", id, len(started["questions"].([]interface{})))

	if _, err := call(app, jsonRequest(http.MethodGet, "/session/"+id, nil)); err != nil {
		return err
	}

	answers := make([]string, 10)
	for i := range answers {
		if i%3 != 2 {
			answers[i] = fmt.Sprintf("Answer %d with some detail.", i+1)
		}
	}
	if _, err := call(app, jsonRequest(http.MethodPost, "/submit", map[string]interface{}{"sessionId": id, "answers": answers})); err != nil {
		return err
	}

	results, err := call(app, jsonRequest(http.MethodGet, "/results/"+id, nil))
	if err != nil {
		return err
	}
	fmt.Printf("grade %v, score %v\n", results["grade"], results["overallScore"])

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("audio", "answer.webm")
	_, _ = part.Write([]byte("not really webm"))
	_ = mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/transcribe", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	text, err := call(app, req)
	if err != nil {
		return err
	}
	fmt.Printf("transcript: %v\n", text["text"])

	snap := m.GetSnapshot()
	fmt.Printf("upstream calls: %d (%d failed)\n", snap.UpstreamCallsTotal, snap.UpstreamCallsFailed)
	return nil
}

func main() {
	logger.Setup("warn", "text")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- run() }()
	select {
	case err := <-done:
		if err != nil {
			slog.Error("smoke failed", "error", err)
			os.Exit(1)
		}
		fmt.Println("smoke passed")
	case <-ctx.Done():
		slog.Error("smoke timed out")
		os.Exit(1)
	}
}
