package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mock-interview/internal/domain"
	"mock-interview/internal/metrics"
)

// ExportService turns a scored session into a PDF via a headless browser.
type ExportService struct {
	store    SessionStore
	page     ResultsPage
	renderer Renderer
	metrics  *metrics.Metrics
}

func NewExportService(store SessionStore, page ResultsPage, renderer Renderer, m *metrics.Metrics) *ExportService {
	if m == nil {
		m = metrics.NewMetrics()
	}
	return &ExportService{store: store, page: page, renderer: renderer, metrics: m}
}

func (e *ExportService) ResultsPDF(ctx context.Context, id string) ([]byte, error) {
	session, err := e.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Status() != domain.StatusScored {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotScored, id)
	}

	html, err := e.page.RenderResults(session)
	if err != nil {
		return nil, fmt.Errorf("render results page: %w", err)
	}

	start := time.Now()
	pdf, err := e.renderer.RenderHTMLToPDF(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	e.metrics.IncrementPDFExports()
	slog.InfoContext(ctx, "Results exported", "session_id", id, "bytes", len(pdf), "duration_ms", time.Since(start).Milliseconds())
	return pdf, nil
}
