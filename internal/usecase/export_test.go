package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"mock-interview/internal/adapter/repository"
	"mock-interview/internal/domain"
	"mock-interview/internal/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPage struct{ rendered []string }

func (p *stubPage) RenderResults(s *domain.Session) (string, error) {
	p.rendered = append(p.rendered, s.ID)
	return "<html>" + s.Scorecard.Grade + "</html>", nil
}

type stubRenderer struct {
	html string
	err  error
}

func (r *stubRenderer) RenderHTMLToPDF(_ context.Context, html string) ([]byte, error) {
	r.html = html
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-1.4"), nil
}

func seededStore(t *testing.T) *repository.MemoryStore {
	t.Helper()
	store := repository.NewMemoryStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Create(ctx, domain.NewSession("created", "jd", []string{"q"}, now)))
	scored := domain.NewSession("scored", "jd", []string{"q"}, now)
	scored.Scorecard = &domain.Scorecard{Grade: "B+", OverallScore: 81, CompletedAt: now}
	require.NoError(t, store.Create(ctx, scored))
	return store
}

func TestResultsPDF(t *testing.T) {
	page, renderer, m := &stubPage{}, &stubRenderer{}, metrics.NewMetrics()
	svc := NewExportService(seededStore(t), page, renderer, m)

	pdf, err := svc.ResultsPDF(context.Background(), "scored")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(pdf))
	assert.Equal(t, "<html>B+</html>", renderer.html)
	assert.EqualValues(t, 1, m.GetSnapshot().PDFExports)
}

func TestResultsPDFRequiresScorecard(t *testing.T) {
	page := &stubPage{}
	svc := NewExportService(seededStore(t), page, &stubRenderer{}, nil)

	_, err := svc.ResultsPDF(context.Background(), "created")
	assert.ErrorIs(t, err, domain.ErrNotScored)
	assert.Empty(t, page.rendered)

	_, err = svc.ResultsPDF(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestResultsPDFRendererFailure(t *testing.T) {
	m := metrics.NewMetrics()
	svc := NewExportService(seededStore(t), &stubPage{}, &stubRenderer{err: errors.New("chrome missing")}, m)

	_, err := svc.ResultsPDF(context.Background(), "scored")
	assert.ErrorContains(t, err, "chrome missing")
	assert.EqualValues(t, 0, m.GetSnapshot().PDFExports)
}
