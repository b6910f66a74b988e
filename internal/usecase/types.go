package usecase

import (
	"context"
	"io"

	"mock-interview/internal/domain"
	"mock-interview/pkg/ai"
)

// SessionStore persists interview sessions. Get and Update return
// domain.ErrNotFound for an unknown id; Create overwrites.
type SessionStore interface {
	Create(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Update(ctx context.Context, id string, patch domain.SessionPatch) error
}

// Generator answers a prompt with a JSON document.
type Generator interface {
	Generate(ctx context.Context, p ai.Prompt) (string, error)
}

// Transcriber converts one recorded clip to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader) (string, error)
}

// Renderer abstracts HTML → PDF rendering.
type Renderer interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

// ResultsPage renders the printable results document for a scored session.
type ResultsPage interface {
	RenderResults(s *domain.Session) (string, error)
}
