package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"mock-interview/internal/config"
	"mock-interview/internal/domain"
	"mock-interview/internal/metrics"
	"mock-interview/internal/model"
	"mock-interview/pkg/ai"
	"mock-interview/pkg/cleaner"
)

// InterviewService runs the session lifecycle: generate questions, read the
// session, score a submission, read results, transcribe voice answers.
type InterviewService struct {
	store       SessionStore
	generator   Generator
	transcriber Transcriber
	cfg         config.InterviewConfig
	timeout     time.Duration
	metrics     *metrics.Metrics

	newID func() (string, error)
	now   func() time.Time
}

func NewInterviewService(store SessionStore, gen Generator, stt Transcriber, cfg config.InterviewConfig, m *metrics.Metrics) *InterviewService {
	if m == nil {
		m = metrics.NewMetrics()
	}
	return &InterviewService{
		store:       store,
		generator:   gen,
		transcriber: stt,
		cfg:         cfg,
		metrics:     m,
		newID:       domain.NewSessionID,
		now:         time.Now,
	}
}

// WithTimeout bounds every upstream call. Zero means no bound beyond the
// caller's context.
func (s *InterviewService) WithTimeout(d time.Duration) *InterviewService {
	s.timeout = d
	return s
}

func (s *InterviewService) Metrics() *metrics.Metrics { return s.metrics }

// Start generates questions for a job description and stores a new session.
func (s *InterviewService) Start(ctx context.Context, jobDescription string) (*domain.Session, error) {
	// The session keeps the text as submitted; only the prompt copy is cleaned.
	if cleaner.JobDescription(jobDescription) == "" {
		return nil, fmt.Errorf("%w: job description is required", domain.ErrValidation)
	}

	raw, err := s.generate(ctx, QuestionsPrompt(jobDescription, s.cfg))
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}
	questions, err := model.DecodeQuestions(raw, s.cfg.QuestionCount)
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}

	id, err := s.newID()
	if err != nil {
		return nil, fmt.Errorf("allocate session id: %w", err)
	}

	session := domain.NewSession(id, jobDescription, questions, s.now().UTC())
	if err := s.store.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.metrics.IncrementSessionsStarted()
	slog.InfoContext(ctx, "Session created", "session_id", id, "questions", len(questions))
	return session, nil
}

// Session returns the stored session or domain.ErrNotFound.
func (s *InterviewService) Session(ctx context.Context, id string) (*domain.Session, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: session id is required", domain.ErrValidation)
	}
	return s.store.Get(ctx, id)
}

// Results is the same lookup as Session; callers project the scorecard.
func (s *InterviewService) Results(ctx context.Context, id string) (*domain.Session, error) {
	return s.Session(ctx, id)
}

// Submit scores answers for a session and replaces its scorecard. On any
// failure the stored session is left as it was.
func (s *InterviewService) Submit(ctx context.Context, id string, answers []string) (*domain.Scorecard, error) {
	if strings.TrimSpace(id) == "" || answers == nil {
		return nil, fmt.Errorf("%w: session id and answers are required", domain.ErrValidation)
	}

	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(answers) != len(session.Questions) {
		slog.WarnContext(ctx, "Answer count does not match question count",
			"session_id", id, "answers", len(answers), "questions", len(session.Questions))
	}

	raw, err := s.generate(ctx, ScoringPrompt(session, answers, s.cfg))
	if err != nil {
		return nil, fmt.Errorf("score answers: %w", err)
	}
	ev, err := model.DecodeEvaluation(raw)
	if err != nil {
		return nil, fmt.Errorf("score answers: %w", err)
	}
	card, err := ev.Scorecard(session.Questions, answers, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("score answers: %w", err)
	}

	if err := s.store.Update(ctx, id, domain.SessionPatch{Scorecard: card}); err != nil {
		return nil, fmt.Errorf("save scorecard: %w", err)
	}

	s.metrics.IncrementSessionsScored()
	slog.InfoContext(ctx, "Session scored", "session_id", id, "grade", card.Grade, "overall_score", card.OverallScore)
	return card, nil
}

// Transcribe forwards one audio clip to the speech-to-text service.
func (s *InterviewService) Transcribe(ctx context.Context, audio io.Reader) (string, error) {
	if audio == nil {
		return "", fmt.Errorf("%w: audio file is required", domain.ErrValidation)
	}

	uctx, cancel := s.upstreamContext(ctx)
	defer cancel()

	text, err := s.transcriber.Transcribe(uctx, audio)
	s.metrics.IncrementUpstreamCall(err == nil)
	if err != nil {
		return "", err
	}
	s.metrics.IncrementTranscriptions()
	return text, nil
}

func (s *InterviewService) generate(ctx context.Context, p ai.Prompt) (string, error) {
	uctx, cancel := s.upstreamContext(ctx)
	defer cancel()

	raw, err := s.generator.Generate(uctx, p)
	s.metrics.IncrementUpstreamCall(err == nil)
	if err != nil && errors.Is(uctx.Err(), context.DeadlineExceeded) && !errors.Is(err, domain.ErrUpstream) {
		err = fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	return raw, err
}

func (s *InterviewService) upstreamContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}
