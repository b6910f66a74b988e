package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mock-interview/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// PostgresStore keeps sessions in the sessions table and scorecards in the
// results table, one results row per session.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (r *PostgresStore) Create(ctx context.Context, s *domain.Session) error {
	questions, err := json.Marshal(s.Questions)
	if err != nil {
		return err
	}

	return r.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `INSERT INTO sessions (session_id, job_description, questions, answers, created_at, completed_at)
			VALUES ($1,$2,$3,'[]'::jsonb,$4,NULL)
			ON CONFLICT (session_id) DO UPDATE SET job_description = EXCLUDED.job_description, questions = EXCLUDED.questions, answers = EXCLUDED.answers, created_at = EXCLUDED.created_at, completed_at = NULL`,
			s.ID, s.JobDescription, questions, s.CreatedAt); err != nil {
			return fmt.Errorf("upsert session: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM results WHERE session_id = $1`, s.ID); err != nil {
			return fmt.Errorf("clear results: %w", err)
		}
		if s.Scorecard != nil {
			return writeScorecard(ctx, tx, s.ID, s.Scorecard)
		}
		return nil
	})
}

func (r *PostgresStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	var (
		s            domain.Session
		questions    []byte
		answers      []byte
		completedAt  *time.Time
		overallScore *int
		grade        *string
		summary      *string
		strengths    []byte
		weaknesses   []byte
		feedback     []byte
	)

	err := r.pool.QueryRow(ctx, `SELECT s.session_id, s.job_description, s.questions, s.answers, s.created_at, s.completed_at,
			r.overall_score, r.grade, r.summary, r.strengths, r.weaknesses, r.feedback
		FROM sessions s
		LEFT JOIN results r ON r.session_id = s.session_id
		WHERE s.session_id = $1`, id).Scan(
		&s.ID, &s.JobDescription, &questions, &answers, &s.CreatedAt, &completedAt,
		&overallScore, &grade, &summary, &strengths, &weaknesses, &feedback)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select session: %w", err)
	}

	if err := json.Unmarshal(questions, &s.Questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}

	if overallScore != nil && completedAt != nil {
		card := &domain.Scorecard{
			OverallScore: *overallScore,
			Grade:        deref(grade),
			Summary:      deref(summary),
			CompletedAt:  *completedAt,
		}
		for _, f := range []struct {
			raw []byte
			dst interface{}
		}{
			{answers, &card.Answers},
			{strengths, &card.Strengths},
			{weaknesses, &card.Weaknesses},
			{feedback, &card.Feedback},
		} {
			if len(f.raw) == 0 {
				continue
			}
			if err := json.Unmarshal(f.raw, f.dst); err != nil {
				return nil, fmt.Errorf("decode scorecard: %w", err)
			}
		}
		s.Scorecard = card
	}
	return &s, nil
}

func (r *PostgresStore) Update(ctx context.Context, id string, patch domain.SessionPatch) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if patch.Scorecard == nil {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sessions WHERE session_id = $1)`, id).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return domain.ErrNotFound
			}
			return nil
		}

		return writeScorecard(ctx, tx, id, patch.Scorecard)
	})
}

func writeScorecard(ctx context.Context, tx pgx.Tx, sessionID string, c *domain.Scorecard) error {
	answers, err := json.Marshal(c.Answers)
	if err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `UPDATE sessions SET answers = $2, completed_at = $3 WHERE session_id = $1`,
		sessionID, answers, c.CompletedAt)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return upsertScorecard(ctx, tx, sessionID, c)
}

func upsertScorecard(ctx context.Context, tx pgx.Tx, sessionID string, c *domain.Scorecard) error {
	strengths, weaknesses, feedback, err := resultColumns(c)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `INSERT INTO results (id, session_id, overall_score, grade, summary, strengths, weaknesses, feedback, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (session_id) DO UPDATE SET overall_score = EXCLUDED.overall_score, grade = EXCLUDED.grade, summary = EXCLUDED.summary, strengths = EXCLUDED.strengths, weaknesses = EXCLUDED.weaknesses, feedback = EXCLUDED.feedback, created_at = EXCLUDED.created_at`,
		uuid.New(), sessionID, c.OverallScore, c.Grade, c.Summary, strengths, weaknesses, feedback, c.CompletedAt)
	if err != nil {
		return fmt.Errorf("upsert results: %w", err)
	}
	return nil
}

// resultColumns encodes the JSONB columns of a results row. Nil lists are
// stored as empty arrays.
func resultColumns(c *domain.Scorecard) (strengths, weaknesses, feedback []byte, err error) {
	if strengths, err = json.Marshal(nonNil(c.Strengths)); err != nil {
		return nil, nil, nil, fmt.Errorf("encode strengths: %w", err)
	}
	if weaknesses, err = json.Marshal(nonNil(c.Weaknesses)); err != nil {
		return nil, nil, nil, fmt.Errorf("encode weaknesses: %w", err)
	}
	fb := c.Feedback
	if fb == nil {
		fb = []domain.QuestionFeedback{}
	}
	if feedback, err = json.Marshal(fb); err != nil {
		return nil, nil, nil, fmt.Errorf("encode feedback: %w", err)
	}
	return strengths, weaknesses, feedback, nil
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func (r *PostgresStore) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
