package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mock-interview/internal/domain"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	session_id      TEXT PRIMARY KEY,
	job_description TEXT NOT NULL,
	questions       TEXT NOT NULL,
	created_at      TEXT NOT NULL,
	scorecard       TEXT,
	completed_at    TEXT
);
`

// SQLiteStore keeps sessions in a single-file database. The scorecard is
// stored as one JSON column so it is always written whole.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates the schema on db if needed. db must be opened with
// the "sqlite" driver.
func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, fmt.Errorf("sqlite: create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (r *SQLiteStore) Create(ctx context.Context, s *domain.Session) error {
	questions, err := json.Marshal(s.Questions)
	if err != nil {
		return err
	}
	card, completedAt, err := encodeScorecard(s.Scorecard)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO sessions (session_id, job_description, questions, created_at, scorecard, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (session_id) DO UPDATE SET job_description = excluded.job_description, questions = excluded.questions,
			created_at = excluded.created_at, scorecard = excluded.scorecard, completed_at = excluded.completed_at`,
		s.ID, s.JobDescription, string(questions), s.CreatedAt.UTC().Format(time.RFC3339Nano), card, completedAt)
	if err != nil {
		return fmt.Errorf("sqlite: insert session: %w", err)
	}
	return nil
}

func (r *SQLiteStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	var (
		s         domain.Session
		questions string
		createdAt string
		card      sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT session_id, job_description, questions, created_at, scorecard FROM sessions WHERE session_id = ?`, id).
		Scan(&s.ID, &s.JobDescription, &questions, &createdAt, &card)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: select session: %w", err)
	}

	if err := json.Unmarshal([]byte(questions), &s.Questions); err != nil {
		return nil, fmt.Errorf("sqlite: decode questions: %w", err)
	}
	if s.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("sqlite: parse created_at: %w", err)
	}
	if card.Valid {
		var sc domain.Scorecard
		if err := json.Unmarshal([]byte(card.String), &sc); err != nil {
			return nil, fmt.Errorf("sqlite: decode scorecard: %w", err)
		}
		s.Scorecard = &sc
	}
	return &s, nil
}

func (r *SQLiteStore) Update(ctx context.Context, id string, patch domain.SessionPatch) error {
	if patch.Scorecard == nil {
		var one int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE session_id = ?`, id).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	card, completedAt, err := encodeScorecard(patch.Scorecard)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `UPDATE sessions SET scorecard = ?, completed_at = ? WHERE session_id = ?`,
		card, completedAt, id)
	if err != nil {
		return fmt.Errorf("sqlite: update session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func encodeScorecard(c *domain.Scorecard) (sql.NullString, sql.NullString, error) {
	if c == nil {
		return sql.NullString{}, sql.NullString{}, nil
	}
	b, err := json.Marshal(c)
	if err != nil {
		return sql.NullString{}, sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true},
		sql.NullString{String: c.CompletedAt.UTC().Format(time.RFC3339Nano), Valid: true}, nil
}
