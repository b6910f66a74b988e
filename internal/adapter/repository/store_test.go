package repository

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mock-interview/internal/domain"
	"mock-interview/internal/infrastructure/migration"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

type store interface {
	Create(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Update(ctx context.Context, id string, patch domain.SessionPatch) error
}

func sampleSession(id string) *domain.Session {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return domain.NewSession(id, "Senior Backend Engineer", []string{"q1", "q2", "q3"}, created)
}

func sampleScorecard(grade string, score int) *domain.Scorecard {
	return &domain.Scorecard{
		Answers: []string{"a1", "", "a3"},
		Feedback: []domain.QuestionFeedback{
			{Question: "q1", Answer: "a1", Score: "B", Feedback: "fine"},
			{Question: "q2", Answer: "", Score: "F", Feedback: "no answer"},
			{Question: "q3", Answer: "a3", Score: "A-", Feedback: "strong"},
		},
		OverallScore: score,
		Grade:        grade,
		Summary:      "Uneven.",
		Strengths:    []string{"s1", "s2", "s3"},
		Weaknesses:   []string{"w1", "w2", "w3"},
		CompletedAt:  time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC),
	}
}

// runStoreSuite checks the contract every session store must honour.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) store) {
	ctx := context.Background()

	t.Run("get unknown id", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get(ctx, "missing000")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("create then get", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Create(ctx, sampleSession("sess000001")))

		got, err := s.Get(ctx, "sess000001")
		require.NoError(t, err)
		assert.Equal(t, "sess000001", got.ID)
		assert.Equal(t, "Senior Backend Engineer", got.JobDescription)
		assert.Equal(t, []string{"q1", "q2", "q3"}, got.Questions)
		assert.True(t, got.CreatedAt.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)))
		assert.Equal(t, domain.StatusCreated, got.Status())
		assert.Nil(t, got.Scorecard)
	})

	t.Run("update merges scorecard", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Create(ctx, sampleSession("sess000002")))
		require.NoError(t, s.Update(ctx, "sess000002", domain.SessionPatch{Scorecard: sampleScorecard("B-", 72)}))

		got, err := s.Get(ctx, "sess000002")
		require.NoError(t, err)
		require.Equal(t, domain.StatusScored, got.Status())
		assert.Equal(t, []string{"q1", "q2", "q3"}, got.Questions)
		assert.Equal(t, "B-", got.Scorecard.Grade)
		assert.Equal(t, 72, got.Scorecard.OverallScore)
		assert.Equal(t, []string{"a1", "", "a3"}, got.Scorecard.Answers)
		assert.Len(t, got.Scorecard.Feedback, 3)
		assert.Equal(t, "A-", got.Scorecard.Feedback[2].Score)
		assert.Equal(t, []string{"s1", "s2", "s3"}, got.Scorecard.Strengths)
		assert.True(t, got.Scorecard.CompletedAt.Equal(time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)))
	})

	t.Run("second update wins", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Create(ctx, sampleSession("sess000003")))
		require.NoError(t, s.Update(ctx, "sess000003", domain.SessionPatch{Scorecard: sampleScorecard("C", 55)}))
		require.NoError(t, s.Update(ctx, "sess000003", domain.SessionPatch{Scorecard: sampleScorecard("A", 93)}))

		got, err := s.Get(ctx, "sess000003")
		require.NoError(t, err)
		assert.Equal(t, "A", got.Scorecard.Grade)
		assert.Equal(t, 93, got.Scorecard.OverallScore)
	})

	t.Run("update unknown id", func(t *testing.T) {
		s := newStore(t)
		err := s.Update(ctx, "missing001", domain.SessionPatch{Scorecard: sampleScorecard("A", 90)})
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = s.Get(ctx, "missing001")
		assert.ErrorIs(t, err, domain.ErrNotFound, "update must not create a session")
	})

	t.Run("empty patch on unknown id", func(t *testing.T) {
		s := newStore(t)
		assert.ErrorIs(t, s.Update(ctx, "missing002", domain.SessionPatch{}), domain.ErrNotFound)
	})

	t.Run("create overwrites", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Create(ctx, sampleSession("sess000004")))
		require.NoError(t, s.Update(ctx, "sess000004", domain.SessionPatch{Scorecard: sampleScorecard("B", 80)}))

		fresh := sampleSession("sess000004")
		fresh.Questions = []string{"other"}
		require.NoError(t, s.Create(ctx, fresh))

		got, err := s.Get(ctx, "sess000004")
		require.NoError(t, err)
		assert.Equal(t, []string{"other"}, got.Questions)
		assert.Nil(t, got.Scorecard)
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) store { return NewMemoryStore() })
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	require.NoError(t, m.Create(ctx, sampleSession("sess000005")))

	got, err := m.Get(ctx, "sess000005")
	require.NoError(t, err)
	got.Questions[0] = "mutated"

	again, err := m.Get(ctx, "sess000005")
	require.NoError(t, err)
	assert.Equal(t, "q1", again.Questions[0])
	assert.Equal(t, 1, m.Len())
}

func TestSQLiteStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) store {
		db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "sessions.db"))
		require.NoError(t, err)
		db.SetMaxOpenConns(1)
		t.Cleanup(func() { db.Close() })

		s, err := NewSQLiteStore(context.Background(), db)
		require.NoError(t, err)
		return s
	})
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, migration.RunMigrations(ctx, pool))

	runStoreSuite(t, func(t *testing.T) store {
		_, err := pool.Exec(ctx, `TRUNCATE results, sessions`)
		require.NoError(t, err)
		return NewPostgresStore(pool)
	})
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opts)
	t.Cleanup(func() { rdb.Close() })

	runStoreSuite(t, func(t *testing.T) store {
		require.NoError(t, rdb.FlushDB(context.Background()).Err())
		return NewRedisStore(rdb)
	})
}

func TestResultColumns(t *testing.T) {
	strengths, weaknesses, feedback, err := resultColumns(&domain.Scorecard{
		Strengths: []string{"clear"},
		Feedback:  []domain.QuestionFeedback{{Question: "q1", Answer: "a1", Score: "B", Feedback: "ok"}},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `["clear"]`, string(strengths))
	assert.JSONEq(t, `[]`, string(weaknesses))
	assert.JSONEq(t, `[{"question":"q1","answer":"a1","score":"B","feedback":"ok"}]`, string(feedback))

	_, _, feedback, err = resultColumns(&domain.Scorecard{})
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(feedback))
}
