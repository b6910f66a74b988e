package web

import (
	"io/fs"
	"testing"
	"time"

	"mock-interview/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoredSession() *domain.Session {
	s := domain.NewSession("abc123XYZ0", "jd", []string{"Why Go?", "Hardest bug?"}, time.Now())
	s.Apply(domain.SessionPatch{Scorecard: &domain.Scorecard{
		Answers: []string{"Because <script>", ""},
		Feedback: []domain.QuestionFeedback{
			{Question: "Why Go?", Answer: "Because <script>", Score: "B+", Feedback: "Add numbers."},
			{Question: "Hardest bug?", Answer: "", Score: "F", Feedback: "Skipped."},
		},
		OverallScore: 72,
		Grade:        "B-",
		Summary:      "Decent but vague.",
		Strengths:    []string{"Clear"},
		Weaknesses:   []string{"No metrics"},
		CompletedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}})
	return s
}

func TestPagesRender(t *testing.T) {
	p, err := NewPages(3)
	require.NoError(t, err)

	for _, name := range []string{PageIndex, PageStart} {
		out, err := p.Render(name, PageView{Title: "x"})
		require.NoError(t, err, name)
		assert.Contains(t, out, "<style>")
		assert.Contains(t, out, "/static/app.js")
	}

	out, err := p.Render(PageStart, PageView{Title: "Start"})
	require.NoError(t, err)
	assert.Contains(t, out, "Generate Interview Questions")

	out, err = p.Render(PageInterview, PageView{Title: "Interview", SessionID: "abc123XYZ0", HardQuestions: 3})
	require.NoError(t, err)
	assert.Contains(t, out, `data-session-id="abc123XYZ0"`)
	assert.Contains(t, out, `data-hard-questions="3"`)

	out, err = p.Render(PageError, PageView{Title: "Not found", Heading: "Interview not found", Message: "Gone."})
	require.NoError(t, err)
	assert.Contains(t, out, "Interview not found")
	assert.Contains(t, out, "Start over")
}

func TestResultsPage(t *testing.T) {
	p, err := NewPages(3)
	require.NoError(t, err)

	out, err := p.ResultsPage(scoredSession(), false)
	require.NoError(t, err)
	assert.Contains(t, out, "grade-b")
	assert.Contains(t, out, "72<span>/100</span>")
	assert.Contains(t, out, "Decent but vague.")
	assert.Contains(t, out, "Because &lt;script&gt;")
	assert.Contains(t, out, "(No answer provided)")
	assert.Contains(t, out, "twitter.com/intent/tweet")
	assert.Contains(t, out, "/results/abc123XYZ0/pdf")
}

func TestRenderResultsIsPrintable(t *testing.T) {
	p, err := NewPages(3)
	require.NoError(t, err)

	out, err := p.RenderResults(scoredSession())
	require.NoError(t, err)
	assert.NotContains(t, out, "/static/app.js")
	assert.NotContains(t, out, "Share on X")
	assert.Contains(t, out, "B-")
}

func TestResultsPageUnscored(t *testing.T) {
	p, err := NewPages(3)
	require.NoError(t, err)

	out, err := p.ResultsPage(domain.NewSession("abc123XYZ0", "jd", []string{"q"}, time.Now()), false)
	require.NoError(t, err)
	assert.Contains(t, out, "Not scored yet")
	assert.Contains(t, out, "/interview/abc123XYZ0")
}

func TestGradeClass(t *testing.T) {
	assert.Equal(t, "grade-a", GradeClass("A+"))
	assert.Equal(t, "grade-b", GradeClass("B-"))
	assert.Equal(t, "grade-c", GradeClass("C"))
	assert.Equal(t, "grade-d", GradeClass("D"))
	assert.Equal(t, "grade-f", GradeClass("F"))
	assert.Equal(t, "grade-f", GradeClass(""))
}

func TestStaticAssets(t *testing.T) {
	for _, name := range []string{"app.js", "styles.css"} {
		_, err := fs.Stat(Static(), name)
		assert.NoError(t, err, name)
	}
}

func TestShareURL(t *testing.T) {
	got := shareURL("B-", 72)
	assert.Equal(t, "https://twitter.com/intent/tweet?text=I+just+got+a+B-+%2872%2F100%29+on+my+mock+interview+roast.+Think+you+can+beat+it%3F", got)
}
