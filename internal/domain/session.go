package domain

import (
	"time"
)

type Status string

const (
	StatusCreated Status = "created"
	StatusScored  Status = "scored"
)

// Session is one candidate's interview attempt. It is Created until a
// Scorecard is attached, then Scored.
type Session struct {
	ID             string     `json:"id"`
	JobDescription string     `json:"job_description"`
	Questions      []string   `json:"questions"`
	CreatedAt      time.Time  `json:"created_at"`
	Scorecard      *Scorecard `json:"scorecard,omitempty"`
}

// Scorecard holds everything written by a successful submission. It is
// always stored whole.
type Scorecard struct {
	Answers      []string           `json:"answers"`
	Feedback     []QuestionFeedback `json:"feedback"`
	OverallScore int                `json:"overall_score"`
	Grade        string             `json:"grade"`
	Summary      string             `json:"summary"`
	Strengths    []string           `json:"strengths"`
	Weaknesses   []string           `json:"weaknesses"`
	CompletedAt  time.Time          `json:"completed_at"`
}

type QuestionFeedback struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Score    string `json:"score"`
	Feedback string `json:"feedback"`
}

// SessionPatch lists the fields an update may replace. Nil fields are left
// untouched.
type SessionPatch struct {
	Scorecard *Scorecard
}

func NewSession(id, jobDescription string, questions []string, now time.Time) *Session {
	return &Session{
		ID:             id,
		JobDescription: jobDescription,
		Questions:      append([]string(nil), questions...),
		CreatedAt:      now,
	}
}

func (s *Session) Status() Status {
	if s.Scorecard != nil {
		return StatusScored
	}
	return StatusCreated
}

// Apply merges p into s.
func (s *Session) Apply(p SessionPatch) {
	if p.Scorecard != nil {
		s.Scorecard = p.Scorecard.Clone()
	}
}

// Clone returns a deep copy so callers cannot mutate stored state.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Questions = append([]string(nil), s.Questions...)
	out.Scorecard = s.Scorecard.Clone()
	return &out
}

func (c *Scorecard) Clone() *Scorecard {
	if c == nil {
		return nil
	}
	out := *c
	out.Answers = append([]string(nil), c.Answers...)
	out.Feedback = append([]QuestionFeedback(nil), c.Feedback...)
	out.Strengths = append([]string(nil), c.Strengths...)
	out.Weaknesses = append([]string(nil), c.Weaknesses...)
	return &out
}
