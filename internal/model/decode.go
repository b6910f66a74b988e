package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"mock-interview/internal/domain"
	"mock-interview/pkg/cleaner"
)

const maxListItems = 3

type questionSet struct {
	Questions []string `json:"questions"`
}

// Evaluation is the scoring envelope returned by the generation service.
type Evaluation struct {
	OverallScore     float64        `json:"overallScore"`
	Grade            string         `json:"grade"`
	Summary          string         `json:"summary"`
	Strengths        []string       `json:"strengths"`
	Weaknesses       []string       `json:"weaknesses"`
	QuestionFeedback []FeedbackItem `json:"questionFeedback"`
}

type FeedbackItem struct {
	Question string `json:"question"`
	Score    string `json:"score"`
	Feedback string `json:"feedback"`
}

// DecodeQuestions validates a generation reply and returns exactly count
// questions. Any failure wraps domain.ErrMalformedUpstreamResponse.
func DecodeQuestions(raw string, count int) ([]string, error) {
	body, err := validated(QuestionsSchema, raw)
	if err != nil {
		return nil, err
	}

	var qs questionSet
	if err := json.Unmarshal(body, &qs); err != nil {
		return nil, malformed(err)
	}
	if len(qs.Questions) < count {
		return nil, malformed(fmt.Errorf("expected %d questions, got %d", count, len(qs.Questions)))
	}

	out := make([]string, 0, count)
	for _, q := range qs.Questions[:count] {
		out = append(out, strings.TrimSpace(q))
	}
	return out, nil
}

// DecodeEvaluation validates a scoring reply. Any failure wraps
// domain.ErrMalformedUpstreamResponse.
func DecodeEvaluation(raw string) (*Evaluation, error) {
	body, err := validated(EvaluationSchema, raw)
	if err != nil {
		return nil, err
	}

	var ev Evaluation
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, malformed(err)
	}
	return &ev, nil
}

// Scorecard aligns the evaluation with the stored questions and submitted
// answers by position. Feedback rows take their question from the session,
// not from the model's echo.
func (e *Evaluation) Scorecard(questions, answers []string, completedAt time.Time) (*domain.Scorecard, error) {
	if len(e.QuestionFeedback) < len(questions) {
		return nil, malformed(fmt.Errorf("expected %d feedback entries, got %d", len(questions), len(e.QuestionFeedback)))
	}

	feedback := make([]domain.QuestionFeedback, len(questions))
	for i, q := range questions {
		f := e.QuestionFeedback[i]
		answer := ""
		if i < len(answers) {
			answer = answers[i]
		}
		feedback[i] = domain.QuestionFeedback{
			Question: q,
			Answer:   answer,
			Score:    strings.TrimSpace(f.Score),
			Feedback: strings.TrimSpace(f.Feedback),
		}
	}

	return &domain.Scorecard{
		Answers:      append([]string{}, answers...),
		Feedback:     feedback,
		OverallScore: int(math.Round(e.OverallScore)),
		Grade:        e.Grade,
		Summary:      strings.TrimSpace(e.Summary),
		Strengths:    capList(e.Strengths),
		Weaknesses:   capList(e.Weaknesses),
		CompletedAt:  completedAt,
	}, nil
}

func validated(schema, raw string) ([]byte, error) {
	body := cleaner.LLMResponse(raw)
	if body == "" {
		return nil, malformed(fmt.Errorf("empty response"))
	}
	if err := ValidateJSON(schema, []byte(body)); err != nil {
		return nil, malformed(err)
	}
	return []byte(body), nil
}

func capList(items []string) []string {
	out := make([]string, 0, maxListItems)
	for _, s := range items {
		if len(out) == maxListItems {
			break
		}
		out = append(out, strings.TrimSpace(s))
	}
	return out
}

func malformed(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrMalformedUpstreamResponse, err)
}
