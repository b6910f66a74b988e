package usecase

import (
	"fmt"
	"strings"

	"mock-interview/internal/config"
	"mock-interview/internal/domain"
	"mock-interview/pkg/ai"
	"mock-interview/pkg/cleaner"
)

const (
	OperationGenerateQuestions = "generate_questions"
	OperationScoreAnswers      = "score_answers"

	// NoAnswerPlaceholder stands in for a blank answer in the scoring prompt.
	NoAnswerPlaceholder = "(No answer provided)"

	questionSystemPrompt = "You are a senior hiring manager who has conducted hundreds of interviews. Generate tough, specific interview questions. Respond only with valid JSON."
	scoringSystemPrompt  = "You are a brutally honest interview coach. Respond only with valid JSON."
)

func QuestionsPrompt(jobDescription string, cfg config.InterviewConfig) ai.Prompt {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a tough interview coach. Based on this job description, generate %d challenging interview questions that would really test a candidate.\n\n", cfg.QuestionCount)
	b.WriteString("JOB DESCRIPTION:\n")
	b.WriteString(cleaner.JobDescription(jobDescription))
	b.WriteString("\n\nGenerate questions that:\n")
	b.WriteString("1. Are specific to this role and industry\n")
	b.WriteString("2. Include behavioral questions (tell me about a time...)\n")
	b.WriteString("3. Include technical/skill-based questions where relevant\n")
	b.WriteString("4. Include at least 2-3 \"hard\" questions that make candidates uncomfortable\n")
	b.WriteString("5. Test for red flags hiring managers look for\n\n")
	b.WriteString("Return a JSON object with this structure:\n")
	b.WriteString("{\n  \"questions\": [\"question 1\", \"question 2\", ...]\n}\n\n")
	fmt.Fprintf(&b, "Return exactly %d questions. Make questions progressively harder.", cfg.QuestionCount)
	if cfg.HardQuestionCount > 0 {
		fmt.Fprintf(&b, " The last %d should be the toughest.", cfg.HardQuestionCount)
	}

	return ai.Prompt{
		Operation:   OperationGenerateQuestions,
		System:      questionSystemPrompt,
		User:        b.String(),
		Temperature: cfg.QuestionTemperature,
	}
}

func ScoringPrompt(s *domain.Session, answers []string, cfg config.InterviewConfig) ai.Prompt {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a brutally honest interview coach. A candidate just answered %d interview questions for this role. Analyze their performance.\n\n", len(s.Questions))
	b.WriteString("JOB CONTEXT:\n")
	b.WriteString(Excerpt(cleaner.JobDescription(s.JobDescription), cfg.JobExcerptChars))
	b.WriteString("\n\nQUESTIONS AND ANSWERS:\n")
	b.WriteString(QAPairs(s.Questions, answers))
	b.WriteString("\n\nProvide your analysis in this JSON format:\n")
	b.WriteString(`{
  "overallScore": 0-100,
  "grade": "A+", "A", "A-", "B+", "B", "B-", "C+", "C", "C-", "D", or "F",
  "summary": "2-3 sentences brutally summarizing their interview performance",
  "strengths": ["3 things they did well"],
  "weaknesses": ["3 things they need to fix"],
  "questionFeedback": [
    {
      "question": "the question text",
      "score": "A to F grade for this answer",
      "feedback": "Specific, actionable feedback for this answer"
    }
  ]
}`)
	fmt.Fprintf(&b, "\n\nInclude exactly one questionFeedback entry per question, in order (%d entries). ", len(s.Questions))
	b.WriteString("Be savage but constructive. Point out vague answers, missing metrics, red flags, and missed opportunities. But also acknowledge what worked.")

	return ai.Prompt{
		Operation:   OperationScoreAnswers,
		System:      scoringSystemPrompt,
		User:        b.String(),
		Temperature: cfg.ScoringTemperature,
	}
}

// QAPairs renders every question with the answer at the same position.
func QAPairs(questions, answers []string) string {
	pairs := make([]string, len(questions))
	for i, q := range questions {
		answer := ""
		if i < len(answers) {
			answer = answers[i]
		}
		if answer == "" {
			answer = NoAnswerPlaceholder
		}
		pairs[i] = fmt.Sprintf("Q%d: %s\nA%d: %s", i+1, q, i+1, answer)
	}
	return strings.Join(pairs, "\n\n")
}

// Excerpt returns the first n characters of text, marking a cut with "...".
func Excerpt(text string, n int) string {
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n]) + "..."
}
