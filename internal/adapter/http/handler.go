package http

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"mock-interview/internal/domain"
	"mock-interview/internal/usecase"
	"mock-interview/internal/web"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	interviews *usecase.InterviewService
	exports    *usecase.ExportService
	views      *web.Pages
}

func NewHandler(s *usecase.InterviewService, e *usecase.ExportService, views *web.Pages) *Handler {
	return &Handler{interviews: s, exports: e, views: views}
}

type startReq struct {
	JobDescription string `json:"jobDescription"`
}

type submitReq struct {
	SessionID string   `json:"sessionId"`
	Answers   []string `json:"answers"`
}

type sessionResp struct {
	ID        string   `json:"id"`
	Questions []string `json:"questions"`
}

// resultsResp leaves every scoring field null until the session is scored.
type resultsResp struct {
	ID           string                    `json:"id"`
	Questions    []string                  `json:"questions"`
	Feedback     []domain.QuestionFeedback `json:"feedback"`
	OverallScore *int                      `json:"overallScore"`
	Grade        *string                   `json:"grade"`
	Summary      *string                   `json:"summary"`
	Strengths    []string                  `json:"strengths"`
	Weaknesses   []string                  `json:"weaknesses"`
	CompletedAt  *time.Time                `json:"completedAt"`
}

func (h *Handler) StartSession(c *fiber.Ctx) error {
	var req startReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	s, err := h.interviews.Start(c.UserContext(), req.JobDescription)
	if err != nil {
		return respondError(c, err, "Job description is required", "Failed to generate questions")
	}
	return c.JSON(sessionResp{ID: s.ID, Questions: s.Questions})
}

func (h *Handler) GetSession(c *fiber.Ctx) error {
	s, err := h.interviews.Session(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Session ID is required", "Failed to fetch session")
	}
	return c.JSON(sessionResp{ID: s.ID, Questions: s.Questions})
}

func (h *Handler) SubmitAnswers(c *fiber.Ctx) error {
	var req submitReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	if _, err := h.interviews.Submit(c.UserContext(), req.SessionID, req.Answers); err != nil {
		return respondError(c, err, "Session ID and answers are required", "Failed to analyze answers")
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) GetResults(c *fiber.Ctx) error {
	s, err := h.interviews.Results(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "Session ID is required", "Failed to fetch results")
	}
	return c.JSON(projectResults(s))
}

func (h *Handler) Transcribe(c *fiber.Ctx) error {
	fh, err := c.FormFile("audio")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Audio file is required"})
	}
	f, err := fh.Open()
	if err != nil {
		return respondError(c, err, "", "Failed to transcribe audio")
	}
	defer f.Close()

	text, err := h.interviews.Transcribe(c.UserContext(), f)
	if err != nil {
		return respondError(c, err, "Audio file is required", "Failed to transcribe audio")
	}
	return c.JSON(fiber.Map{"text": text})
}

func (h *Handler) ExportResultsPDF(c *fiber.Ctx) error {
	id := c.Params("id")
	pdf, err := h.exports.ResultsPDF(c.UserContext(), id)
	if errors.Is(err, domain.ErrNotScored) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Session has not been scored yet"})
	}
	if err != nil {
		return respondError(c, err, "", "Failed to export results")
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="interview-results-%s.pdf"`, id))
	return c.Send(pdf)
}

func (h *Handler) Metrics(c *fiber.Ctx) error {
	return c.JSON(h.interviews.Metrics().GetSnapshot())
}

func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func projectResults(s *domain.Session) resultsResp {
	out := resultsResp{ID: s.ID, Questions: s.Questions}
	if card := s.Scorecard; card != nil {
		out.Feedback = card.Feedback
		out.OverallScore = &card.OverallScore
		out.Grade = &card.Grade
		out.Summary = &card.Summary
		out.Strengths = card.Strengths
		out.Weaknesses = card.Weaknesses
		out.CompletedAt = &card.CompletedAt
	}
	return out
}

// respondError maps the error taxonomy to a status and a fixed message.
// Details stay in the log.
func respondError(c *fiber.Ctx, err error, validationMsg, failureMsg string) error {
	status, msg := fiber.StatusInternalServerError, failureMsg
	switch {
	case errors.Is(err, domain.ErrValidation):
		status, msg = fiber.StatusBadRequest, validationMsg
	case errors.Is(err, domain.ErrNotFound):
		status, msg = fiber.StatusNotFound, "Session not found"
	}

	if status >= fiber.StatusInternalServerError {
		slog.ErrorContext(c.UserContext(), msg, "error", err, "path", c.Path())
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
