package http

import (
	"errors"
	"log/slog"
	"net/http"

	"mock-interview/internal/domain"
	"mock-interview/internal/web"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
)

func (h *Handler) IndexPage(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, web.PageIndex, web.PageView{Title: "Mock interviews that bite back"})
}

func (h *Handler) StartPage(c *fiber.Ctx) error {
	return h.render(c, fiber.StatusOK, web.PageStart, web.PageView{Title: "Start"})
}

func (h *Handler) InterviewPage(c *fiber.Ctx) error {
	s, err := h.interviews.Session(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errorPage(c, err)
	}
	return h.render(c, fiber.StatusOK, web.PageInterview, web.PageView{
		Title:         "Interview",
		SessionID:     s.ID,
		HardQuestions: h.views.HardQuestions,
	})
}

func (h *Handler) ResultsPage(c *fiber.Ctx) error {
	s, err := h.interviews.Results(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errorPage(c, err)
	}
	out, err := h.views.ResultsPage(s, false)
	if err != nil {
		return h.errorPage(c, err)
	}
	return c.Type("html").SendString(out)
}

func (h *Handler) errorPage(c *fiber.Ctx, err error) error {
	view := web.PageView{
		Title:   "Something went wrong",
		Heading: "Something went wrong",
		Message: "We hit a problem loading this page.",
	}
	status := fiber.StatusInternalServerError
	if errors.Is(err, domain.ErrNotFound) {
		status = fiber.StatusNotFound
		view.Title, view.Heading = "Not found", "Interview not found"
		view.Message = "This interview doesn't exist or has expired."
	} else {
		slog.ErrorContext(c.UserContext(), "Page render failed", "error", err, "path", c.Path())
	}
	return h.render(c, status, web.PageError, view)
}

func (h *Handler) render(c *fiber.Ctx, status int, page string, data web.PageView) error {
	out, err := h.views.Render(page, data)
	if err != nil {
		slog.ErrorContext(c.UserContext(), "Template failed", "page", page, "error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("internal error")
	}
	return c.Status(status).Type("html").SendString(out)
}

func staticHandler() fiber.Handler {
	return filesystem.New(filesystem.Config{
		Root:   http.FS(web.Static()),
		MaxAge: 3600,
	})
}
