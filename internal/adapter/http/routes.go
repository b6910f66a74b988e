package http

import (
	"github.com/gofiber/fiber/v2"
)

// NewApp builds the fiber app with middleware and every route registered.
func NewApp(h *Handler, bodyLimit int) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "mock-interview",
		ErrorHandler:          ErrorHandler,
		BodyLimit:             bodyLimit,
		DisableStartupMessage: true,
	})
	for _, m := range Middleware() {
		app.Use(m)
	}
	Register(app, h)
	return app
}

func Register(app *fiber.App, h *Handler) {
	// JSON API, served at the root and under /api.
	for _, r := range []fiber.Router{app, app.Group("/api")} {
		r.Post("/start", h.StartSession)
		r.Get("/session/:id", h.GetSession)
		r.Post("/submit", h.SubmitAnswers)
		r.Get("/results/:id", h.GetResults)
		r.Post("/transcribe", h.Transcribe)
	}
	app.Get("/results/:id/pdf", h.ExportResultsPDF)

	app.Get("/healthz", Health)
	app.Get("/metrics", h.Metrics)

	// pages
	app.Get("/", h.IndexPage)
	app.Get("/start", h.StartPage)
	app.Get("/interview/:id", h.InterviewPage)
	app.Get("/review/:id", h.ResultsPage)
	app.Use("/static", staticHandler())
}
