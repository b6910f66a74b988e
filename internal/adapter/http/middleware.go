package http

import (
	"errors"
	"log/slog"
	"time"

	"mock-interview/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

const requestIDLocal = "requestid"

// Middleware returns the stack every route runs behind: request id, access
// log, panic recovery.
func Middleware() []fiber.Handler {
	return []fiber.Handler{
		requestid.New(requestid.Config{
			Header:     fiber.HeaderXRequestID,
			Generator:  uuid.NewString,
			ContextKey: requestIDLocal,
		}),
		AccessLog,
		recover.New(recover.Config{
			EnableStackTrace: true,
			StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
				slog.ErrorContext(c.UserContext(), "PANIC RECOVERED", "error", e, "path", c.Path())
			},
		}),
	}
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(requestIDLocal).(string); ok {
		return id
	}
	return ""
}

// AccessLog attaches the request id to the user context and logs one line
// per request, at a level chosen by status.
func AccessLog(c *fiber.Ctx) error {
	start := time.Now()
	rid := requestID(c)
	c.SetUserContext(logger.WithRequestID(c.UserContext(), rid))

	err := c.Next()
	if err != nil {
		// let the app error handler write the response before we read the status
		if herr := c.App().ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	status := c.Response().StatusCode()
	attrs := []any{
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"duration_ms", time.Since(start).Milliseconds(),
		"request_id", rid,
	}

	switch {
	case status >= 500:
		slog.Error("Request failed with server error", attrs...)
	case status >= 400:
		slog.Warn("Request failed with client error", attrs...)
	default:
		slog.Info("Request completed", attrs...)
	}
	return nil
}

// ErrorHandler answers errors that escape a handler (unknown routes, body
// limit, recovered panics) with the same JSON shape the handlers use.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	} else {
		slog.ErrorContext(c.UserContext(), "Unhandled error", "error", err, "path", c.Path())
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}
