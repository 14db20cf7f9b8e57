package serverutils

import (
	"errors"

	"dr-vain-be/internal/service"
	"dr-vain-be/pkg/rag/conversation"
	"dr-vain-be/pkg/rag/session"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts domain errors bubbling out of handlers
// into HTTP status codes. Typed capability failures map to gateway-style
// errors so the UI can offer a retry; lifecycle mismatches map to 409.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status := fiber.StatusInternalServerError

		var fiberErr *fiber.Error
		var configErr *conversation.ConfigurationError
		var retrievalErr *conversation.RetrievalError
		var completionErr *conversation.CompletionError

		switch {
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
		case errors.Is(err, conversation.ErrInvalidInput):
			status = fiber.StatusBadRequest
		case errors.Is(err, service.ErrNoArchivedSessions):
			status = fiber.StatusNotFound
		case errors.Is(err, session.ErrSessionMismatch),
			errors.Is(err, session.ErrNoActiveSession):
			status = fiber.StatusConflict
		case errors.As(err, &configErr):
			status = fiber.StatusServiceUnavailable
		case errors.As(err, &retrievalErr),
			errors.As(err, &completionErr):
			status = fiber.StatusBadGateway
		}

		return ctx.Status(status).JSON(ErrorResponse(err.Error()))
	}
}
