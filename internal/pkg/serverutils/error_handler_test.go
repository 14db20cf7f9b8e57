package serverutils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"dr-vain-be/internal/service"
	"dr-vain-be/pkg/rag/conversation"
	"dr-vain-be/pkg/rag/session"

	"github.com/gofiber/fiber/v2"
)

func TestErrorHandlerMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid input", conversation.ErrInvalidInput, fiber.StatusBadRequest},
		{"session mismatch", session.ErrSessionMismatch, fiber.StatusConflict},
		{"no active session", session.ErrNoActiveSession, fiber.StatusConflict},
		{"no archived sessions", service.ErrNoArchivedSessions, fiber.StatusNotFound},
		{"configuration", &conversation.ConfigurationError{Reason: "no retriever"}, fiber.StatusServiceUnavailable},
		{"retrieval", &conversation.RetrievalError{Err: errors.New("down")}, fiber.StatusBadGateway},
		{"completion", &conversation.CompletionError{Err: errors.New("down")}, fiber.StatusBadGateway},
		{"fiber error passes through", fiber.NewError(fiber.StatusTeapot, "teapot"), fiber.StatusTeapot},
		{"unknown", errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(ErrorHandlerMiddleware())
			app.Get("/boom", func(c *fiber.Ctx) error {
				return tt.err
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}
