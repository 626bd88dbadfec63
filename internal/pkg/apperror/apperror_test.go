package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"invalid request", InvalidRequest("MISSING_PROJECT_ID", "project_id is required"), fiber.StatusBadRequest},
		{"business rule", BusinessRule("This project is closed"), fiber.StatusBadRequest},
		{"authentication", Authentication("Invalid webhook signature"), fiber.StatusUnauthorized},
		{"not found", NotFound("NOT_FOUND", "Project not found"), fiber.StatusNotFound},
		{"access denied", AccessDenied("You do not own this project"), fiber.StatusForbidden},
		{"withdrawal not allowed", WithdrawalNotAllowed("Accepted applications cannot be withdrawn"), fiber.StatusForbidden},
		{"confirmation required", ConfirmationRequired("Withdrawal requires confirmation"), fiber.StatusConflict},
		{"conflict", Conflict("DUPLICATE_APPLICATION", "already applied"), fiber.StatusConflict},
		{"internal", Internal(errors.New("boom")), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestAs(t *testing.T) {
	t.Run("direct", func(t *testing.T) {
		appErr, ok := As(NotFound("NOT_FOUND", "gone"))
		require.True(t, ok)
		assert.Equal(t, KindNotFound, appErr.Kind)
	})

	t.Run("wrapped", func(t *testing.T) {
		wrapped := fmt.Errorf("handling request: %w", AccessDenied("nope"))
		appErr, ok := As(wrapped)
		require.True(t, ok)
		assert.Equal(t, KindAccessDenied, appErr.Kind)
	})

	t.Run("plain error", func(t *testing.T) {
		_, ok := As(errors.New("boom"))
		assert.False(t, ok)
	})
}

func TestWithDetails(t *testing.T) {
	err := AccessDenied("no access").WithDetails(map[string]interface{}{"college_name": "IIT Bombay"})
	assert.Equal(t, "IIT Bombay", err.Details["college_name"])
	assert.Equal(t, "ACCESS_DENIED", err.Code)
}

func TestInternalWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal(cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}
