package middleware_test

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"conceptme/internal/domain"
	"conceptme/internal/middleware"
	"conceptme/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveError(t *testing.T, handlerErr error) (int, []byte) {
	t.Helper()
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Get("/", func(c *fiber.Ctx) error { return handlerErr })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func TestErrorHandler_DomainErrors(t *testing.T) {
	tests := []struct {
		err           error
		wantStatus    int
		wantRetryable bool
	}{
		{domain.NewValidationError("bad"), fiber.StatusBadRequest, false},
		{domain.NewUpstreamError("model down", errors.New("503")), fiber.StatusBadGateway, true},
		{domain.NewParseError("bad reply", nil), fiber.StatusBadGateway, false},
		{domain.NewPersistenceError("db down", nil), fiber.StatusServiceUnavailable, true},
		{domain.NewNotFoundError("missing"), fiber.StatusNotFound, false},
		{domain.NewUnauthorizedError("who"), fiber.StatusUnauthorized, false},
		{domain.NewConflictError("taken"), fiber.StatusConflict, false},
		{domain.NewInvalidStateError("not now"), fiber.StatusConflict, false},
		{domain.NewRateLimitedError("slow down"), fiber.StatusTooManyRequests, true},
		{domain.NewInternalError("boom", nil), fiber.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		domainErr := tt.err.(*domain.DomainError)
		t.Run(string(domainErr.Code), func(t *testing.T) {
			status, body := serveError(t, tt.err)
			assert.Equal(t, tt.wantStatus, status)

			var resp middleware.ErrorResponse
			require.NoError(t, json.Unmarshal(body, &resp))
			assert.Equal(t, string(domainErr.Code), resp.Code)
			assert.Equal(t, domainErr.Message, resp.Message)
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, tt.wantRetryable, resp.Retryable)
		})
	}
}

func TestErrorHandler_WrappedDomainErrorWithContext(t *testing.T) {
	inner := domain.NewValidationError("age must be between 5 and 25").WithContext("age", 4)
	status, body := serveError(t, errors.Join(errors.New("handler"), inner))
	assert.Equal(t, fiber.StatusBadRequest, status)

	var resp middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, float64(4), resp.Details["age"])
}

func TestErrorHandler_FieldErrors(t *testing.T) {
	status, body := serveError(t, validation.FieldErrors{{Field: "topic", Message: "is required"}})
	assert.Equal(t, fiber.StatusBadRequest, status)

	var resp middleware.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, string(domain.CodeValidation), resp.Code)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "topic", resp.Errors[0].Field)
}

func TestErrorHandler_FiberAndUnknown(t *testing.T) {
	status, _ := serveError(t, fiber.ErrUnprocessableEntity)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, body := serveError(t, errors.New("secret detail"))
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.NotContains(t, string(body), "secret detail")
}

func TestValidationMiddleware(t *testing.T) {
	vm := middleware.NewValidationMiddleware()
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Get("/notes/:id", vm.ValidateRecordID("note"), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(middleware.ValidatedIDKey).(string))
	})
	app.Get("/top", vm.ValidateLimit(10, 100), func(c *fiber.Ctx) error {
		return c.JSON(c.Locals(middleware.ValidatedLimitKey))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/notes/note_01ARZ3NDEKTSV4RRFFQ69G5FAV", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/notes/quiz_01ARZ3NDEKTSV4RRFFQ69G5FAV", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/top", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "10", string(body))

	resp, err = app.Test(httptest.NewRequest("GET", "/top?limit=500", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
