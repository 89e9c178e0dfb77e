package middleware_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"conceptme/internal/domain"
	"conceptme/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ManualMockAuthService implements service.AuthService for middleware tests.
type ManualMockAuthService struct {
	ValidateTokenFunc func(ctx context.Context, token string) (string, error)
}

func (m *ManualMockAuthService) SignUp(ctx context.Context, email, password, confirm string) (*domain.UserProfile, error) {
	panic("not implemented in mock")
}

func (m *ManualMockAuthService) Login(ctx context.Context, email, password string) (string, error) {
	panic("not implemented in mock")
}

func (m *ManualMockAuthService) ValidateToken(ctx context.Context, token string) (string, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(ctx, token)
	}
	return "", domain.NewUnauthorizedError("ValidateTokenFunc not set on mock")
}

func newProtectedApp(authSvc *ManualMockAuthService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Get("/me", middleware.Protected(authSvc), func(c *fiber.Ctx) error {
		ownerID, err := middleware.OwnerID(c)
		if err != nil {
			return err
		}
		return c.SendString(ownerID)
	})
	return app
}

func TestProtected(t *testing.T) {
	authSvc := &ManualMockAuthService{
		ValidateTokenFunc: func(ctx context.Context, token string) (string, error) {
			if token == "good-token" {
				return "user-1", nil
			}
			return "", domain.NewUnauthorizedError("invalid token")
		},
	}
	app := newProtectedApp(authSvc)

	tests := []struct {
		name        string
		authHeader  string
		wantStatus  int
		wantBody    string
		wantMessage string
	}{
		{name: "valid token", authHeader: "Bearer good-token", wantStatus: fiber.StatusOK, wantBody: "user-1"},
		{name: "missing header", authHeader: "", wantStatus: fiber.StatusUnauthorized, wantMessage: "authorization header is missing"},
		{name: "basic scheme", authHeader: "Basic abc", wantStatus: fiber.StatusUnauthorized, wantMessage: "authorization scheme is not Bearer"},
		{name: "empty token", authHeader: "Bearer ", wantStatus: fiber.StatusUnauthorized, wantMessage: "token is empty"},
		{name: "bad token", authHeader: "Bearer bad-token", wantStatus: fiber.StatusUnauthorized, wantMessage: "invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.authHeader != "" {
				req.Header.Set(middleware.AuthorizationHeader, tt.authHeader)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			body, _ := io.ReadAll(resp.Body)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, string(body))
				return
			}
			var errResp middleware.ErrorResponse
			require.NoError(t, json.Unmarshal(body, &errResp))
			assert.Equal(t, string(domain.CodeUnauthorized), errResp.Code)
			assert.Equal(t, tt.wantMessage, errResp.Message)
		})
	}
}

func TestOwnerID_MissingLocals(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Get("/", func(c *fiber.Ctx) error {
		_, err := middleware.OwnerID(c)
		return err
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
