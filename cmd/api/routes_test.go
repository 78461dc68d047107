package main

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"quiz-bank/internal/domain"
	"quiz-bank/internal/dto"
	"quiz-bank/internal/handler"
	"quiz-bank/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthService struct{}

func (stubAuthService) Signup(ctx context.Context, req dto.SignupRequest) (string, *domain.User, error) {
	return "", nil, errors.New("not used")
}
func (stubAuthService) Signin(ctx context.Context, req dto.SigninRequest) (string, *domain.User, error) {
	return "", nil, errors.New("not used")
}
func (stubAuthService) CreateJWT(ctx context.Context, user *domain.User) (string, error) {
	return "", errors.New("not used")
}
func (stubAuthService) ValidateJWT(ctx context.Context, token string) (*dto.AuthClaims, error) {
	switch token {
	case "admin":
		return &dto.AuthClaims{UserID: "a", IsAdmin: true}, nil
	case "user":
		return &dto.AuthClaims{UserID: "u"}, nil
	}
	return nil, errors.New("invalid")
}

type okPinger struct{}

func (okPinger) Ping(ctx context.Context) error { return nil }

func newRoutedApp(authEnabled bool) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	setupRoutes(app, routeDeps{
		authEnabled: authEnabled,
		authService: stubAuthService{},
		// services are never reached in these cases
		questions:  handler.NewQuestionHandler(nil),
		generation: handler.NewGenerationHandler(nil),
		health:     handler.NewHealthHandler(okPinger{}, nil),
	})
	return app
}

func TestRoutes_AdminGuard(t *testing.T) {
	tests := []struct {
		name           string
		authEnabled    bool
		token          string
		expectedStatus int
	}{
		{name: "no token", authEnabled: true, expectedStatus: fiber.StatusUnauthorized},
		{name: "bad token", authEnabled: true, token: "garbage", expectedStatus: fiber.StatusUnauthorized},
		{name: "non-admin", authEnabled: true, token: "user", expectedStatus: fiber.StatusForbidden},
		// an empty body reaches the handler and is rejected there
		{name: "admin", authEnabled: true, token: "admin", expectedStatus: fiber.StatusBadRequest},
		{name: "auth disabled", authEnabled: false, expectedStatus: fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newRoutedApp(tt.authEnabled)

			for _, route := range []struct{ method, path string }{
				{"POST", "/api/questions/createquestion"},
				{"POST", "/api/questions/aiassist"},
			} {
				req := httptest.NewRequest(route.method, route.path, strings.NewReader(""))
				req.Header.Set("Content-Type", "application/json")
				if tt.token != "" {
					req.Header.Set("Authorization", "Bearer "+tt.token)
				}
				resp, err := app.Test(req)
				require.NoError(t, err)
				assert.Equal(t, tt.expectedStatus, resp.StatusCode, route.path)
				resp.Body.Close()
			}
		})
	}
}

func TestRoutes_HealthIsPublic(t *testing.T) {
	app := newRoutedApp(true)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRoutes_AuthRoutesAbsentWithoutHandler(t *testing.T) {
	app := newRoutedApp(false)

	resp, err := app.Test(httptest.NewRequest("POST", "/api/auth/signin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
