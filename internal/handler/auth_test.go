package handler

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vermy/vermy/internal/domain"
	"github.com/vermy/vermy/internal/middleware"
	apperrors "github.com/vermy/vermy/internal/pkg/errors"
)

// MockAuthenticator mocks the auth service for testing.
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, input *domain.LoginInput) (*domain.LoginResponse, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoginResponse), args.Error(1)
}

func (m *MockAuthenticator) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func setupAuthTestApp(auth Authenticator, userID *uuid.UUID) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	h := NewAuthHandler(auth)
	api := app.Group("/api")
	h.RegisterPublicRoutes(api)
	if userID != nil {
		api.Use(func(c *fiber.Ctx) error {
			c.Locals(string(middleware.ContextKeyUserID), *userID)
			return c.Next()
		})
	}
	h.RegisterRoutes(api)
	return app
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("returns a token", func(t *testing.T) {
		auth := new(MockAuthenticator)
		auth.On("Login", mock.Anything, &domain.LoginInput{Email: "admin@vermy.local", Password: "s3cret-pass"}).
			Return(&domain.LoginResponse{
				AccessToken: "token",
				TokenType:   "Bearer",
				ExpiresAt:   time.Now().Add(time.Hour),
				User:        &domain.User{ID: uuid.New(), Email: "admin@vermy.local"},
			}, nil)

		resp, err := setupAuthTestApp(auth, nil).Test(jsonRequest("POST", "/api/auth/login", map[string]string{
			"email":    "admin@vermy.local",
			"password": "s3cret-pass",
		}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body domain.LoginResponse
		decodeJSON(t, resp, &body)
		assert.Equal(t, "token", body.AccessToken)
		assert.Equal(t, "Bearer", body.TokenType)
	})

	t.Run("requires email and password", func(t *testing.T) {
		auth := new(MockAuthenticator)

		resp, err := setupAuthTestApp(auth, nil).Test(jsonRequest("POST", "/api/auth/login", map[string]string{
			"email": "admin@vermy.local",
		}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		auth.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
	})

	t.Run("rejects wrong credentials", func(t *testing.T) {
		auth := new(MockAuthenticator)
		auth.On("Login", mock.Anything, mock.Anything).Return(nil, apperrors.Unauthorized("invalid credentials"))

		resp, err := setupAuthTestApp(auth, nil).Test(jsonRequest("POST", "/api/auth/login", map[string]string{
			"email":    "admin@vermy.local",
			"password": "wrong",
		}))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

		var body ErrorResponse
		decodeJSON(t, resp, &body)
		assert.Equal(t, "Invalid email or password", body.Message)
	})
}

func TestAuthHandler_Me(t *testing.T) {
	t.Run("returns the current user", func(t *testing.T) {
		userID := uuid.New()
		auth := new(MockAuthenticator)
		auth.On("GetUser", mock.Anything, userID).Return(&domain.User{ID: userID, Email: "admin@vermy.local"}, nil)

		resp, err := setupAuthTestApp(auth, &userID).Test(httptest.NewRequest("GET", "/api/auth/me", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var user domain.User
		decodeJSON(t, resp, &user)
		assert.Equal(t, userID, user.ID)
	})

	t.Run("unauthorized without a user in context", func(t *testing.T) {
		resp, err := setupAuthTestApp(new(MockAuthenticator), nil).Test(httptest.NewRequest("GET", "/api/auth/me", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unauthorized when the user was removed", func(t *testing.T) {
		userID := uuid.New()
		auth := new(MockAuthenticator)
		auth.On("GetUser", mock.Anything, userID).Return(nil, apperrors.NotFound("user"))

		resp, err := setupAuthTestApp(auth, &userID).Test(httptest.NewRequest("GET", "/api/auth/me", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}
