package handler

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/vermy/vermy/internal/domain"
	"github.com/vermy/vermy/internal/middleware"
	apperrors "github.com/vermy/vermy/internal/pkg/errors"
)

// Authenticator issues tokens and resolves users
type Authenticator interface {
	Login(ctx context.Context, input *domain.LoginInput) (*domain.LoginResponse, error)
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	auth Authenticator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth Authenticator) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input domain.LoginInput
	if err := parseBody(c, &input); err != nil {
		return handleError(c, err)
	}

	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return errorResponse(c, fiber.StatusBadRequest, "Email and password are required")
	}

	result, err := h.auth.Login(c.UserContext(), &input)
	if err != nil {
		if apperrors.IsUnauthorized(err) {
			return errorResponse(c, fiber.StatusUnauthorized, "Invalid email or password")
		}
		return handleError(c, err)
	}

	return c.JSON(result)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return errorResponse(c, fiber.StatusUnauthorized, "User ID not found")
	}

	user, err := h.auth.GetUser(c.UserContext(), userID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return errorResponse(c, fiber.StatusUnauthorized, "User no longer exists")
		}
		return handleError(c, err)
	}

	return c.JSON(user)
}

// RegisterPublicRoutes registers routes that need no token. mw runs ahead
// of each of them.
func (h *AuthHandler) RegisterPublicRoutes(router fiber.Router, mw ...fiber.Handler) {
	router.Post("/auth/login", append(mw, h.Login)...)
}

// RegisterRoutes registers routes behind the JWT middleware
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/auth/me", h.Me)
}
