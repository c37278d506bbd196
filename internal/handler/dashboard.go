package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/vermy/vermy/internal/domain"
)

// DashboardReader computes the dashboard summary
type DashboardReader interface {
	Summary(ctx context.Context) (*domain.DashboardSummary, error)
}

// DashboardHandler handles GET /api/dashboard
type DashboardHandler struct {
	dashboard DashboardReader
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboard DashboardReader) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Summary handles GET /api/dashboard
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.dashboard.Summary(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(summary)
}

// RegisterRoutes registers the dashboard route
func (h *DashboardHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/dashboard", h.Summary)
}
