package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/vermy/vermy/internal/domain"
)

// UnitLister lists the units of a house
type UnitLister interface {
	ListUnits(ctx context.Context, id uuid.UUID, opts domain.ListOptions) (*domain.ListResult[domain.Property], error)
}

// PropertyTenantLister lists the tenants assigned to a property
type PropertyTenantLister interface {
	ListByProperty(ctx context.Context, propertyID uuid.UUID, opts domain.ListOptions) (*domain.ListResult[domain.Tenant], error)
}

// PropertyHandler serves the property routes that go beyond plain CRUD
type PropertyHandler struct {
	units   UnitLister
	tenants PropertyTenantLister
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(units UnitLister, tenants PropertyTenantLister) *PropertyHandler {
	return &PropertyHandler{units: units, tenants: tenants}
}

// ListUnits handles GET /api/properties/:id/units
func (h *PropertyHandler) ListUnits(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return handleError(c, err)
	}
	opts, err := parseListOptions(c)
	if err != nil {
		return handleError(c, err)
	}

	result, err := h.units.ListUnits(c.UserContext(), id, opts)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(result)
}

// ListTenants handles GET /api/properties/:id/tenants
func (h *PropertyHandler) ListTenants(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return handleError(c, err)
	}
	opts, err := parseListOptions(c)
	if err != nil {
		return handleError(c, err)
	}

	result, err := h.tenants.ListByProperty(c.UserContext(), id, opts)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(result)
}

// RegisterRoutes adds the property extras to the properties group
func (h *PropertyHandler) RegisterRoutes(group fiber.Router) {
	group.Get("/:id/units", h.ListUnits)
	group.Get("/:id/tenants", h.ListTenants)
}
