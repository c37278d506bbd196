package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/vermy/vermy/internal/domain"
)

// CRUDService is the operation set every stored collection exposes
type CRUDService[T, I, F any] interface {
	Create(ctx context.Context, input *I) (*T, error)
	Get(ctx context.Context, id uuid.UUID) (*T, error)
	List(ctx context.Context, filter *F) (*domain.ListResult[T], error)
	Update(ctx context.Context, id uuid.UUID, input *I) (*T, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) (*T, error)
}

// FilterParser builds a collection filter from the query string. opts holds
// the already parsed common list options.
type FilterParser[F any] func(c *fiber.Ctx, opts domain.ListOptions) (*F, error)

// ResourceHandler serves the REST endpoints of one collection
type ResourceHandler[T, I, F any] struct {
	svc         CRUDService[T, I, F]
	parseFilter FilterParser[F]
	onWrite     func(ctx context.Context)
}

// NewResourceHandler creates a handler for one collection. onWrite, when
// set, runs after every successful mutation.
func NewResourceHandler[T, I, F any](svc CRUDService[T, I, F], parseFilter FilterParser[F], onWrite func(ctx context.Context)) *ResourceHandler[T, I, F] {
	return &ResourceHandler[T, I, F]{
		svc:         svc,
		parseFilter: parseFilter,
		onWrite:     onWrite,
	}
}

// List handles GET /api/<collection>
func (h *ResourceHandler[T, I, F]) List(c *fiber.Ctx) error {
	opts, err := parseListOptions(c)
	if err != nil {
		return handleError(c, err)
	}
	filter, err := h.parseFilter(c, opts)
	if err != nil {
		return handleError(c, err)
	}

	result, err := h.svc.List(c.UserContext(), filter)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(result)
}

// Get handles GET /api/<collection>/:id
func (h *ResourceHandler[T, I, F]) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return handleError(c, err)
	}

	item, err := h.svc.Get(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(item)
}

// Create handles POST /api/<collection>
func (h *ResourceHandler[T, I, F]) Create(c *fiber.Ctx) error {
	input := new(I)
	if err := parseBody(c, input); err != nil {
		return handleError(c, err)
	}

	item, err := h.svc.Create(c.UserContext(), input)
	if err != nil {
		return handleError(c, err)
	}
	h.written(c)
	return c.Status(fiber.StatusCreated).JSON(item)
}

// Update handles PUT /api/<collection>/:id
func (h *ResourceHandler[T, I, F]) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return handleError(c, err)
	}
	input := new(I)
	if err := parseBody(c, input); err != nil {
		return handleError(c, err)
	}

	item, err := h.svc.Update(c.UserContext(), id, input)
	if err != nil {
		return handleError(c, err)
	}
	h.written(c)
	return c.JSON(item)
}

// Delete handles DELETE /api/<collection>/:id
func (h *ResourceHandler[T, I, F]) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return handleError(c, err)
	}

	if err := h.svc.Delete(c.UserContext(), id); err != nil {
		return handleError(c, err)
	}
	h.written(c)
	return c.SendStatus(fiber.StatusNoContent)
}

// Restore handles POST /api/<collection>/:id/restore
func (h *ResourceHandler[T, I, F]) Restore(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return handleError(c, err)
	}

	item, err := h.svc.Restore(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}
	h.written(c)
	return c.JSON(item)
}

// RegisterRoutes mounts the collection under router at path and returns
// the group so callers can add collection specific routes.
func (h *ResourceHandler[T, I, F]) RegisterRoutes(router fiber.Router, path string) fiber.Router {
	group := router.Group(path)
	group.Get("/", h.List)
	group.Post("/", h.Create)
	group.Get("/:id", h.Get)
	group.Put("/:id", h.Update)
	group.Delete("/:id", h.Delete)
	group.Post("/:id/restore", h.Restore)
	return group
}

func (h *ResourceHandler[T, I, F]) written(c *fiber.Ctx) {
	if h.onWrite != nil {
		h.onWrite(c.UserContext())
	}
}
