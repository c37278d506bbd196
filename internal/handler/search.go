package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/vermy/vermy/internal/domain"
)

// Searcher runs the global search
type Searcher interface {
	Search(ctx context.Context, query string) (*domain.SearchResult, error)
}

// SearchHandler handles GET /api/search
type SearchHandler struct {
	searcher Searcher
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searcher Searcher) *SearchHandler {
	return &SearchHandler{searcher: searcher}
}

// Search handles GET /api/search?q=
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	result, err := h.searcher.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(result)
}

// RegisterRoutes registers the search route
func (h *SearchHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/search", h.Search)
}
