package handler

import (
	"context"
	"mime"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/vermy/vermy/internal/domain"
)

// DocumentContentReader loads the file behind a document
type DocumentContentReader interface {
	Content(ctx context.Context, id uuid.UUID) (*domain.DocumentContent, error)
}

// DocumentHandler serves document downloads
type DocumentHandler struct {
	documents DocumentContentReader
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documents DocumentContentReader) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// Content handles GET /api/documents/:id/content
func (h *DocumentHandler) Content(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return handleError(c, err)
	}

	content, err := h.documents.Content(c.UserContext(), id)
	if err != nil {
		return handleError(c, err)
	}

	disposition := "attachment"
	if c.QueryBool("inline") {
		disposition = "inline"
	}
	c.Set(fiber.HeaderContentType, content.MimeType)
	c.Set(fiber.HeaderContentLength, strconv.Itoa(len(content.Data)))
	c.Set(fiber.HeaderContentDisposition, mime.FormatMediaType(disposition, map[string]string{"filename": content.FileName}))
	return c.Send(content.Data)
}

// RegisterRoutes adds the document extras to the documents group
func (h *DocumentHandler) RegisterRoutes(group fiber.Router) {
	group.Get("/:id/content", h.Content)
}
