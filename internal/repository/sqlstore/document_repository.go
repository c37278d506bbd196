package sqlstore

import (
	"context"

	"github.com/vermy/vermy/internal/domain"
	"github.com/vermy/vermy/internal/pkg/database"
)

var documentTable = table{
	name:     "documents",
	resource: "document",
	columns: []string{
		"property_id", "tenant_id", "lease_id", "title", "category", "file_name",
		"mime_type", "size_bytes", "storage_key", "content_base64", "notes",
	},
	search:  []string{"title", "file_name", "notes"},
	orderBy: "created_at DESC, id",
}

// DocumentRepository handles document data operations
type DocumentRepository struct {
	*Store[domain.Document, *domain.Document]
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *database.DB) *DocumentRepository {
	return &DocumentRepository{Store: newStore[domain.Document](db, documentTable)}
}

// List retrieves documents with filtering and pagination
func (r *DocumentRepository) List(ctx context.Context, filter *domain.DocumentFilter) ([]domain.Document, int64, error) {
	var w where
	if filter.PropertyID != nil {
		w.eq("property_id", *filter.PropertyID)
	}
	if filter.TenantID != nil {
		w.eq("tenant_id", *filter.TenantID)
	}
	if filter.LeaseID != nil {
		w.eq("lease_id", *filter.LeaseID)
	}
	if filter.Category != "" {
		w.eq("category", string(filter.Category))
	}
	return r.list(ctx, filter.ListOptions, &w)
}
