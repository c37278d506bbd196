package sqlstore

import (
	"context"

	"github.com/vermy/vermy/internal/domain"
	"github.com/vermy/vermy/internal/pkg/database"
)

var maintenanceTicketTable = table{
	name:     "maintenance_tickets",
	resource: "maintenance ticket",
	columns: []string{
		"property_id", "tenant_id", "title", "description", "category", "priority",
		"status", "cost_estimate", "cost_actual", "reported_at", "completed_at", "contractor",
	},
	search:  []string{"title", "description", "contractor"},
	orderBy: "updated_at DESC, id",
}

// MaintenanceTicketRepository handles maintenance ticket data operations
type MaintenanceTicketRepository struct {
	*Store[domain.MaintenanceTicket, *domain.MaintenanceTicket]
}

// NewMaintenanceTicketRepository creates a new maintenance ticket repository
func NewMaintenanceTicketRepository(db *database.DB) *MaintenanceTicketRepository {
	return &MaintenanceTicketRepository{Store: newStore[domain.MaintenanceTicket](db, maintenanceTicketTable)}
}

// List retrieves maintenance tickets with filtering and pagination
func (r *MaintenanceTicketRepository) List(ctx context.Context, filter *domain.MaintenanceTicketFilter) ([]domain.MaintenanceTicket, int64, error) {
	var w where
	if filter.PropertyID != nil {
		w.eq("property_id", *filter.PropertyID)
	}
	if filter.TenantID != nil {
		w.eq("tenant_id", *filter.TenantID)
	}
	if filter.Category != "" {
		w.eq("category", string(filter.Category))
	}
	if filter.Priority != "" {
		w.eq("priority", string(filter.Priority))
	}
	if filter.Status != "" {
		w.eq("status", string(filter.Status))
	}
	return r.list(ctx, filter.ListOptions, &w)
}
