package sqlstore

import (
	"context"

	"github.com/google/uuid"

	"github.com/vermy/vermy/internal/domain"
	"github.com/vermy/vermy/internal/pkg/database"
)

var tenantTable = table{
	name:     "tenants",
	resource: "tenant",
	columns: []string{
		"salutation", "first_name", "last_name", "email", "phone", "mobile",
		"property_id", "is_primary", "move_in_date", "move_out_date", "status", "notes",
	},
	search:        []string{"first_name", "last_name", "email", "phone"},
	orderBy:       "last_name, first_name, id",
	uniqueMessage: "property already has a primary tenant",
}

// TenantRepository handles tenant data operations
type TenantRepository struct {
	*Store[domain.Tenant, *domain.Tenant]
}

// NewTenantRepository creates a new tenant repository
func NewTenantRepository(db *database.DB) *TenantRepository {
	return &TenantRepository{Store: newStore[domain.Tenant](db, tenantTable)}
}

// List retrieves tenants with filtering and pagination
func (r *TenantRepository) List(ctx context.Context, filter *domain.TenantFilter) ([]domain.Tenant, int64, error) {
	var w where
	if filter.PropertyID != nil {
		w.eq("property_id", *filter.PropertyID)
	}
	if filter.Status != "" {
		w.eq("status", string(filter.Status))
	}
	if filter.IsPrimary != nil {
		w.eq("is_primary", *filter.IsPrimary)
	}
	return r.list(ctx, filter.ListOptions, &w)
}

// FindPrimary returns the live primary tenant of a property other than
// excludeID, or nil when there is none.
func (r *TenantRepository) FindPrimary(ctx context.Context, propertyID uuid.UUID, excludeID *uuid.UUID) (*domain.Tenant, error) {
	var w where
	w.eq("property_id", propertyID)
	w.eq("is_primary", true)
	w.add("deleted_at IS NULL")
	if excludeID != nil {
		w.add("id <> ?", *excludeID)
	}
	return r.first(ctx, &w)
}

// CountByProperty returns the number of live tenants assigned to a property
func (r *TenantRepository) CountByProperty(ctx context.Context, propertyID uuid.UUID) (int64, error) {
	var w where
	w.eq("property_id", propertyID)
	w.add("deleted_at IS NULL")
	return r.count(ctx, &w)
}
