package sqlstore

import (
	"context"

	"github.com/vermy/vermy/internal/domain"
	"github.com/vermy/vermy/internal/pkg/database"
)

var leaseTable = table{
	name:     "leases",
	resource: "lease",
	columns: []string{
		"property_id", "tenant_id", "lease_number", "start_date", "end_date",
		"cold_rent", "utility_advance", "deposit", "payment_interval",
		"notice_period_months", "status", "notes",
	},
	search:  []string{"lease_number", "notes"},
	orderBy: "start_date DESC, id",
}

// LeaseRepository handles lease data operations
type LeaseRepository struct {
	*Store[domain.Lease, *domain.Lease]
}

// NewLeaseRepository creates a new lease repository
func NewLeaseRepository(db *database.DB) *LeaseRepository {
	return &LeaseRepository{Store: newStore[domain.Lease](db, leaseTable)}
}

// List retrieves leases with filtering and pagination
func (r *LeaseRepository) List(ctx context.Context, filter *domain.LeaseFilter) ([]domain.Lease, int64, error) {
	var w where
	if filter.PropertyID != nil {
		w.eq("property_id", *filter.PropertyID)
	}
	if filter.TenantID != nil {
		w.eq("tenant_id", *filter.TenantID)
	}
	if filter.Status != "" {
		w.eq("status", string(filter.Status))
	}
	return r.list(ctx, filter.ListOptions, &w)
}
