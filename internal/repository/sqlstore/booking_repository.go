package sqlstore

import (
	"context"

	"github.com/google/uuid"

	"github.com/vermy/vermy/internal/domain"
	"github.com/vermy/vermy/internal/pkg/database"
)

var bookingTable = table{
	name:     "bookings",
	resource: "booking",
	columns: []string{
		"property_id", "tenant_id", "lease_id", "category", "kind", "amount",
		"booking_date", "due_date", "description", "reference", "status",
	},
	search:  []string{"description", "reference"},
	orderBy: "booking_date DESC, id",
}

// BookingRepository handles booking data operations
type BookingRepository struct {
	*Store[domain.Booking, *domain.Booking]
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *database.DB) *BookingRepository {
	return &BookingRepository{Store: newStore[domain.Booking](db, bookingTable)}
}

// List retrieves bookings with filtering and pagination
func (r *BookingRepository) List(ctx context.Context, filter *domain.BookingFilter) ([]domain.Booking, int64, error) {
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
	if filter.Kind != "" {
		w.eq("kind", string(filter.Kind))
	}
	if filter.Status != "" {
		w.eq("status", string(filter.Status))
	}
	if filter.DateFrom != nil {
		w.add("booking_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		w.add("booking_date <= ?", *filter.DateTo)
	}
	return r.list(ctx, filter.ListOptions, &w)
}

// CountByLease returns the number of live bookings posted against a lease
func (r *BookingRepository) CountByLease(ctx context.Context, leaseID uuid.UUID) (int64, error) {
	var w where
	w.eq("lease_id", leaseID)
	w.add("deleted_at IS NULL")
	return r.count(ctx, &w)
}
