package sqlstore

import (
	"context"

	"github.com/google/uuid"

	"github.com/vermy/vermy/internal/domain"
	"github.com/vermy/vermy/internal/pkg/database"
)

var dunningNoticeTable = table{
	name:     "dunning_notices",
	resource: "dunning notice",
	columns: []string{
		"property_id", "tenant_id", "booking_id", "level", "amount_due", "fee",
		"notice_date", "due_date", "status", "notes",
	},
	search:  []string{"notes"},
	orderBy: "notice_date DESC, id",
}

// DunningNoticeRepository handles dunning notice data operations
type DunningNoticeRepository struct {
	*Store[domain.DunningNotice, *domain.DunningNotice]
}

// NewDunningNoticeRepository creates a new dunning notice repository
func NewDunningNoticeRepository(db *database.DB) *DunningNoticeRepository {
	return &DunningNoticeRepository{Store: newStore[domain.DunningNotice](db, dunningNoticeTable)}
}

// List retrieves dunning notices with filtering and pagination
func (r *DunningNoticeRepository) List(ctx context.Context, filter *domain.DunningNoticeFilter) ([]domain.DunningNotice, int64, error) {
	var w where
	if filter.PropertyID != nil {
		w.eq("property_id", *filter.PropertyID)
	}
	if filter.TenantID != nil {
		w.eq("tenant_id", *filter.TenantID)
	}
	if filter.BookingID != nil {
		w.eq("booking_id", *filter.BookingID)
	}
	if filter.Level != 0 {
		w.eq("level", filter.Level)
	}
	if filter.Status != "" {
		w.eq("status", string(filter.Status))
	}
	return r.list(ctx, filter.ListOptions, &w)
}

// CountByBooking returns the number of live notices referencing a booking
func (r *DunningNoticeRepository) CountByBooking(ctx context.Context, bookingID uuid.UUID) (int64, error) {
	var w where
	w.eq("booking_id", bookingID)
	w.add("deleted_at IS NULL")
	return r.count(ctx, &w)
}
