package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/vermy/vermy/internal/domain"
	"github.com/vermy/vermy/internal/pkg/database"
)

// DashboardRepository computes aggregate figures over live records
type DashboardRepository struct {
	db *database.DB
}

// NewDashboardRepository creates a new dashboard repository
func NewDashboardRepository(db *database.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

type aggregate struct {
	Count int64   `db:"n"`
	Sum   float64 `db:"total"`
}

// Summary returns the dashboard figures as of now
func (r *DashboardRepository) Summary(ctx context.Context, now time.Time) (*domain.DashboardSummary, error) {
	s := &domain.DashboardSummary{GeneratedAt: now}

	queries := []struct {
		dst   *int64
		sum   *float64
		query string
		args  []interface{}
	}{
		{dst: &s.Properties, query: `SELECT COUNT(*) AS n, 0 AS total FROM properties WHERE deleted_at IS NULL`},
		{dst: &s.VacantProperties, query: `SELECT COUNT(*) AS n, 0 AS total FROM properties WHERE deleted_at IS NULL AND status = ?`,
			args: []interface{}{string(domain.PropertyStatusVacant)}},
		{dst: &s.Tenants, query: `SELECT COUNT(*) AS n, 0 AS total FROM tenants WHERE deleted_at IS NULL AND status = ?`,
			args: []interface{}{string(domain.TenantStatusActive)}},
		{dst: &s.ActiveLeases, sum: &s.MonthlyColdRent,
			query: `SELECT COUNT(*) AS n, COALESCE(SUM(cold_rent), 0) AS total FROM leases WHERE deleted_at IS NULL AND status = ?`,
			args:  []interface{}{string(domain.LeaseStatusActive)}},
		{dst: &s.OpenBookings, sum: &s.OpenBookingsAmount,
			query: `SELECT COUNT(*) AS n, COALESCE(SUM(amount), 0) AS total FROM bookings WHERE deleted_at IS NULL AND category = ? AND status IN (?, ?)`,
			args:  []interface{}{string(domain.BookingCategoryIncome), string(domain.BookingStatusOpen), string(domain.BookingStatusOverdue)}},
		{dst: &s.OverdueBookings,
			query: `SELECT COUNT(*) AS n, 0 AS total FROM bookings WHERE deleted_at IS NULL AND (status = ? OR (status = ? AND due_date IS NOT NULL AND due_date < ?))`,
			args:  []interface{}{string(domain.BookingStatusOverdue), string(domain.BookingStatusOpen), now}},
		{dst: &s.OpenTickets, query: `SELECT COUNT(*) AS n, 0 AS total FROM maintenance_tickets WHERE deleted_at IS NULL AND status IN (?, ?)`,
			args: []interface{}{string(domain.TicketStatusOpen), string(domain.TicketStatusInProgress)}},
		{dst: &s.UrgentTickets, query: `SELECT COUNT(*) AS n, 0 AS total FROM maintenance_tickets WHERE deleted_at IS NULL AND status IN (?, ?) AND priority = ?`,
			args: []interface{}{string(domain.TicketStatusOpen), string(domain.TicketStatusInProgress), string(domain.TicketPriorityUrgent)}},
		{dst: &s.OpenDunningNotices, query: `SELECT COUNT(*) AS n, 0 AS total FROM dunning_notices WHERE deleted_at IS NULL AND status IN (?, ?, ?)`,
			args: []interface{}{string(domain.DunningStatusOpen), string(domain.DunningStatusSent), string(domain.DunningStatusEscalated)}},
	}

	conn := r.db.Conn(ctx)
	for _, q := range queries {
		var agg aggregate
		if err := sqlx.GetContext(ctx, conn, &agg, conn.Rebind(q.query), q.args...); err != nil {
			return nil, fmt.Errorf("failed to compute dashboard summary: %w", err)
		}
		*q.dst = agg.Count
		if q.sum != nil {
			*q.sum = agg.Sum
		}
	}

	return s, nil
}
