package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vermy/vermy/internal/domain"
)

func TestDashboardRepository_Summary(t *testing.T) {
	db := getTestDB(t)
	properties := NewPropertyRepository(db)
	ctx := context.Background()

	p := createTestProperty(t, properties, "Wohnung", domain.PropertyKindApartment)
	deleted := createTestProperty(t, properties, "Weg", domain.PropertyKindApartment)
	require.NoError(t, properties.SoftDelete(ctx, deleted.ID))

	tenant := createTestTenant(t, NewTenantRepository(db), "anna", "Schmidt", &p.ID, true)
	createTestLease(t, NewLeaseRepository(db), p.ID, tenant.ID)

	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -10)
	bookings := NewBookingRepository(db)
	for _, b := range []*domain.Booking{
		{Category: domain.BookingCategoryIncome, Status: domain.BookingStatusOpen, Amount: 100, DueDate: &past},
		{Category: domain.BookingCategoryIncome, Status: domain.BookingStatusOpen, Amount: 50},
		{Category: domain.BookingCategoryIncome, Status: domain.BookingStatusPaid, Amount: 900},
	} {
		b.PropertyID = p.ID
		b.Kind = domain.BookingKindRent
		b.BookingDate = past
		require.NoError(t, bookings.Create(ctx, b))
	}

	require.NoError(t, NewMaintenanceTicketRepository(db).Create(ctx, &domain.MaintenanceTicket{
		PropertyID: p.ID,
		Title:      "Heizung defekt",
		Category:   domain.TicketCategoryRepair,
		Priority:   domain.TicketPriorityUrgent,
		Status:     domain.TicketStatusOpen,
		ReportedAt: past,
	}))

	s, err := NewDashboardRepository(db).Summary(ctx, now)
	require.NoError(t, err)

	assert.Equal(t, int64(1), s.Properties)
	assert.Equal(t, int64(1), s.VacantProperties)
	assert.Equal(t, int64(1), s.Tenants)
	assert.Equal(t, int64(1), s.ActiveLeases)
	assert.InDelta(t, 750.0, s.MonthlyColdRent, 0.001)
	assert.Equal(t, int64(2), s.OpenBookings)
	assert.InDelta(t, 150.0, s.OpenBookingsAmount, 0.001)
	assert.Equal(t, int64(1), s.OverdueBookings)
	assert.Equal(t, int64(1), s.OpenTickets)
	assert.Equal(t, int64(1), s.UrgentTickets)
	assert.Equal(t, int64(0), s.OpenDunningNotices)
	assert.Equal(t, now, s.GeneratedAt)
}
