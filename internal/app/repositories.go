package app

import (
	"github.com/vermy/vermy/internal/pkg/database"
	"github.com/vermy/vermy/internal/repository/sqlstore"
)

// Repositories holds all repository instances
type Repositories struct {
	Property          *sqlstore.PropertyRepository
	Tenant            *sqlstore.TenantRepository
	Lease             *sqlstore.LeaseRepository
	Booking           *sqlstore.BookingRepository
	UtilityStatement  *sqlstore.UtilityStatementRepository
	MaintenanceTicket *sqlstore.MaintenanceTicketRepository
	DunningNotice     *sqlstore.DunningNoticeRepository
	Document          *sqlstore.DocumentRepository
	Dashboard         *sqlstore.DashboardRepository
	User              *sqlstore.UserRepository
}

// NewRepositories creates the repositories over db
func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Property:          sqlstore.NewPropertyRepository(db),
		Tenant:            sqlstore.NewTenantRepository(db),
		Lease:             sqlstore.NewLeaseRepository(db),
		Booking:           sqlstore.NewBookingRepository(db),
		UtilityStatement:  sqlstore.NewUtilityStatementRepository(db),
		MaintenanceTicket: sqlstore.NewMaintenanceTicketRepository(db),
		DunningNotice:     sqlstore.NewDunningNoticeRepository(db),
		Document:          sqlstore.NewDocumentRepository(db),
		Dashboard:         sqlstore.NewDashboardRepository(db),
		User:              sqlstore.NewUserRepository(db),
	}
}
