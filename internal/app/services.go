package app

import (
	"time"

	"github.com/vermy/vermy/internal/config"
	"github.com/vermy/vermy/internal/pkg/database"
	"github.com/vermy/vermy/internal/service"
)

// DashboardCacheTTL bounds how stale a cached dashboard summary may get
const DashboardCacheTTL = 30 * time.Second

// Services holds all service instances
type Services struct {
	Property          *service.PropertyService
	Tenant            *service.TenantService
	Lease             *service.LeaseService
	Booking           *service.BookingService
	UtilityStatement  *service.UtilityStatementService
	MaintenanceTicket *service.MaintenanceTicketService
	DunningNotice     *service.DunningNoticeService
	Document          *service.DocumentService
	Search            *service.SearchService
	Dashboard         *service.DashboardService
	Backup            *service.BackupService
	Auth              *service.AuthService
}

// NewServices creates all services. Optional backends stay untyped nil
// interfaces when they are missing.
func NewServices(cfg *config.Config, dbs *Databases, repos *Repositories) *Services {
	tx := dbs.DB

	var (
		blobs   service.BlobStore
		archive service.BackupArchive
		cache   service.JSONCache
	)
	if dbs.Store != nil {
		blobs = dbs.Store
		archive = dbs.Store
	}
	if dbs.Redis != nil {
		cache = database.NewCache(dbs.Redis, "vermy:", DashboardCacheTTL)
	}

	svcs := &Services{}
	svcs.Property = service.NewPropertyService(repos.Property, repos.Tenant, tx)
	svcs.Tenant = service.NewTenantService(repos.Tenant, repos.Property, tx)
	svcs.Lease = service.NewLeaseService(repos.Lease, repos.Property, repos.Tenant, repos.Booking, tx)
	svcs.Booking = service.NewBookingService(repos.Booking, repos.Property, repos.Tenant, repos.Lease, repos.DunningNotice, tx)
	svcs.UtilityStatement = service.NewUtilityStatementService(repos.UtilityStatement, repos.Property, tx)
	svcs.MaintenanceTicket = service.NewMaintenanceTicketService(repos.MaintenanceTicket, repos.Property, repos.Tenant, tx)
	svcs.DunningNotice = service.NewDunningNoticeService(repos.DunningNotice, repos.Property, repos.Tenant, repos.Booking, tx)
	svcs.Document = service.NewDocumentService(repos.Document, repos.Property, repos.Tenant, repos.Lease, blobs, tx)
	svcs.Search = service.NewSearchService(repos.Property, repos.Tenant, repos.Lease)
	svcs.Dashboard = service.NewDashboardService(repos.Dashboard, cache)
	svcs.Auth = service.NewAuthService(cfg, repos.User)

	svcs.Backup = service.NewBackupService(service.BackupStores{
		Properties:         repos.Property,
		Tenants:            repos.Tenant,
		Leases:             repos.Lease,
		Bookings:           repos.Booking,
		UtilityStatements:  repos.UtilityStatement,
		MaintenanceTickets: repos.MaintenanceTicket,
		DunningNotices:     repos.DunningNotice,
		Documents:          repos.Document,
	}, tx, svcs.Document, archive, cfg.Backup.Prefix)
	svcs.Backup.OnImport(svcs.Dashboard.Invalidate)

	return svcs
}
