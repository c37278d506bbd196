package main

import (
	"github.com/vermy/vermy/internal/app"
	"github.com/vermy/vermy/internal/domain"
	"github.com/vermy/vermy/internal/handler"
)

// Handlers holds all handler instances
type Handlers struct {
	Health *handler.HealthHandler
	Docs   *handler.DocsHandler
	Auth   *handler.AuthHandler

	Properties         *handler.ResourceHandler[domain.Property, domain.PropertyInput, domain.PropertyFilter]
	Tenants            *handler.ResourceHandler[domain.Tenant, domain.TenantInput, domain.TenantFilter]
	Leases             *handler.ResourceHandler[domain.Lease, domain.LeaseInput, domain.LeaseFilter]
	Bookings           *handler.ResourceHandler[domain.Booking, domain.BookingInput, domain.BookingFilter]
	UtilityStatements  *handler.ResourceHandler[domain.UtilityStatement, domain.UtilityStatementInput, domain.UtilityStatementFilter]
	MaintenanceTickets *handler.ResourceHandler[domain.MaintenanceTicket, domain.MaintenanceTicketInput, domain.MaintenanceTicketFilter]
	DunningNotices     *handler.ResourceHandler[domain.DunningNotice, domain.DunningNoticeInput, domain.DunningNoticeFilter]
	Documents          *handler.ResourceHandler[domain.Document, domain.DocumentInput, domain.DocumentFilter]

	PropertyExtras *handler.PropertyHandler
	DocumentExtras *handler.DocumentHandler
	Search         *handler.SearchHandler
	Dashboard      *handler.DashboardHandler
	Backup         *handler.BackupHandler
}

// initHandlers initializes all handlers
func initHandlers(svcs *app.Services, dbs *app.Databases, jobs handler.BackupEnqueuer, version string) *Handlers {
	onWrite := svcs.Dashboard.Invalidate

	checks := []handler.HealthCheck{
		{Name: "database", Required: true, Ping: dbs.DB.PingContext},
	}
	if dbs.Redis != nil {
		checks = append(checks, handler.HealthCheck{Name: "redis", Ping: dbs.Redis.Ping})
	}
	if dbs.Store != nil {
		checks = append(checks, handler.HealthCheck{Name: "object_store", Ping: dbs.Store.Ping})
	}

	return &Handlers{
		Health: handler.NewHealthHandler(version, checks...),
		Docs:   handler.NewDocsHandler("Vermy API"),
		Auth:   handler.NewAuthHandler(svcs.Auth),

		Properties: handler.NewResourceHandler[domain.Property, domain.PropertyInput, domain.PropertyFilter](
			svcs.Property, handler.PropertyFilter, onWrite,
		),
		Tenants: handler.NewResourceHandler[domain.Tenant, domain.TenantInput, domain.TenantFilter](
			svcs.Tenant, handler.TenantFilter, onWrite,
		),
		Leases: handler.NewResourceHandler[domain.Lease, domain.LeaseInput, domain.LeaseFilter](
			svcs.Lease, handler.LeaseFilter, onWrite,
		),
		Bookings: handler.NewResourceHandler[domain.Booking, domain.BookingInput, domain.BookingFilter](
			svcs.Booking, handler.BookingFilter, onWrite,
		),
		UtilityStatements: handler.NewResourceHandler[domain.UtilityStatement, domain.UtilityStatementInput, domain.UtilityStatementFilter](
			svcs.UtilityStatement, handler.UtilityStatementFilter, onWrite,
		),
		MaintenanceTickets: handler.NewResourceHandler[domain.MaintenanceTicket, domain.MaintenanceTicketInput, domain.MaintenanceTicketFilter](
			svcs.MaintenanceTicket, handler.MaintenanceTicketFilter, onWrite,
		),
		DunningNotices: handler.NewResourceHandler[domain.DunningNotice, domain.DunningNoticeInput, domain.DunningNoticeFilter](
			svcs.DunningNotice, handler.DunningNoticeFilter, onWrite,
		),
		Documents: handler.NewResourceHandler[domain.Document, domain.DocumentInput, domain.DocumentFilter](
			svcs.Document, handler.DocumentFilter, onWrite,
		),

		PropertyExtras: handler.NewPropertyHandler(svcs.Property, svcs.Tenant),
		DocumentExtras: handler.NewDocumentHandler(svcs.Document),
		Search:         handler.NewSearchHandler(svcs.Search),
		Dashboard:      handler.NewDashboardHandler(svcs.Dashboard),
		Backup:         handler.NewBackupHandler(svcs.Backup, jobs),
	}
}
