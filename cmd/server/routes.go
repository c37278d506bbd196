package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// registerRoutes registers all HTTP routes
func registerRoutes(app *fiber.App, deps *Dependencies) {
	h := deps.Handlers

	// Health, metrics and docs (no auth required)
	h.Health.RegisterRoutes(app)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	h.Docs.RegisterRoutes(app)

	api := app.Group("/api")

	// Login is the only public API route
	var loginLimit []fiber.Handler
	if deps.LoginRateLimit != nil {
		loginLimit = append(loginLimit, deps.LoginRateLimit.Handler())
	}
	h.Auth.RegisterPublicRoutes(api, loginLimit...)

	api.Use(deps.AuthMiddleware.RequireJWT())
	if deps.RateLimitMiddleware != nil {
		api.Use(deps.RateLimitMiddleware.Handler())
	}
	h.Auth.RegisterRoutes(api)

	h.PropertyExtras.RegisterRoutes(h.Properties.RegisterRoutes(api, "/properties"))
	h.Tenants.RegisterRoutes(api, "/tenants")
	h.Leases.RegisterRoutes(api, "/leases")
	h.Bookings.RegisterRoutes(api, "/bookings")
	h.UtilityStatements.RegisterRoutes(api, "/utility-statements")
	h.MaintenanceTickets.RegisterRoutes(api, "/maintenance-tickets")
	h.DunningNotices.RegisterRoutes(api, "/dunning-notices")
	h.DocumentExtras.RegisterRoutes(h.Documents.RegisterRoutes(api, "/documents"))

	h.Search.RegisterRoutes(api)
	h.Dashboard.RegisterRoutes(api)
	h.Backup.RegisterRoutes(api)
}
