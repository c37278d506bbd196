// Package service contains the business logic layer for Vermy.
//
// Services coordinate between handlers and repositories, implementing
// domain rules and orchestrating operations across multiple repositories.
//
// Services depend on repository interfaces declared next to them, so the
// sqlstore implementation and test fakes are interchangeable. Each service
// handles one collection; search, dashboard and backup read across all of
// them.
//
// # Rules enforced here
//
//   - references to properties, tenants, leases and bookings must point at
//     live records
//   - a property has at most one primary tenant
//   - parents cannot be soft deleted while live children depend on them
//   - updates carrying a version fail with a conflict when it is stale
//
// # Thread Safety
//
// All services are safe for concurrent use from multiple goroutines.
package service
