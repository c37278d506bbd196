// Package domain contains the entities of the property management system
// and the input, filter and result types the services exchange.
//
// Every stored record embeds Base, which carries the id, timestamps, the
// soft delete marker and the optimistic version counter.
//
// # Entities
//
//   - Property: a building or a unit inside a house
//   - Tenant: a person renting a property, optionally its primary tenant
//   - Lease: the rental contract between a property and a tenant
//   - Booking: an income or expense entry
//   - UtilityStatement: the yearly utility cost breakdown of a property
//   - MaintenanceTicket: a reported defect or planned maintenance
//   - DunningNotice: a payment reminder for an overdue booking
//   - Document: a file attached to a property, tenant or lease
//
// # Naming Conventions
//
// Types ending in "Input" are used for create/update operations.
// Types ending in "Filter" are used for query operations.
package domain
