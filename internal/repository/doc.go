// Package repository contains data access implementations for Vermy.
//
// Repositories provide persistence operations for domain entities,
// abstracting the relational store behind the two supported backends.
//
// # Architecture
//
// Repository interfaces are defined at the service layer (consumer-defined
// interfaces). The sqlstore subpackage holds the concrete implementation,
// written once against sqlx and shared by SQLite and PostgreSQL.
//
// # Records
//
// Every entity carries an id, creation and update timestamps, an optional
// deletion timestamp and a version counter. Lists hide soft deleted rows
// unless asked to include them; GetByID always returns them.
//
// # Transactions
//
// A transaction started with database.DB.Transaction travels in the
// context. Repository calls made with that context join it.
package repository
