package domain

import (
	"time"
)

// Backup bundle identification
const (
	BackupApp     = "vermy"
	BackupVersion = 1
)

// Collection names, used as bundle keys and metric labels
const (
	CollectionProperties         = "properties"
	CollectionTenants            = "tenants"
	CollectionLeases             = "leases"
	CollectionBookings           = "bookings"
	CollectionUtilityStatements  = "utility_statements"
	CollectionMaintenanceTickets = "maintenance_tickets"
	CollectionDunningNotices     = "dunning_notices"
	CollectionDocuments          = "documents"
)

// Collections lists every backed-up collection with parents before children.
// Restores insert in this order and delete in the reverse order.
var Collections = []string{
	CollectionProperties,
	CollectionTenants,
	CollectionLeases,
	CollectionBookings,
	CollectionUtilityStatements,
	CollectionMaintenanceTickets,
	CollectionDunningNotices,
	CollectionDocuments,
}

// BackupBundle is the JSON document produced by an export
type BackupBundle struct {
	Meta BackupMeta `json:"meta"`
	Data BackupData `json:"data"`
}

// BackupMeta identifies a bundle
type BackupMeta struct {
	App        string    `json:"app"`
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exportedAt"`
}

// BackupData holds one array per collection
type BackupData struct {
	Properties         []Property          `json:"properties"`
	Tenants            []Tenant            `json:"tenants"`
	Leases             []Lease             `json:"leases"`
	Bookings           []Booking           `json:"bookings"`
	UtilityStatements  []UtilityStatement  `json:"utility_statements"`
	MaintenanceTickets []MaintenanceTicket `json:"maintenance_tickets"`
	DunningNotices     []DunningNotice     `json:"dunning_notices"`
	Documents          []Document          `json:"documents"`
}

// Counts returns the number of records per collection
func (d *BackupData) Counts() map[string]int {
	return map[string]int{
		CollectionProperties:         len(d.Properties),
		CollectionTenants:            len(d.Tenants),
		CollectionLeases:             len(d.Leases),
		CollectionBookings:           len(d.Bookings),
		CollectionUtilityStatements:  len(d.UtilityStatements),
		CollectionMaintenanceTickets: len(d.MaintenanceTickets),
		CollectionDunningNotices:     len(d.DunningNotices),
		CollectionDocuments:          len(d.Documents),
	}
}

// ImportResult reports what a restore wrote
type ImportResult struct {
	Counts     map[string]int `json:"counts"`
	ImportedAt time.Time      `json:"importedAt"`
}

// BackupFile describes a bundle kept in the object store
type BackupFile struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}
