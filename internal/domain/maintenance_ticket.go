package domain

import (
	"time"

	"github.com/google/uuid"
)

// TicketCategory classifies a maintenance ticket
type TicketCategory string

const (
	TicketCategoryMaintenance   TicketCategory = "maintenance"
	TicketCategoryRepair        TicketCategory = "repair"
	TicketCategoryDefect        TicketCategory = "defect"
	TicketCategoryInspection    TicketCategory = "inspection"
	TicketCategoryModernization TicketCategory = "modernization"
)

// TicketPriority orders tickets by urgency
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityNormal TicketPriority = "normal"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// TicketStatus is the processing state of a ticket
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusDone       TicketStatus = "done"
	TicketStatusRejected   TicketStatus = "rejected"
)

// MaintenanceTicket is a reported defect or planned maintenance job
type MaintenanceTicket struct {
	Base
	PropertyID   uuid.UUID      `json:"propertyId" db:"property_id"`
	TenantID     *uuid.UUID     `json:"tenantId,omitempty" db:"tenant_id"`
	Title        string         `json:"title" db:"title"`
	Description  string         `json:"description" db:"description"`
	Category     TicketCategory `json:"category" db:"category"`
	Priority     TicketPriority `json:"priority" db:"priority"`
	Status       TicketStatus   `json:"status" db:"status"`
	CostEstimate *float64       `json:"costEstimate,omitempty" db:"cost_estimate"`
	CostActual   *float64       `json:"costActual,omitempty" db:"cost_actual"`
	ReportedAt   time.Time      `json:"reportedAt" db:"reported_at"`
	CompletedAt  *time.Time     `json:"completedAt,omitempty" db:"completed_at"`
	Contractor   string         `json:"contractor" db:"contractor"`
}

// IsOpen reports whether work on the ticket is still pending
func (m *MaintenanceTicket) IsOpen() bool {
	return m.Status == TicketStatusOpen || m.Status == TicketStatusInProgress
}

// MaintenanceTicketInput represents input for creating or replacing a ticket
type MaintenanceTicketInput struct {
	PropertyID   uuid.UUID      `json:"propertyId" validate:"required"`
	TenantID     *uuid.UUID     `json:"tenantId,omitempty"`
	Title        string         `json:"title" validate:"required,max=200"`
	Description  string         `json:"description" validate:"max=5000"`
	Category     TicketCategory `json:"category" validate:"required,oneof=maintenance repair defect inspection modernization"`
	Priority     TicketPriority `json:"priority,omitempty" validate:"omitempty,oneof=low normal high urgent"`
	Status       TicketStatus   `json:"status,omitempty" validate:"omitempty,oneof=open in_progress done rejected"`
	CostEstimate *float64       `json:"costEstimate,omitempty" validate:"omitempty,gte=0"`
	CostActual   *float64       `json:"costActual,omitempty" validate:"omitempty,gte=0"`
	ReportedAt   *time.Time     `json:"reportedAt,omitempty"`
	CompletedAt  *time.Time     `json:"completedAt,omitempty"`
	Contractor   string         `json:"contractor" validate:"max=200"`
	// Version, when set on update, must match the stored version
	Version *int `json:"version,omitempty"`
}

// Apply copies the input onto m. ReportedAt is only overwritten when given.
func (in *MaintenanceTicketInput) Apply(m *MaintenanceTicket) {
	m.PropertyID = in.PropertyID
	m.TenantID = in.TenantID
	m.Title = in.Title
	m.Description = in.Description
	m.Category = in.Category
	m.Priority = in.Priority
	if m.Priority == "" {
		m.Priority = TicketPriorityNormal
	}
	m.Status = in.Status
	if m.Status == "" {
		m.Status = TicketStatusOpen
	}
	m.CostEstimate = in.CostEstimate
	m.CostActual = in.CostActual
	if in.ReportedAt != nil {
		m.ReportedAt = *in.ReportedAt
	}
	m.CompletedAt = in.CompletedAt
	m.Contractor = in.Contractor
}

// MaintenanceTicketFilter represents filter options for listing tickets
type MaintenanceTicketFilter struct {
	ListOptions
	PropertyID *uuid.UUID
	TenantID   *uuid.UUID
	Category   TicketCategory
	Priority   TicketPriority
	Status     TicketStatus
}
