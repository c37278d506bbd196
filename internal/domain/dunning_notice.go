package domain

import (
	"time"

	"github.com/google/uuid"
)

// Dunning levels
const (
	MinDunningLevel = 1
	MaxDunningLevel = 3
)

// DunningStatus is the state of a dunning notice
type DunningStatus string

const (
	DunningStatusOpen      DunningStatus = "open"
	DunningStatusSent      DunningStatus = "sent"
	DunningStatusPaid      DunningStatus = "paid"
	DunningStatusEscalated DunningStatus = "escalated"
	DunningStatusCancelled DunningStatus = "cancelled"
)

// DunningNotice is a payment reminder sent to a tenant
type DunningNotice struct {
	Base
	PropertyID uuid.UUID     `json:"propertyId" db:"property_id"`
	TenantID   uuid.UUID     `json:"tenantId" db:"tenant_id"`
	BookingID  *uuid.UUID    `json:"bookingId,omitempty" db:"booking_id"`
	Level      int           `json:"level" db:"level"`
	AmountDue  float64       `json:"amountDue" db:"amount_due"`
	Fee        float64       `json:"fee" db:"fee"`
	NoticeDate time.Time     `json:"noticeDate" db:"notice_date"`
	DueDate    time.Time     `json:"dueDate" db:"due_date"`
	Status     DunningStatus `json:"status" db:"status"`
	Notes      string        `json:"notes" db:"notes"`
}

// TotalDue returns the claimed amount including the dunning fee
func (d *DunningNotice) TotalDue() float64 {
	return d.AmountDue + d.Fee
}

// DunningNoticeInput represents input for creating or replacing a notice
type DunningNoticeInput struct {
	PropertyID uuid.UUID     `json:"propertyId" validate:"required"`
	TenantID   uuid.UUID     `json:"tenantId" validate:"required"`
	BookingID  *uuid.UUID    `json:"bookingId,omitempty"`
	Level      int           `json:"level" validate:"required,min=1,max=3"`
	AmountDue  float64       `json:"amountDue" validate:"gt=0"`
	Fee        float64       `json:"fee" validate:"gte=0"`
	NoticeDate time.Time     `json:"noticeDate" validate:"required"`
	DueDate    time.Time     `json:"dueDate" validate:"required"`
	Status     DunningStatus `json:"status,omitempty" validate:"omitempty,oneof=open sent paid escalated cancelled"`
	Notes      string        `json:"notes" validate:"max=5000"`
	// Version, when set on update, must match the stored version
	Version *int `json:"version,omitempty"`
}

// Apply copies the input onto d
func (in *DunningNoticeInput) Apply(d *DunningNotice) {
	d.PropertyID = in.PropertyID
	d.TenantID = in.TenantID
	d.BookingID = in.BookingID
	d.Level = in.Level
	d.AmountDue = in.AmountDue
	d.Fee = in.Fee
	d.NoticeDate = in.NoticeDate
	d.DueDate = in.DueDate
	d.Status = in.Status
	if d.Status == "" {
		d.Status = DunningStatusOpen
	}
	d.Notes = in.Notes
}

// DunningNoticeFilter represents filter options for listing notices
type DunningNoticeFilter struct {
	ListOptions
	PropertyID *uuid.UUID
	TenantID   *uuid.UUID
	BookingID  *uuid.UUID
	Level      int
	Status     DunningStatus
}
