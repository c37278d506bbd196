package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingCategory separates income from expenses
type BookingCategory string

const (
	BookingCategoryIncome  BookingCategory = "income"
	BookingCategoryExpense BookingCategory = "expense"
)

// BookingKind classifies what a booking is for
type BookingKind string

const (
	BookingKindRent           BookingKind = "rent"
	BookingKindUtilities      BookingKind = "utilities"
	BookingKindDeposit        BookingKind = "deposit"
	BookingKindRepair         BookingKind = "repair"
	BookingKindMaintenance    BookingKind = "maintenance"
	BookingKindInsurance      BookingKind = "insurance"
	BookingKindTax            BookingKind = "tax"
	BookingKindAdministration BookingKind = "administration"
	BookingKindOther          BookingKind = "other"
)

// BookingStatus is the payment state of a booking
type BookingStatus string

const (
	BookingStatusOpen      BookingStatus = "open"
	BookingStatusPaid      BookingStatus = "paid"
	BookingStatusOverdue   BookingStatus = "overdue"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is a financial entry against a property
type Booking struct {
	Base
	PropertyID  uuid.UUID       `json:"propertyId" db:"property_id"`
	TenantID    *uuid.UUID      `json:"tenantId,omitempty" db:"tenant_id"`
	LeaseID     *uuid.UUID      `json:"leaseId,omitempty" db:"lease_id"`
	Category    BookingCategory `json:"category" db:"category"`
	Kind        BookingKind     `json:"kind" db:"kind"`
	Amount      float64         `json:"amount" db:"amount"`
	BookingDate time.Time       `json:"bookingDate" db:"booking_date"`
	DueDate     *time.Time      `json:"dueDate,omitempty" db:"due_date"`
	Description string          `json:"description" db:"description"`
	Reference   string          `json:"reference" db:"reference"`
	Status      BookingStatus   `json:"status" db:"status"`
}

// BookingInput represents input for creating or replacing a booking
type BookingInput struct {
	PropertyID  uuid.UUID       `json:"propertyId" validate:"required"`
	TenantID    *uuid.UUID      `json:"tenantId,omitempty"`
	LeaseID     *uuid.UUID      `json:"leaseId,omitempty"`
	Category    BookingCategory `json:"category" validate:"required,oneof=income expense"`
	Kind        BookingKind     `json:"kind" validate:"required,oneof=rent utilities deposit repair maintenance insurance tax administration other"`
	Amount      float64         `json:"amount" validate:"gt=0"`
	BookingDate time.Time       `json:"bookingDate" validate:"required"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`
	Description string          `json:"description" validate:"max=1000"`
	Reference   string          `json:"reference" validate:"max=100"`
	Status      BookingStatus   `json:"status,omitempty" validate:"omitempty,oneof=open paid overdue cancelled"`
	// Version, when set on update, must match the stored version
	Version *int `json:"version,omitempty"`
}

// Apply copies the input onto b
func (in *BookingInput) Apply(b *Booking) {
	b.PropertyID = in.PropertyID
	b.TenantID = in.TenantID
	b.LeaseID = in.LeaseID
	b.Category = in.Category
	b.Kind = in.Kind
	b.Amount = in.Amount
	b.BookingDate = in.BookingDate
	b.DueDate = in.DueDate
	b.Description = in.Description
	b.Reference = in.Reference
	b.Status = in.Status
	if b.Status == "" {
		b.Status = BookingStatusOpen
	}
}

// BookingFilter represents filter options for listing bookings
type BookingFilter struct {
	ListOptions
	PropertyID *uuid.UUID
	TenantID   *uuid.UUID
	LeaseID    *uuid.UUID
	Category   BookingCategory
	Kind       BookingKind
	Status     BookingStatus
	DateFrom   *time.Time
	DateTo     *time.Time
}
