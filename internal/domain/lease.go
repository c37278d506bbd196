package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentInterval is how often rent is due
type PaymentInterval string

const (
	PaymentIntervalMonthly   PaymentInterval = "monthly"
	PaymentIntervalQuarterly PaymentInterval = "quarterly"
	PaymentIntervalYearly    PaymentInterval = "yearly"
)

// LeaseStatus is the lifecycle state of a lease
type LeaseStatus string

const (
	LeaseStatusDraft      LeaseStatus = "draft"
	LeaseStatusActive     LeaseStatus = "active"
	LeaseStatusTerminated LeaseStatus = "terminated"
	LeaseStatusEnded      LeaseStatus = "ended"
)

// DefaultNoticePeriodMonths applies when a lease input leaves it unset
const DefaultNoticePeriodMonths = 3

// Lease is the rental contract between a property and a tenant
type Lease struct {
	Base
	PropertyID         uuid.UUID       `json:"propertyId" db:"property_id"`
	TenantID           uuid.UUID       `json:"tenantId" db:"tenant_id"`
	LeaseNumber        string          `json:"leaseNumber" db:"lease_number"`
	StartDate          time.Time       `json:"startDate" db:"start_date"`
	EndDate            *time.Time      `json:"endDate,omitempty" db:"end_date"`
	ColdRent           float64         `json:"coldRent" db:"cold_rent"`
	UtilityAdvance     float64         `json:"utilityAdvance" db:"utility_advance"`
	Deposit            float64         `json:"deposit" db:"deposit"`
	PaymentInterval    PaymentInterval `json:"paymentInterval" db:"payment_interval"`
	NoticePeriodMonths int             `json:"noticePeriodMonths" db:"notice_period_months"`
	Status             LeaseStatus     `json:"status" db:"status"`
	Notes              string          `json:"notes" db:"notes"`
}

// LeaseInput represents input for creating or replacing a lease
type LeaseInput struct {
	PropertyID         uuid.UUID       `json:"propertyId" validate:"required"`
	TenantID           uuid.UUID       `json:"tenantId" validate:"required"`
	LeaseNumber        string          `json:"leaseNumber" validate:"max=50"`
	StartDate          time.Time       `json:"startDate" validate:"required"`
	EndDate            *time.Time      `json:"endDate,omitempty"`
	ColdRent           float64         `json:"coldRent" validate:"gte=0"`
	UtilityAdvance     float64         `json:"utilityAdvance" validate:"gte=0"`
	Deposit            float64         `json:"deposit" validate:"gte=0"`
	PaymentInterval    PaymentInterval `json:"paymentInterval,omitempty" validate:"omitempty,oneof=monthly quarterly yearly"`
	NoticePeriodMonths *int            `json:"noticePeriodMonths,omitempty" validate:"omitempty,gte=0,lte=36"`
	Status             LeaseStatus     `json:"status,omitempty" validate:"omitempty,oneof=draft active terminated ended"`
	Notes              string          `json:"notes" validate:"max=5000"`
	// Version, when set on update, must match the stored version
	Version *int `json:"version,omitempty"`
}

// Apply copies the input onto l
func (in *LeaseInput) Apply(l *Lease) {
	l.PropertyID = in.PropertyID
	l.TenantID = in.TenantID
	l.LeaseNumber = in.LeaseNumber
	l.StartDate = in.StartDate
	l.EndDate = in.EndDate
	l.ColdRent = in.ColdRent
	l.UtilityAdvance = in.UtilityAdvance
	l.Deposit = in.Deposit
	l.PaymentInterval = in.PaymentInterval
	if l.PaymentInterval == "" {
		l.PaymentInterval = PaymentIntervalMonthly
	}
	l.NoticePeriodMonths = DefaultNoticePeriodMonths
	if in.NoticePeriodMonths != nil {
		l.NoticePeriodMonths = *in.NoticePeriodMonths
	}
	l.Status = in.Status
	if l.Status == "" {
		l.Status = LeaseStatusActive
	}
	l.Notes = in.Notes
}

// LeaseFilter represents filter options for listing leases
type LeaseFilter struct {
	ListOptions
	PropertyID *uuid.UUID
	TenantID   *uuid.UUID
	Status     LeaseStatus
}
