package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Salutation is the form of address of a tenant
type Salutation string

const (
	SalutationMr      Salutation = "mr"
	SalutationMs      Salutation = "ms"
	SalutationDiverse Salutation = "diverse"
	SalutationCompany Salutation = "company"
)

// TenantStatus is the relationship status of a tenant
type TenantStatus string

const (
	TenantStatusActive   TenantStatus = "active"
	TenantStatusFormer   TenantStatus = "former"
	TenantStatusProspect TenantStatus = "prospect"
)

// Tenant is a person renting a property. At most one non-deleted tenant per
// property carries the primary flag.
type Tenant struct {
	Base
	Salutation  Salutation   `json:"salutation,omitempty" db:"salutation"`
	FirstName   string       `json:"firstName" db:"first_name"`
	LastName    string       `json:"lastName" db:"last_name"`
	Email       string       `json:"email" db:"email"`
	Phone       string       `json:"phone" db:"phone"`
	Mobile      string       `json:"mobile" db:"mobile"`
	PropertyID  *uuid.UUID   `json:"propertyId,omitempty" db:"property_id"`
	IsPrimary   bool         `json:"isPrimary" db:"is_primary"`
	MoveInDate  *time.Time   `json:"moveInDate,omitempty" db:"move_in_date"`
	MoveOutDate *time.Time   `json:"moveOutDate,omitempty" db:"move_out_date"`
	Status      TenantStatus `json:"status" db:"status"`
	Notes       string       `json:"notes" db:"notes"`
}

// FullName returns first and last name joined by a space
func (t *Tenant) FullName() string {
	return strings.TrimSpace(t.FirstName + " " + t.LastName)
}

// TenantInput represents input for creating or replacing a tenant
type TenantInput struct {
	Salutation  Salutation   `json:"salutation,omitempty" validate:"omitempty,oneof=mr ms diverse company"`
	FirstName   string       `json:"firstName" validate:"required,max=100"`
	LastName    string       `json:"lastName" validate:"required,max=100"`
	Email       string       `json:"email" validate:"omitempty,email,max=254"`
	Phone       string       `json:"phone" validate:"max=50"`
	Mobile      string       `json:"mobile" validate:"max=50"`
	PropertyID  *uuid.UUID   `json:"propertyId,omitempty"`
	IsPrimary   bool         `json:"isPrimary"`
	MoveInDate  *time.Time   `json:"moveInDate,omitempty"`
	MoveOutDate *time.Time   `json:"moveOutDate,omitempty"`
	Status      TenantStatus `json:"status,omitempty" validate:"omitempty,oneof=active former prospect"`
	Notes       string       `json:"notes" validate:"max=5000"`
	// Version, when set on update, must match the stored version
	Version *int `json:"version,omitempty"`
}

// Apply copies the input onto t
func (in *TenantInput) Apply(t *Tenant) {
	t.Salutation = in.Salutation
	t.FirstName = strings.TrimSpace(in.FirstName)
	t.LastName = strings.TrimSpace(in.LastName)
	t.Email = strings.ToLower(strings.TrimSpace(in.Email))
	t.Phone = in.Phone
	t.Mobile = in.Mobile
	t.PropertyID = in.PropertyID
	t.IsPrimary = in.IsPrimary
	t.MoveInDate = in.MoveInDate
	t.MoveOutDate = in.MoveOutDate
	t.Status = in.Status
	if t.Status == "" {
		t.Status = TenantStatusActive
	}
	t.Notes = in.Notes
}

// TenantFilter represents filter options for listing tenants
type TenantFilter struct {
	ListOptions
	PropertyID *uuid.UUID
	Status     TenantStatus
	IsPrimary  *bool
}
