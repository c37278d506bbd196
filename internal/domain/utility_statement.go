package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

// UtilityStatementStatus is the billing state of a utility statement
type UtilityStatementStatus string

const (
	UtilityStatementStatusDraft   UtilityStatementStatus = "draft"
	UtilityStatementStatusIssued  UtilityStatementStatus = "issued"
	UtilityStatementStatusSettled UtilityStatementStatus = "settled"
)

// UtilityStatement is the yearly utility cost breakdown of a property
type UtilityStatement struct {
	Base
	PropertyID  uuid.UUID              `json:"propertyId" db:"property_id"`
	Year        int                    `json:"year" db:"year"`
	Heating     float64                `json:"heating" db:"heating"`
	Water       float64                `json:"water" db:"water"`
	Electricity float64                `json:"electricity" db:"electricity"`
	Waste       float64                `json:"waste" db:"waste"`
	Caretaker   float64                `json:"caretaker" db:"caretaker"`
	Insurance   float64                `json:"insurance" db:"insurance"`
	PropertyTax float64                `json:"propertyTax" db:"property_tax"`
	Cleaning    float64                `json:"cleaning" db:"cleaning"`
	Other       float64                `json:"other" db:"other"`
	Prepayments float64                `json:"prepayments" db:"prepayments"`
	Status      UtilityStatementStatus `json:"status" db:"status"`
	Notes       string                 `json:"notes" db:"notes"`
}

// Total returns the sum of all cost categories
func (u *UtilityStatement) Total() float64 {
	return u.Heating + u.Water + u.Electricity + u.Waste + u.Caretaker +
		u.Insurance + u.PropertyTax + u.Cleaning + u.Other
}

// Balance returns the amount still owed; negative means a refund
func (u *UtilityStatement) Balance() float64 {
	return u.Total() - u.Prepayments
}

// MarshalJSON adds the derived total and balance
func (u UtilityStatement) MarshalJSON() ([]byte, error) {
	type plain UtilityStatement
	return json.Marshal(struct {
		plain
		Total   float64 `json:"total"`
		Balance float64 `json:"balance"`
	}{plain(u), u.Total(), u.Balance()})
}

// UtilityStatementInput represents input for creating or replacing a statement
type UtilityStatementInput struct {
	PropertyID  uuid.UUID              `json:"propertyId" validate:"required"`
	Year        int                    `json:"year" validate:"required,gte=1900,lte=2200"`
	Heating     float64                `json:"heating" validate:"gte=0"`
	Water       float64                `json:"water" validate:"gte=0"`
	Electricity float64                `json:"electricity" validate:"gte=0"`
	Waste       float64                `json:"waste" validate:"gte=0"`
	Caretaker   float64                `json:"caretaker" validate:"gte=0"`
	Insurance   float64                `json:"insurance" validate:"gte=0"`
	PropertyTax float64                `json:"propertyTax" validate:"gte=0"`
	Cleaning    float64                `json:"cleaning" validate:"gte=0"`
	Other       float64                `json:"other" validate:"gte=0"`
	Prepayments float64                `json:"prepayments" validate:"gte=0"`
	Status      UtilityStatementStatus `json:"status,omitempty" validate:"omitempty,oneof=draft issued settled"`
	Notes       string                 `json:"notes" validate:"max=5000"`
	// Version, when set on update, must match the stored version
	Version *int `json:"version,omitempty"`
}

// Apply copies the input onto u
func (in *UtilityStatementInput) Apply(u *UtilityStatement) {
	u.PropertyID = in.PropertyID
	u.Year = in.Year
	u.Heating = in.Heating
	u.Water = in.Water
	u.Electricity = in.Electricity
	u.Waste = in.Waste
	u.Caretaker = in.Caretaker
	u.Insurance = in.Insurance
	u.PropertyTax = in.PropertyTax
	u.Cleaning = in.Cleaning
	u.Other = in.Other
	u.Prepayments = in.Prepayments
	u.Status = in.Status
	if u.Status == "" {
		u.Status = UtilityStatementStatusDraft
	}
	u.Notes = in.Notes
}

// UtilityStatementFilter represents filter options for listing statements
type UtilityStatementFilter struct {
	ListOptions
	PropertyID *uuid.UUID
	Year       int
	Status     UtilityStatementStatus
}
