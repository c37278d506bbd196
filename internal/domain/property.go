package domain

import (
	"github.com/google/uuid"
)

// PropertyKind is the type of a property
type PropertyKind string

const (
	PropertyKindApartment  PropertyKind = "apartment"
	PropertyKindHouse      PropertyKind = "house"
	PropertyKindCommercial PropertyKind = "commercial"
	PropertyKindGarage     PropertyKind = "garage"
	PropertyKindLand       PropertyKind = "land"
	PropertyKindOther      PropertyKind = "other"
)

// PropertyStatus is the letting status of a property
type PropertyStatus string

const (
	PropertyStatusVacant     PropertyStatus = "vacant"
	PropertyStatusRented     PropertyStatus = "rented"
	PropertyStatusReserved   PropertyStatus = "reserved"
	PropertyStatusRenovation PropertyStatus = "renovation"
	PropertyStatusSold       PropertyStatus = "sold"
)

// Property is a building, or a unit inside a house when ParentID is set
type Property struct {
	Base
	Designation    string         `json:"designation" db:"designation"`
	Street         string         `json:"street" db:"street"`
	HouseNumber    string         `json:"houseNumber" db:"house_number"`
	PostalCode     string         `json:"postalCode" db:"postal_code"`
	City           string         `json:"city" db:"city"`
	Country        string         `json:"country" db:"country"`
	Kind           PropertyKind   `json:"kind" db:"kind"`
	ParentID       *uuid.UUID     `json:"parentId,omitempty" db:"parent_id"`
	Rooms          *float64       `json:"rooms,omitempty" db:"rooms"`
	AreaSqm        *float64       `json:"areaSqm,omitempty" db:"area_sqm"`
	Floor          *int           `json:"floor,omitempty" db:"floor"`
	YearBuilt      *int           `json:"yearBuilt,omitempty" db:"year_built"`
	ColdRent       float64        `json:"coldRent" db:"cold_rent"`
	UtilityAdvance float64        `json:"utilityAdvance" db:"utility_advance"`
	Deposit        float64        `json:"deposit" db:"deposit"`
	Status         PropertyStatus `json:"status" db:"status"`
	Description    string         `json:"description" db:"description"`
	Notes          string         `json:"notes" db:"notes"`
}

// IsHouse reports whether the property can contain units
func (p *Property) IsHouse() bool {
	return p.Kind == PropertyKindHouse
}

// PropertyInput represents input for creating or replacing a property
type PropertyInput struct {
	Designation    string         `json:"designation" validate:"required,max=200"`
	Street         string         `json:"street" validate:"max=200"`
	HouseNumber    string         `json:"houseNumber" validate:"max=20"`
	PostalCode     string         `json:"postalCode" validate:"max=20"`
	City           string         `json:"city" validate:"max=100"`
	Country        string         `json:"country" validate:"max=100"`
	Kind           PropertyKind   `json:"kind" validate:"required,oneof=apartment house commercial garage land other"`
	ParentID       *uuid.UUID     `json:"parentId,omitempty"`
	Rooms          *float64       `json:"rooms,omitempty" validate:"omitempty,gte=0,lte=1000"`
	AreaSqm        *float64       `json:"areaSqm,omitempty" validate:"omitempty,gte=0"`
	Floor          *int           `json:"floor,omitempty" validate:"omitempty,gte=-5,lte=200"`
	YearBuilt      *int           `json:"yearBuilt,omitempty" validate:"omitempty,gte=1000,lte=2200"`
	ColdRent       float64        `json:"coldRent" validate:"gte=0"`
	UtilityAdvance float64        `json:"utilityAdvance" validate:"gte=0"`
	Deposit        float64        `json:"deposit" validate:"gte=0"`
	Status         PropertyStatus `json:"status,omitempty" validate:"omitempty,oneof=vacant rented reserved renovation sold"`
	Description    string         `json:"description" validate:"max=5000"`
	Notes          string         `json:"notes" validate:"max=5000"`
	// Version, when set on update, must match the stored version
	Version *int `json:"version,omitempty"`
}

// Apply copies the input onto p
func (in *PropertyInput) Apply(p *Property) {
	p.Designation = in.Designation
	p.Street = in.Street
	p.HouseNumber = in.HouseNumber
	p.PostalCode = in.PostalCode
	p.City = in.City
	p.Country = in.Country
	p.Kind = in.Kind
	p.ParentID = in.ParentID
	p.Rooms = in.Rooms
	p.AreaSqm = in.AreaSqm
	p.Floor = in.Floor
	p.YearBuilt = in.YearBuilt
	p.ColdRent = in.ColdRent
	p.UtilityAdvance = in.UtilityAdvance
	p.Deposit = in.Deposit
	p.Status = in.Status
	if p.Status == "" {
		p.Status = PropertyStatusVacant
	}
	p.Description = in.Description
	p.Notes = in.Notes
}

// PropertyFilter represents filter options for listing properties
type PropertyFilter struct {
	ListOptions
	Kind     PropertyKind
	Status   PropertyStatus
	ParentID *uuid.UUID
	City     string
}
