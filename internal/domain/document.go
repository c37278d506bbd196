package domain

import (
	"github.com/google/uuid"
)

// DocumentCategory classifies a document
type DocumentCategory string

const (
	DocumentCategoryLease          DocumentCategory = "lease"
	DocumentCategoryInvoice        DocumentCategory = "invoice"
	DocumentCategoryStatement      DocumentCategory = "statement"
	DocumentCategoryCorrespondence DocumentCategory = "correspondence"
	DocumentCategoryPhoto          DocumentCategory = "photo"
	DocumentCategoryProtocol       DocumentCategory = "protocol"
	DocumentCategoryOther          DocumentCategory = "other"
)

// Document is a file attached to a property, tenant or lease. Its content
// lives either inline as base64 or in the object store under StorageKey.
type Document struct {
	Base
	PropertyID    *uuid.UUID       `json:"propertyId,omitempty" db:"property_id"`
	TenantID      *uuid.UUID       `json:"tenantId,omitempty" db:"tenant_id"`
	LeaseID       *uuid.UUID       `json:"leaseId,omitempty" db:"lease_id"`
	Title         string           `json:"title" db:"title"`
	Category      DocumentCategory `json:"category" db:"category"`
	FileName      string           `json:"fileName" db:"file_name"`
	MimeType      string           `json:"mimeType" db:"mime_type"`
	SizeBytes     int64            `json:"sizeBytes" db:"size_bytes"`
	StorageKey    string           `json:"storageKey,omitempty" db:"storage_key"`
	ContentBase64 string           `json:"contentBase64,omitempty" db:"content_base64"`
	Notes         string           `json:"notes" db:"notes"`
}

// HasContent reports whether the document carries a file
func (d *Document) HasContent() bool {
	return d.StorageKey != "" || d.ContentBase64 != ""
}

// DocumentInput represents input for creating or replacing a document.
// On update an empty ContentBase64 keeps the stored content.
type DocumentInput struct {
	PropertyID    *uuid.UUID       `json:"propertyId,omitempty"`
	TenantID      *uuid.UUID       `json:"tenantId,omitempty"`
	LeaseID       *uuid.UUID       `json:"leaseId,omitempty"`
	Title         string           `json:"title" validate:"required,max=200"`
	Category      DocumentCategory `json:"category" validate:"required,oneof=lease invoice statement correspondence photo protocol other"`
	FileName      string           `json:"fileName" validate:"max=255"`
	MimeType      string           `json:"mimeType" validate:"max=100"`
	ContentBase64 string           `json:"contentBase64,omitempty" validate:"omitempty,base64"`
	Notes         string           `json:"notes" validate:"max=5000"`
	// Version, when set on update, must match the stored version
	Version *int `json:"version,omitempty"`
}

// Apply copies the metadata fields onto d. Content is handled by the service.
func (in *DocumentInput) Apply(d *Document) {
	d.PropertyID = in.PropertyID
	d.TenantID = in.TenantID
	d.LeaseID = in.LeaseID
	d.Title = in.Title
	d.Category = in.Category
	d.FileName = in.FileName
	d.MimeType = in.MimeType
	d.Notes = in.Notes
}

// DocumentFilter represents filter options for listing documents
type DocumentFilter struct {
	ListOptions
	PropertyID *uuid.UUID
	TenantID   *uuid.UUID
	LeaseID    *uuid.UUID
	Category   DocumentCategory
}

// DocumentContent is a downloaded document file
type DocumentContent struct {
	FileName string
	MimeType string
	Data     []byte
}
