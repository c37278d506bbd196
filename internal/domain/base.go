package domain

import (
	"time"

	"github.com/google/uuid"
)

// Pagination bounds for list operations
const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

// Base carries the bookkeeping columns shared by all stored records
type Base struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
	Version   int        `json:"version" db:"version"`
}

// Record gives generic code access to the embedded Base
func (b *Base) Record() *Base {
	return b
}

// IsDeleted reports whether the record is soft deleted
func (b Base) IsDeleted() bool {
	return b.DeletedAt != nil
}

// ListOptions holds the parameters every list operation accepts
type ListOptions struct {
	// Search is matched case-insensitively as a substring
	Search         string
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// Normalized returns a copy with limit and offset clamped to sane values
func (o ListOptions) Normalized() ListOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultListLimit
	}
	if o.Limit > MaxListLimit {
		o.Limit = MaxListLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}

// ListResult is one page of a list operation
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	HasMore    bool  `json:"hasMore"`
}

// NewListResult builds a page and computes HasMore from the options used
func NewListResult[T any](items []T, total int64, opts ListOptions) *ListResult[T] {
	if items == nil {
		items = []T{}
	}
	return &ListResult[T]{
		Items:      items,
		TotalCount: total,
		HasMore:    int64(opts.Offset+len(items)) < total,
	}
}
