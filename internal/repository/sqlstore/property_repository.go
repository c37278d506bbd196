package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/vermy/vermy/internal/domain"
	"github.com/vermy/vermy/internal/pkg/database"
)

var propertyTable = table{
	name:     "properties",
	resource: "property",
	columns: []string{
		"designation", "street", "house_number", "postal_code", "city", "country",
		"kind", "parent_id", "rooms", "area_sqm", "floor", "year_built",
		"cold_rent", "utility_advance", "deposit", "status", "description", "notes",
	},
	search:  []string{"designation", "street", "city", "postal_code", "notes"},
	orderBy: "designation, id",
}

// PropertyRepository handles property data operations
type PropertyRepository struct {
	*Store[domain.Property, *domain.Property]
}

// NewPropertyRepository creates a new property repository
func NewPropertyRepository(db *database.DB) *PropertyRepository {
	return &PropertyRepository{Store: newStore[domain.Property](db, propertyTable)}
}

// List retrieves properties with filtering and pagination
func (r *PropertyRepository) List(ctx context.Context, filter *domain.PropertyFilter) ([]domain.Property, int64, error) {
	var w where
	if filter.Kind != "" {
		w.eq("kind", string(filter.Kind))
	}
	if filter.Status != "" {
		w.eq("status", string(filter.Status))
	}
	if filter.ParentID != nil {
		w.eq("parent_id", *filter.ParentID)
	}
	if filter.City != "" {
		lower := database.LowerFunc(r.conn(ctx).DriverName())
		w.add(lower+"(city) = ?", strings.ToLower(filter.City))
	}
	return r.list(ctx, filter.ListOptions, &w)
}

// CountUnits returns the number of live units inside a house
func (r *PropertyRepository) CountUnits(ctx context.Context, parentID uuid.UUID) (int64, error) {
	var w where
	w.eq("parent_id", parentID)
	w.add("deleted_at IS NULL")
	return r.count(ctx, &w)
}

// DeleteAll removes units before the houses that contain them
func (r *PropertyRepository) DeleteAll(ctx context.Context) error {
	conn := r.conn(ctx)
	if _, err := conn.ExecContext(ctx, `DELETE FROM properties WHERE parent_id IS NOT NULL`); err != nil {
		return fmt.Errorf("failed to clear property units: %w", err)
	}
	return r.Store.DeleteAll(ctx)
}
