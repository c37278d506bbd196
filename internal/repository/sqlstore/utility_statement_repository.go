package sqlstore

import (
	"context"

	"github.com/vermy/vermy/internal/domain"
	"github.com/vermy/vermy/internal/pkg/database"
)

var utilityStatementTable = table{
	name:     "utility_statements",
	resource: "utility statement",
	columns: []string{
		"property_id", "year", "heating", "water", "electricity", "waste",
		"caretaker", "insurance", "property_tax", "cleaning", "other",
		"prepayments", "status", "notes",
	},
	search:  []string{"notes"},
	orderBy: "year DESC, id",
}

// UtilityStatementRepository handles utility statement data operations
type UtilityStatementRepository struct {
	*Store[domain.UtilityStatement, *domain.UtilityStatement]
}

// NewUtilityStatementRepository creates a new utility statement repository
func NewUtilityStatementRepository(db *database.DB) *UtilityStatementRepository {
	return &UtilityStatementRepository{Store: newStore[domain.UtilityStatement](db, utilityStatementTable)}
}

// List retrieves utility statements with filtering and pagination
func (r *UtilityStatementRepository) List(ctx context.Context, filter *domain.UtilityStatementFilter) ([]domain.UtilityStatement, int64, error) {
	var w where
	if filter.PropertyID != nil {
		w.eq("property_id", *filter.PropertyID)
	}
	if filter.Year != 0 {
		w.eq("year", filter.Year)
	}
	if filter.Status != "" {
		w.eq("status", string(filter.Status))
	}
	return r.list(ctx, filter.ListOptions, &w)
}
