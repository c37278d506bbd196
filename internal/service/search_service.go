package service

import (
	"context"
	"strings"

	"github.com/vermy/vermy/internal/domain"
	apperrors "github.com/vermy/vermy/internal/pkg/errors"
)

// SearchLimit caps the hits returned per collection
const SearchLimit = 10

// SearchService runs one query over properties, tenants and leases
type SearchService struct {
	properties PropertyRepository
	tenants    TenantRepository
	leases     LeaseRepository
}

// NewSearchService creates a new search service
func NewSearchService(properties PropertyRepository, tenants TenantRepository, leases LeaseRepository) *SearchService {
	return &SearchService{properties: properties, tenants: tenants, leases: leases}
}

// Search returns live records matching query in each collection
func (s *SearchService) Search(ctx context.Context, query string) (*domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.BadRequest("query parameter q is required")
	}

	opts := domain.ListOptions{Search: query, Limit: SearchLimit}
	result := &domain.SearchResult{Query: query}

	var err error
	if result.Properties, _, err = s.properties.List(ctx, &domain.PropertyFilter{ListOptions: opts}); err != nil {
		return nil, err
	}
	if result.Tenants, _, err = s.tenants.List(ctx, &domain.TenantFilter{ListOptions: opts}); err != nil {
		return nil, err
	}
	if result.Leases, _, err = s.leases.List(ctx, &domain.LeaseFilter{ListOptions: opts}); err != nil {
		return nil, err
	}

	if result.Properties == nil {
		result.Properties = []domain.Property{}
	}
	if result.Tenants == nil {
		result.Tenants = []domain.Tenant{}
	}
	if result.Leases == nil {
		result.Leases = []domain.Lease{}
	}
	return result, nil
}
