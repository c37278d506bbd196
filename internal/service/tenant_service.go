package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/vermy/vermy/internal/domain"
	apperrors "github.com/vermy/vermy/internal/pkg/errors"
	"github.com/vermy/vermy/internal/pkg/logger"
	"github.com/vermy/vermy/internal/validator"
)

// primaryTenantConflict is reported when a property would get a second primary tenant
const primaryTenantConflict = "property already has a primary tenant"

// TenantRepository defines tenant repository operations
type TenantRepository interface {
	Create(ctx context.Context, t *domain.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error)
	Update(ctx context.Context, t *domain.Tenant) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *domain.TenantFilter) ([]domain.Tenant, int64, error)
	FindPrimary(ctx context.Context, propertyID uuid.UUID, excludeID *uuid.UUID) (*domain.Tenant, error)
}

// PropertyReader loads properties for reference checks
type PropertyReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error)
}

// TenantService handles tenant operations
type TenantService struct {
	repo       TenantRepository
	properties PropertyReader
	tx         Transactor
}

// NewTenantService creates a new tenant service
func NewTenantService(repo TenantRepository, properties PropertyReader, tx Transactor) *TenantService {
	return &TenantService{repo: repo, properties: properties, tx: tx}
}

// Create creates a new tenant
func (s *TenantService) Create(ctx context.Context, input *domain.TenantInput) (*domain.Tenant, error) {
	if err := validator.Check(input); err != nil {
		return nil, err
	}

	t := &domain.Tenant{}
	input.Apply(t)

	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.validate(ctx, t, nil); err != nil {
			return err
		}
		return s.repo.Create(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	logger.WithRecord(domain.CollectionTenants, t.ID.String()).Info("tenant created")
	return t, nil
}

// Get retrieves a tenant by ID
func (s *TenantService) Get(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	return s.repo.GetByID(ctx, id)
}

// List lists tenants
func (s *TenantService) List(ctx context.Context, filter *domain.TenantFilter) (*domain.ListResult[domain.Tenant], error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return domain.NewListResult(items, total, filter.ListOptions.Normalized()), nil
}

// ListByProperty lists the live tenants of a property
func (s *TenantService) ListByProperty(ctx context.Context, propertyID uuid.UUID, opts domain.ListOptions) (*domain.ListResult[domain.Tenant], error) {
	if _, err := s.properties.GetByID(ctx, propertyID); err != nil {
		return nil, err
	}
	return s.List(ctx, &domain.TenantFilter{ListOptions: opts, PropertyID: &propertyID})
}

// Update replaces a tenant
func (s *TenantService) Update(ctx context.Context, id uuid.UUID, input *domain.TenantInput) (*domain.Tenant, error) {
	if err := validator.Check(input); err != nil {
		return nil, err
	}

	var t *domain.Tenant
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		t, err = loadForUpdate[domain.Tenant](ctx, "tenant", id, input.Version, s.repo.GetByID)
		if err != nil {
			return err
		}
		input.Apply(t)
		if err := s.validate(ctx, t, &id); err != nil {
			return err
		}
		return s.repo.Update(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Delete soft deletes a tenant
func (s *TenantService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	logger.WithRecord(domain.CollectionTenants, id.String()).Info("tenant deleted")
	return nil
}

// Restore undoes a soft delete once the property is live again and no other
// primary tenant has taken its place
func (s *TenantService) Restore(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	return restoreLive[domain.Tenant](ctx, s.tx, "tenant", id, s.repo.GetByID, s.repo.Restore,
		func(ctx context.Context, t *domain.Tenant) error {
			return s.validate(ctx, t, &t.ID)
		})
}

func (s *TenantService) validate(ctx context.Context, t *domain.Tenant, self *uuid.UUID) error {
	if err := liveOptionalRef[domain.Property](ctx, "property", t.PropertyID, s.properties.GetByID); err != nil {
		return err
	}
	if t.MoveInDate != nil {
		if err := validateDateOrder("moveOutDate", *t.MoveInDate, t.MoveOutDate); err != nil {
			return err
		}
	}
	return s.checkPrimary(ctx, t, self)
}

// checkPrimary rejects a second live primary tenant on the same property
func (s *TenantService) checkPrimary(ctx context.Context, t *domain.Tenant, self *uuid.UUID) error {
	if !t.IsPrimary || t.PropertyID == nil {
		return nil
	}
	existing, err := s.repo.FindPrimary(ctx, *t.PropertyID, self)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperrors.Conflict(primaryTenantConflict).WithDetail("primaryTenantId", existing.ID.String())
	}
	return nil
}
