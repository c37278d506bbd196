package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vermy/vermy/internal/domain"
	apperrors "github.com/vermy/vermy/internal/pkg/errors"
	"github.com/vermy/vermy/internal/pkg/logger"
	"github.com/vermy/vermy/internal/validator"
)

// PropertyRepository defines property repository operations
type PropertyRepository interface {
	Create(ctx context.Context, p *domain.Property) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Property, error)
	Update(ctx context.Context, p *domain.Property) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *domain.PropertyFilter) ([]domain.Property, int64, error)
	CountUnits(ctx context.Context, parentID uuid.UUID) (int64, error)
}

// TenantCounter counts tenants assigned to a property
type TenantCounter interface {
	CountByProperty(ctx context.Context, propertyID uuid.UUID) (int64, error)
}

// PropertyService handles property operations
type PropertyService struct {
	repo    PropertyRepository
	tenants TenantCounter
	tx      Transactor
}

// NewPropertyService creates a new property service
func NewPropertyService(repo PropertyRepository, tenants TenantCounter, tx Transactor) *PropertyService {
	return &PropertyService{repo: repo, tenants: tenants, tx: tx}
}

// Create creates a new property
func (s *PropertyService) Create(ctx context.Context, input *domain.PropertyInput) (*domain.Property, error) {
	if err := validator.Check(input); err != nil {
		return nil, err
	}

	p := &domain.Property{}
	input.Apply(p)

	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.validateParent(ctx, p); err != nil {
			return err
		}
		return s.repo.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	logger.WithRecord(domain.CollectionProperties, p.ID.String()).Info("property created")
	return p, nil
}

// Get retrieves a property by ID
func (s *PropertyService) Get(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	return s.repo.GetByID(ctx, id)
}

// List lists properties
func (s *PropertyService) List(ctx context.Context, filter *domain.PropertyFilter) (*domain.ListResult[domain.Property], error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return domain.NewListResult(items, total, filter.ListOptions.Normalized()), nil
}

// ListUnits lists the live units of a house
func (s *PropertyService) ListUnits(ctx context.Context, id uuid.UUID, opts domain.ListOptions) (*domain.ListResult[domain.Property], error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.List(ctx, &domain.PropertyFilter{ListOptions: opts, ParentID: &id})
}

// Update replaces a property
func (s *PropertyService) Update(ctx context.Context, id uuid.UUID, input *domain.PropertyInput) (*domain.Property, error) {
	if err := validator.Check(input); err != nil {
		return nil, err
	}

	var p *domain.Property
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		p, err = loadForUpdate[domain.Property](ctx, "property", id, input.Version, s.repo.GetByID)
		if err != nil {
			return err
		}

		input.Apply(p)
		if err := s.validateParent(ctx, p); err != nil {
			return err
		}

		// a house that still has units cannot become something else
		if !p.IsHouse() {
			units, err := s.repo.CountUnits(ctx, id)
			if err != nil {
				return err
			}
			if units > 0 {
				return apperrors.Conflict(fmt.Sprintf("property still contains %d units and must stay a house", units))
			}
		}

		return s.repo.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	return p, nil
}

// Delete soft deletes a property. Houses with live units and properties
// with live tenants are refused.
func (s *PropertyService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tx.Transaction(ctx, func(ctx context.Context) error {
		p, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p.IsDeleted() {
			return nil
		}

		if p.IsHouse() {
			units, err := s.repo.CountUnits(ctx, id)
			if err != nil {
				return err
			}
			if units > 0 {
				return apperrors.Conflict(fmt.Sprintf("house still contains %d units; delete them first", units))
			}
		} else {
			tenants, err := s.tenants.CountByProperty(ctx, id)
			if err != nil {
				return err
			}
			if tenants > 0 {
				return apperrors.Conflict(fmt.Sprintf("property still has %d tenants; remove them first", tenants))
			}
		}

		if err := s.repo.SoftDelete(ctx, id); err != nil {
			return err
		}

		logger.WithRecord(domain.CollectionProperties, id.String()).Info("property deleted",
			zap.String("designation", p.Designation),
		)
		return nil
	})
}

// Restore undoes a soft delete. A unit whose house is deleted stays deleted.
func (s *PropertyService) Restore(ctx context.Context, id uuid.UUID) (*domain.Property, error) {
	var p *domain.Property
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p.ParentID != nil {
			if _, err := liveRef[domain.Property](ctx, "parent property", *p.ParentID, s.repo.GetByID); err != nil {
				return err
			}
		}
		if err := s.repo.Restore(ctx, id); err != nil {
			return err
		}
		p, err = s.repo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// validateParent enforces that units live in a live house that is not itself a unit
func (s *PropertyService) validateParent(ctx context.Context, p *domain.Property) error {
	if p.ParentID == nil {
		return nil
	}
	if *p.ParentID == p.ID {
		return apperrors.Validation("a property cannot be its own parent").WithDetail("parentId", "must not reference itself")
	}

	parent, err := liveRef[domain.Property](ctx, "parent property", *p.ParentID, s.repo.GetByID)
	if err != nil {
		return err
	}
	if !parent.IsHouse() {
		return apperrors.Validation("parent property must be a house").WithDetail("parentId", "must reference a house")
	}
	if parent.ParentID != nil {
		return apperrors.Validation("parent property must not itself be a unit").WithDetail("parentId", "must reference a top-level house")
	}
	if p.IsHouse() {
		return apperrors.Validation("a house cannot be placed inside another house").WithDetail("kind", "a unit must not be a house")
	}
	return nil
}
