package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/vermy/vermy/internal/domain"
	"github.com/vermy/vermy/internal/validator"
)

// UtilityStatementRepository defines utility statement repository operations
type UtilityStatementRepository interface {
	Create(ctx context.Context, u *domain.UtilityStatement) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.UtilityStatement, error)
	Update(ctx context.Context, u *domain.UtilityStatement) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *domain.UtilityStatementFilter) ([]domain.UtilityStatement, int64, error)
}

// UtilityStatementService handles utility cost statement operations
type UtilityStatementService struct {
	repo       UtilityStatementRepository
	properties PropertyReader
	tx         Transactor
}

// NewUtilityStatementService creates a new utility statement service
func NewUtilityStatementService(repo UtilityStatementRepository, properties PropertyReader, tx Transactor) *UtilityStatementService {
	return &UtilityStatementService{repo: repo, properties: properties, tx: tx}
}

// Create creates a new statement
func (s *UtilityStatementService) Create(ctx context.Context, input *domain.UtilityStatementInput) (*domain.UtilityStatement, error) {
	if err := validator.Check(input); err != nil {
		return nil, err
	}

	u := &domain.UtilityStatement{}
	input.Apply(u)

	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.validate(ctx, u); err != nil {
			return err
		}
		return s.repo.Create(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Get retrieves a statement by ID
func (s *UtilityStatementService) Get(ctx context.Context, id uuid.UUID) (*domain.UtilityStatement, error) {
	return s.repo.GetByID(ctx, id)
}

// List lists statements
func (s *UtilityStatementService) List(ctx context.Context, filter *domain.UtilityStatementFilter) (*domain.ListResult[domain.UtilityStatement], error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return domain.NewListResult(items, total, filter.ListOptions.Normalized()), nil
}

// Update replaces a statement
func (s *UtilityStatementService) Update(ctx context.Context, id uuid.UUID, input *domain.UtilityStatementInput) (*domain.UtilityStatement, error) {
	if err := validator.Check(input); err != nil {
		return nil, err
	}

	var u *domain.UtilityStatement
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		u, err = loadForUpdate[domain.UtilityStatement](ctx, "utility statement", id, input.Version, s.repo.GetByID)
		if err != nil {
			return err
		}
		input.Apply(u)
		if err := s.validate(ctx, u); err != nil {
			return err
		}
		return s.repo.Update(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Delete soft deletes a statement
func (s *UtilityStatementService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

// Restore undoes a soft delete
func (s *UtilityStatementService) Restore(ctx context.Context, id uuid.UUID) (*domain.UtilityStatement, error) {
	return restoreLive[domain.UtilityStatement](ctx, s.tx, "utility statement", id, s.repo.GetByID, s.repo.Restore, s.validate)
}

func (s *UtilityStatementService) validate(ctx context.Context, u *domain.UtilityStatement) error {
	_, err := liveRef[domain.Property](ctx, "property", u.PropertyID, s.properties.GetByID)
	return err
}
