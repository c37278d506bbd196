package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vermy/vermy/internal/domain"
	apperrors "github.com/vermy/vermy/internal/pkg/errors"
	"github.com/vermy/vermy/internal/pkg/logger"
	"github.com/vermy/vermy/internal/validator"
)

// LeaseRepository defines lease repository operations
type LeaseRepository interface {
	Create(ctx context.Context, l *domain.Lease) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Lease, error)
	Update(ctx context.Context, l *domain.Lease) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *domain.LeaseFilter) ([]domain.Lease, int64, error)
}

// TenantReader loads tenants for reference checks
type TenantReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error)
}

// BookingCounter counts bookings posted against a lease
type BookingCounter interface {
	CountByLease(ctx context.Context, leaseID uuid.UUID) (int64, error)
}

// LeaseService handles lease operations
type LeaseService struct {
	repo       LeaseRepository
	properties PropertyReader
	tenants    TenantReader
	bookings   BookingCounter
	tx         Transactor
}

// NewLeaseService creates a new lease service
func NewLeaseService(repo LeaseRepository, properties PropertyReader, tenants TenantReader, bookings BookingCounter, tx Transactor) *LeaseService {
	return &LeaseService{
		repo:       repo,
		properties: properties,
		tenants:    tenants,
		bookings:   bookings,
		tx:         tx,
	}
}

// Create creates a new lease
func (s *LeaseService) Create(ctx context.Context, input *domain.LeaseInput) (*domain.Lease, error) {
	if err := validator.Check(input); err != nil {
		return nil, err
	}

	l := &domain.Lease{}
	input.Apply(l)

	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.validate(ctx, l); err != nil {
			return err
		}
		return s.repo.Create(ctx, l)
	})
	if err != nil {
		return nil, err
	}

	logger.WithRecord(domain.CollectionLeases, l.ID.String()).Info("lease created")
	return l, nil
}

// Get retrieves a lease by ID
func (s *LeaseService) Get(ctx context.Context, id uuid.UUID) (*domain.Lease, error) {
	return s.repo.GetByID(ctx, id)
}

// List lists leases
func (s *LeaseService) List(ctx context.Context, filter *domain.LeaseFilter) (*domain.ListResult[domain.Lease], error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return domain.NewListResult(items, total, filter.ListOptions.Normalized()), nil
}

// Update replaces a lease
func (s *LeaseService) Update(ctx context.Context, id uuid.UUID, input *domain.LeaseInput) (*domain.Lease, error) {
	if err := validator.Check(input); err != nil {
		return nil, err
	}

	var l *domain.Lease
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		l, err = loadForUpdate[domain.Lease](ctx, "lease", id, input.Version, s.repo.GetByID)
		if err != nil {
			return err
		}
		input.Apply(l)
		if err := s.validate(ctx, l); err != nil {
			return err
		}
		return s.repo.Update(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Delete soft deletes a lease that has no live bookings
func (s *LeaseService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tx.Transaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetByID(ctx, id); err != nil {
			return err
		}
		n, err := s.bookings.CountByLease(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperrors.Conflict(fmt.Sprintf("lease still has %d bookings; delete them first", n))
		}
		if err := s.repo.SoftDelete(ctx, id); err != nil {
			return err
		}
		logger.WithRecord(domain.CollectionLeases, id.String()).Info("lease deleted")
		return nil
	})
}

// Restore undoes a soft delete
func (s *LeaseService) Restore(ctx context.Context, id uuid.UUID) (*domain.Lease, error) {
	return restoreLive[domain.Lease](ctx, s.tx, "lease", id, s.repo.GetByID, s.repo.Restore, s.validate)
}

func (s *LeaseService) validate(ctx context.Context, l *domain.Lease) error {
	if _, err := liveRef[domain.Property](ctx, "property", l.PropertyID, s.properties.GetByID); err != nil {
		return err
	}
	if _, err := liveRef[domain.Tenant](ctx, "tenant", l.TenantID, s.tenants.GetByID); err != nil {
		return err
	}
	return validateDateOrder("endDate", l.StartDate, l.EndDate)
}
