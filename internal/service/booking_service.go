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

// BookingRepository defines booking repository operations
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	Update(ctx context.Context, b *domain.Booking) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *domain.BookingFilter) ([]domain.Booking, int64, error)
}

// LeaseReader loads leases for reference checks
type LeaseReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Lease, error)
}

// DunningCounter counts dunning notices referencing a booking
type DunningCounter interface {
	CountByBooking(ctx context.Context, bookingID uuid.UUID) (int64, error)
}

// BookingService handles financial booking operations
type BookingService struct {
	repo       BookingRepository
	properties PropertyReader
	tenants    TenantReader
	leases     LeaseReader
	dunning    DunningCounter
	tx         Transactor
}

// NewBookingService creates a new booking service
func NewBookingService(repo BookingRepository, properties PropertyReader, tenants TenantReader, leases LeaseReader, dunning DunningCounter, tx Transactor) *BookingService {
	return &BookingService{
		repo:       repo,
		properties: properties,
		tenants:    tenants,
		leases:     leases,
		dunning:    dunning,
		tx:         tx,
	}
}

// Create creates a new booking
func (s *BookingService) Create(ctx context.Context, input *domain.BookingInput) (*domain.Booking, error) {
	if err := validator.Check(input); err != nil {
		return nil, err
	}

	b := &domain.Booking{}
	input.Apply(b)

	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.validate(ctx, b); err != nil {
			return err
		}
		return s.repo.Create(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	logger.WithRecord(domain.CollectionBookings, b.ID.String()).Debug("booking created")
	return b, nil
}

// Get retrieves a booking by ID
func (s *BookingService) Get(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	return s.repo.GetByID(ctx, id)
}

// List lists bookings
func (s *BookingService) List(ctx context.Context, filter *domain.BookingFilter) (*domain.ListResult[domain.Booking], error) {
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(*filter.DateFrom) {
		return nil, apperrors.Validation("dateTo must not be before dateFrom")
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return domain.NewListResult(items, total, filter.ListOptions.Normalized()), nil
}

// Update replaces a booking
func (s *BookingService) Update(ctx context.Context, id uuid.UUID, input *domain.BookingInput) (*domain.Booking, error) {
	if err := validator.Check(input); err != nil {
		return nil, err
	}

	var b *domain.Booking
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		b, err = loadForUpdate[domain.Booking](ctx, "booking", id, input.Version, s.repo.GetByID)
		if err != nil {
			return err
		}
		input.Apply(b)
		if err := s.validate(ctx, b); err != nil {
			return err
		}
		return s.repo.Update(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Delete soft deletes a booking that no live dunning notice references
func (s *BookingService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tx.Transaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetByID(ctx, id); err != nil {
			return err
		}
		n, err := s.dunning.CountByBooking(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperrors.Conflict(fmt.Sprintf("booking is referenced by %d dunning notices", n))
		}
		return s.repo.SoftDelete(ctx, id)
	})
}

// Restore undoes a soft delete
func (s *BookingService) Restore(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	return restoreLive[domain.Booking](ctx, s.tx, "booking", id, s.repo.GetByID, s.repo.Restore, s.validate)
}

func (s *BookingService) validate(ctx context.Context, b *domain.Booking) error {
	if _, err := liveRef[domain.Property](ctx, "property", b.PropertyID, s.properties.GetByID); err != nil {
		return err
	}
	if err := liveOptionalRef[domain.Tenant](ctx, "tenant", b.TenantID, s.tenants.GetByID); err != nil {
		return err
	}
	return liveOptionalRef[domain.Lease](ctx, "lease", b.LeaseID, s.leases.GetByID)
}
