package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vermy/vermy/internal/domain"
	"github.com/vermy/vermy/internal/pkg/logger"
	"github.com/vermy/vermy/internal/validator"
)

// DunningNoticeRepository defines dunning notice repository operations
type DunningNoticeRepository interface {
	Create(ctx context.Context, d *domain.DunningNotice) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DunningNotice, error)
	Update(ctx context.Context, d *domain.DunningNotice) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *domain.DunningNoticeFilter) ([]domain.DunningNotice, int64, error)
}

// BookingReader loads bookings for reference checks
type BookingReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
}

// DunningNoticeService handles dunning notice operations
type DunningNoticeService struct {
	repo       DunningNoticeRepository
	properties PropertyReader
	tenants    TenantReader
	bookings   BookingReader
	tx         Transactor
}

// NewDunningNoticeService creates a new dunning notice service
func NewDunningNoticeService(repo DunningNoticeRepository, properties PropertyReader, tenants TenantReader, bookings BookingReader, tx Transactor) *DunningNoticeService {
	return &DunningNoticeService{
		repo:       repo,
		properties: properties,
		tenants:    tenants,
		bookings:   bookings,
		tx:         tx,
	}
}

// Create creates a new notice
func (s *DunningNoticeService) Create(ctx context.Context, input *domain.DunningNoticeInput) (*domain.DunningNotice, error) {
	if err := validator.Check(input); err != nil {
		return nil, err
	}

	d := &domain.DunningNotice{}
	input.Apply(d)

	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.validate(ctx, d); err != nil {
			return err
		}
		return s.repo.Create(ctx, d)
	})
	if err != nil {
		return nil, err
	}

	logger.WithRecord(domain.CollectionDunningNotices, d.ID.String()).Info("dunning notice created",
		zap.Int("level", d.Level),
		zap.Float64("total_due", d.TotalDue()),
	)
	return d, nil
}

// Get retrieves a notice by ID
func (s *DunningNoticeService) Get(ctx context.Context, id uuid.UUID) (*domain.DunningNotice, error) {
	return s.repo.GetByID(ctx, id)
}

// List lists notices
func (s *DunningNoticeService) List(ctx context.Context, filter *domain.DunningNoticeFilter) (*domain.ListResult[domain.DunningNotice], error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return domain.NewListResult(items, total, filter.ListOptions.Normalized()), nil
}

// Update replaces a notice
func (s *DunningNoticeService) Update(ctx context.Context, id uuid.UUID, input *domain.DunningNoticeInput) (*domain.DunningNotice, error) {
	if err := validator.Check(input); err != nil {
		return nil, err
	}

	var d *domain.DunningNotice
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		d, err = loadForUpdate[domain.DunningNotice](ctx, "dunning notice", id, input.Version, s.repo.GetByID)
		if err != nil {
			return err
		}
		input.Apply(d)
		if err := s.validate(ctx, d); err != nil {
			return err
		}
		return s.repo.Update(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Delete soft deletes a notice
func (s *DunningNoticeService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

// Restore undoes a soft delete
func (s *DunningNoticeService) Restore(ctx context.Context, id uuid.UUID) (*domain.DunningNotice, error) {
	return restoreLive[domain.DunningNotice](ctx, s.tx, "dunning notice", id, s.repo.GetByID, s.repo.Restore, s.validate)
}

func (s *DunningNoticeService) validate(ctx context.Context, d *domain.DunningNotice) error {
	if _, err := liveRef[domain.Property](ctx, "property", d.PropertyID, s.properties.GetByID); err != nil {
		return err
	}
	if _, err := liveRef[domain.Tenant](ctx, "tenant", d.TenantID, s.tenants.GetByID); err != nil {
		return err
	}
	if err := liveOptionalRef[domain.Booking](ctx, "booking", d.BookingID, s.bookings.GetByID); err != nil {
		return err
	}
	return validateDateOrder("dueDate", d.NoticeDate, &d.DueDate)
}
