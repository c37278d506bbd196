package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vermy/vermy/internal/domain"
	"github.com/vermy/vermy/internal/pkg/logger"
	"github.com/vermy/vermy/internal/validator"
)

// MaintenanceTicketRepository defines maintenance ticket repository operations
type MaintenanceTicketRepository interface {
	Create(ctx context.Context, m *domain.MaintenanceTicket) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.MaintenanceTicket, error)
	Update(ctx context.Context, m *domain.MaintenanceTicket) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *domain.MaintenanceTicketFilter) ([]domain.MaintenanceTicket, int64, error)
}

// MaintenanceTicketService handles maintenance ticket operations
type MaintenanceTicketService struct {
	repo       MaintenanceTicketRepository
	properties PropertyReader
	tenants    TenantReader
	tx         Transactor
}

// NewMaintenanceTicketService creates a new maintenance ticket service
func NewMaintenanceTicketService(repo MaintenanceTicketRepository, properties PropertyReader, tenants TenantReader, tx Transactor) *MaintenanceTicketService {
	return &MaintenanceTicketService{repo: repo, properties: properties, tenants: tenants, tx: tx}
}

// Create creates a new ticket. The report time defaults to now.
func (s *MaintenanceTicketService) Create(ctx context.Context, input *domain.MaintenanceTicketInput) (*domain.MaintenanceTicket, error) {
	if err := validator.Check(input); err != nil {
		return nil, err
	}

	m := &domain.MaintenanceTicket{}
	input.Apply(m)
	s.stamp(m)

	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := s.validate(ctx, m); err != nil {
			return err
		}
		return s.repo.Create(ctx, m)
	})
	if err != nil {
		return nil, err
	}

	logger.WithRecord(domain.CollectionMaintenanceTickets, m.ID.String()).Info("maintenance ticket reported",
		zap.String("priority", string(m.Priority)),
	)
	return m, nil
}

// Get retrieves a ticket by ID
func (s *MaintenanceTicketService) Get(ctx context.Context, id uuid.UUID) (*domain.MaintenanceTicket, error) {
	return s.repo.GetByID(ctx, id)
}

// List lists tickets
func (s *MaintenanceTicketService) List(ctx context.Context, filter *domain.MaintenanceTicketFilter) (*domain.ListResult[domain.MaintenanceTicket], error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return domain.NewListResult(items, total, filter.ListOptions.Normalized()), nil
}

// Update replaces a ticket
func (s *MaintenanceTicketService) Update(ctx context.Context, id uuid.UUID, input *domain.MaintenanceTicketInput) (*domain.MaintenanceTicket, error) {
	if err := validator.Check(input); err != nil {
		return nil, err
	}

	var m *domain.MaintenanceTicket
	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		var err error
		m, err = loadForUpdate[domain.MaintenanceTicket](ctx, "maintenance ticket", id, input.Version, s.repo.GetByID)
		if err != nil {
			return err
		}
		input.Apply(m)
		s.stamp(m)
		if err := s.validate(ctx, m); err != nil {
			return err
		}
		return s.repo.Update(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Delete soft deletes a ticket
func (s *MaintenanceTicketService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

// Restore undoes a soft delete
func (s *MaintenanceTicketService) Restore(ctx context.Context, id uuid.UUID) (*domain.MaintenanceTicket, error) {
	return restoreLive[domain.MaintenanceTicket](ctx, s.tx, "maintenance ticket", id, s.repo.GetByID, s.repo.Restore, s.validate)
}

// stamp fills the report and completion times the client left out. Done and
// rejected tickets are both closed.
func (s *MaintenanceTicketService) stamp(m *domain.MaintenanceTicket) {
	now := nowUTC()
	if m.ReportedAt.IsZero() {
		m.ReportedAt = now
	}
	if !m.IsOpen() && m.CompletedAt == nil {
		m.CompletedAt = &now
	}
}

func (s *MaintenanceTicketService) validate(ctx context.Context, m *domain.MaintenanceTicket) error {
	if _, err := liveRef[domain.Property](ctx, "property", m.PropertyID, s.properties.GetByID); err != nil {
		return err
	}
	if err := liveOptionalRef[domain.Tenant](ctx, "tenant", m.TenantID, s.tenants.GetByID); err != nil {
		return err
	}
	return validateDateOrder("completedAt", m.ReportedAt, m.CompletedAt)
}
