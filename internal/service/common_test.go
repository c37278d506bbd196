package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vermy/vermy/internal/domain"
	"github.com/vermy/vermy/internal/pkg/database"
	apperrors "github.com/vermy/vermy/internal/pkg/errors"
	"github.com/vermy/vermy/internal/pkg/objectstore"
	"github.com/vermy/vermy/internal/repository/sqlstore"
)

// testEnv wires every service against a private in-memory SQLite database
type testEnv struct {
	db    *database.DB
	blobs *memoryBlobs

	properties       *sqlstore.PropertyRepository
	tenantRepo       *sqlstore.TenantRepository
	documentRepo     *sqlstore.DocumentRepository
	propertyService  *PropertyService
	tenantService    *TenantService
	leaseService     *LeaseService
	bookingService   *BookingService
	dunningService   *DunningNoticeService
	ticketService    *MaintenanceTicketService
	statementService *UtilityStatementService
	documentService  *DocumentService
	backupService    *BackupService
	searchService    *SearchService
}

func newTestEnv(t *testing.T, withBlobs bool) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := database.NewSQLite(ctx, ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(ctx))
	t.Cleanup(func() { _ = db.Close() })

	env := &testEnv{db: db}

	var blobs BlobStore
	var archive BackupArchive
	if withBlobs {
		env.blobs = newMemoryBlobs()
		blobs = env.blobs
		archive = env.blobs
	}

	properties := sqlstore.NewPropertyRepository(db)
	tenants := sqlstore.NewTenantRepository(db)
	leases := sqlstore.NewLeaseRepository(db)
	bookings := sqlstore.NewBookingRepository(db)
	statements := sqlstore.NewUtilityStatementRepository(db)
	tickets := sqlstore.NewMaintenanceTicketRepository(db)
	dunning := sqlstore.NewDunningNoticeRepository(db)
	documents := sqlstore.NewDocumentRepository(db)

	env.properties = properties
	env.tenantRepo = tenants
	env.documentRepo = documents
	env.propertyService = NewPropertyService(properties, tenants, db)
	env.tenantService = NewTenantService(tenants, properties, db)
	env.leaseService = NewLeaseService(leases, properties, tenants, bookings, db)
	env.bookingService = NewBookingService(bookings, properties, tenants, leases, dunning, db)
	env.dunningService = NewDunningNoticeService(dunning, properties, tenants, bookings, db)
	env.ticketService = NewMaintenanceTicketService(tickets, properties, tenants, db)
	env.statementService = NewUtilityStatementService(statements, properties, db)
	env.documentService = NewDocumentService(documents, properties, tenants, leases, blobs, db)
	env.searchService = NewSearchService(properties, tenants, leases)
	env.backupService = NewBackupService(BackupStores{
		Properties:         properties,
		Tenants:            tenants,
		Leases:             leases,
		Bookings:           bookings,
		UtilityStatements:  statements,
		MaintenanceTickets: tickets,
		DunningNotices:     dunning,
		Documents:          documents,
	}, db, env.documentService, archive, "backups/")

	return env
}

func (e *testEnv) house(t *testing.T, designation string) *domain.Property {
	t.Helper()
	p, err := e.propertyService.Create(context.Background(), &domain.PropertyInput{
		Designation: designation,
		Street:      "Hauptstraße",
		HouseNumber: "1",
		PostalCode:  "10115",
		City:        "Berlin",
		Kind:        domain.PropertyKindHouse,
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) unit(t *testing.T, designation string, parent *uuid.UUID) *domain.Property {
	t.Helper()
	p, err := e.propertyService.Create(context.Background(), &domain.PropertyInput{
		Designation: designation,
		City:        "Berlin",
		Kind:        domain.PropertyKindApartment,
		ParentID:    parent,
		ColdRent:    750,
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) tenant(t *testing.T, last string, propertyID uuid.UUID, primary bool) *domain.Tenant {
	t.Helper()
	tn, err := e.tenantService.Create(context.Background(), &domain.TenantInput{
		FirstName:  "Erika",
		LastName:   last,
		Email:      strings.ToLower(last) + "@example.com",
		PropertyID: &propertyID,
		IsPrimary:  primary,
	})
	require.NoError(t, err)
	return tn
}

func (e *testEnv) lease(t *testing.T, propertyID, tenantID uuid.UUID) *domain.Lease {
	t.Helper()
	l, err := e.leaseService.Create(context.Background(), &domain.LeaseInput{
		PropertyID:  propertyID,
		TenantID:    tenantID,
		LeaseNumber: "L-" + tenantID.String()[:8],
		StartDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ColdRent:    750,
	})
	require.NoError(t, err)
	return l
}

// memoryBlobs is an in-memory object store
type memoryBlobs struct {
	mu      sync.Mutex
	objects map[string][]byte
	times   map[string]time.Time
	clock   time.Time
}

func newMemoryBlobs() *memoryBlobs {
	return &memoryBlobs{
		objects: make(map[string][]byte),
		times:   make(map[string]time.Time),
		clock:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memoryBlobs) Put(_ context.Context, key string, data []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = m.clock.Add(time.Minute)
	m.objects[key] = append([]byte(nil), data...)
	m.times[key] = m.clock
	return nil
}

func (m *memoryBlobs) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, apperrors.NotFound("object")
	}
	return data, nil
}

func (m *memoryBlobs) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	delete(m.times, key)
	return nil
}

func (m *memoryBlobs) List(_ context.Context, prefix string) ([]objectstore.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []objectstore.Object
	for key, data := range m.objects {
		if strings.HasPrefix(key, prefix) {
			out = append(out, objectstore.Object{Key: key, Size: int64(len(data)), LastModified: m.times[key]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastModified.After(out[j].LastModified) })
	return out, nil
}

func (m *memoryBlobs) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
