package sqlstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vermy/vermy/internal/domain"
	"github.com/vermy/vermy/internal/pkg/database"
)

// getTestDB returns a migrated database for repository tests. SQLite in
// memory is used unless VERMY_TEST_POSTGRES_DSN points at a PostgreSQL
// instance, in which case the same tests run against it.
func getTestDB(t *testing.T) *database.DB {
	t.Helper()
	ctx := context.Background()

	var (
		db  *database.DB
		err error
	)
	if dsn := os.Getenv("VERMY_TEST_POSTGRES_DSN"); dsn != "" {
		db, err = database.NewPostgresDSN(ctx, dsn, 5, 1)
		if err != nil {
			t.Skipf("Skipping integration test: failed to connect to PostgreSQL: %v", err)
		}
		require.NoError(t, db.Migrate(ctx))
		cleanupAll(t, db)
	} else {
		db, err = database.NewSQLite(ctx, ":memory:")
		require.NoError(t, err)
		require.NoError(t, db.Migrate(ctx))
	}

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// cleanupAll removes every row, children first
func cleanupAll(t *testing.T, db *database.DB) {
	ctx := context.Background()
	for _, table := range []string{
		"documents", "dunning_notices", "maintenance_tickets", "utility_statements",
		"bookings", "leases", "tenants",
	} {
		_, err := db.ExecContext(ctx, "DELETE FROM "+table)
		require.NoError(t, err)
	}
	_, err := db.ExecContext(ctx, "DELETE FROM properties WHERE parent_id IS NOT NULL")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "DELETE FROM properties")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "DELETE FROM users")
	require.NoError(t, err)
}

func createTestProperty(t *testing.T, repo *PropertyRepository, designation string, kind domain.PropertyKind) *domain.Property {
	t.Helper()
	p := &domain.Property{
		Designation: designation,
		Street:      "Hauptstraße",
		HouseNumber: "1",
		PostalCode:  "10115",
		City:        "Berlin",
		Country:     "DE",
		Kind:        kind,
		Status:      domain.PropertyStatusVacant,
		ColdRent:    800,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func createTestTenant(t *testing.T, repo *TenantRepository, first, last string, propertyID *uuid.UUID, primary bool) *domain.Tenant {
	t.Helper()
	tenant := &domain.Tenant{
		FirstName:  first,
		LastName:   last,
		Email:      first + "@example.com",
		PropertyID: propertyID,
		IsPrimary:  primary,
		Status:     domain.TenantStatusActive,
	}
	require.NoError(t, repo.Create(context.Background(), tenant))
	return tenant
}

func createTestLease(t *testing.T, repo *LeaseRepository, propertyID, tenantID uuid.UUID) *domain.Lease {
	t.Helper()
	l := &domain.Lease{
		PropertyID:         propertyID,
		TenantID:           tenantID,
		LeaseNumber:        "L-" + uuid.NewString()[:8],
		StartDate:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ColdRent:           750,
		UtilityAdvance:     150,
		PaymentInterval:    domain.PaymentIntervalMonthly,
		NoticePeriodMonths: domain.DefaultNoticePeriodMonths,
		Status:             domain.LeaseStatusActive,
	}
	require.NoError(t, repo.Create(context.Background(), l))
	return l
}
