package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vermy/vermy/internal/domain"
	apperrors "github.com/vermy/vermy/internal/pkg/errors"
)

// restoreCase deletes a child and then its parent. restore brings the child
// back; reviveParent restores the parent.
type restoreCase struct {
	name  string
	setup func(t *testing.T, env *testEnv) (restore func() error, reviveParent func() error)
}

// restoreErr drops the restored record
func restoreErr(_ any, err error) error {
	return err
}

func TestRestore_RequiresLiveReferences(t *testing.T) {
	ctx := context.Background()

	// flatWithoutTenants returns a unit whose soft delete is not guarded
	flatWithoutTenants := func(t *testing.T, env *testEnv) (*domain.Property, func() error, func() error) {
		flat := env.unit(t, "Ölweg 3", nil)
		deleteFlat := func() error { return env.propertyService.Delete(ctx, flat.ID) }
		reviveFlat := func() error { return restoreErr(env.propertyService.Restore(ctx, flat.ID)) }
		return flat, deleteFlat, reviveFlat
	}

	tests := []restoreCase{
		{
			name: "tenant on deleted property",
			setup: func(t *testing.T, env *testEnv) (func() error, func() error) {
				flat, deleteFlat, reviveFlat := flatWithoutTenants(t, env)
				tn := env.tenant(t, "Müller", flat.ID, true)
				require.NoError(t, env.tenantService.Delete(ctx, tn.ID))
				require.NoError(t, deleteFlat())
				return func() error { return restoreErr(env.tenantService.Restore(ctx, tn.ID)) }, reviveFlat
			},
		},
		{
			name: "lease of deleted tenant",
			setup: func(t *testing.T, env *testEnv) (func() error, func() error) {
				flat := env.unit(t, "Ölweg 3", nil)
				tn := env.tenant(t, "Müller", flat.ID, true)
				l := env.lease(t, flat.ID, tn.ID)
				require.NoError(t, env.leaseService.Delete(ctx, l.ID))
				require.NoError(t, env.tenantService.Delete(ctx, tn.ID))
				return func() error { return restoreErr(env.leaseService.Restore(ctx, l.ID)) },
					func() error { return restoreErr(env.tenantService.Restore(ctx, tn.ID)) }
			},
		},
		{
			name: "booking of deleted lease",
			setup: func(t *testing.T, env *testEnv) (func() error, func() error) {
				flat := env.unit(t, "Ölweg 3", nil)
				tn := env.tenant(t, "Müller", flat.ID, true)
				l := env.lease(t, flat.ID, tn.ID)
				b := env.booking(t, flat.ID, &l.ID, 750)
				require.NoError(t, env.bookingService.Delete(ctx, b.ID))
				require.NoError(t, env.leaseService.Delete(ctx, l.ID))
				return func() error { return restoreErr(env.bookingService.Restore(ctx, b.ID)) },
					func() error { return restoreErr(env.leaseService.Restore(ctx, l.ID)) }
			},
		},
		{
			name: "dunning notice of deleted booking",
			setup: func(t *testing.T, env *testEnv) (func() error, func() error) {
				flat := env.unit(t, "Ölweg 3", nil)
				tn := env.tenant(t, "Müller", flat.ID, true)
				b := env.booking(t, flat.ID, nil, 750)
				d, err := env.dunningService.Create(ctx, &domain.DunningNoticeInput{
					PropertyID: flat.ID,
					TenantID:   tn.ID,
					BookingID:  &b.ID,
					Level:      1,
					AmountDue:  750,
					NoticeDate: day(2024, 3, 15),
					DueDate:    day(2024, 3, 29),
				})
				require.NoError(t, err)
				require.NoError(t, env.dunningService.Delete(ctx, d.ID))
				require.NoError(t, env.bookingService.Delete(ctx, b.ID))
				return func() error { return restoreErr(env.dunningService.Restore(ctx, d.ID)) },
					func() error { return restoreErr(env.bookingService.Restore(ctx, b.ID)) }
			},
		},
		{
			name: "maintenance ticket on deleted property",
			setup: func(t *testing.T, env *testEnv) (func() error, func() error) {
				flat, deleteFlat, reviveFlat := flatWithoutTenants(t, env)
				m, err := env.ticketService.Create(ctx, &domain.MaintenanceTicketInput{
					PropertyID: flat.ID,
					Title:      "Übergabeprotokoll prüfen",
					Category:   domain.TicketCategoryInspection,
				})
				require.NoError(t, err)
				require.NoError(t, env.ticketService.Delete(ctx, m.ID))
				require.NoError(t, deleteFlat())
				return func() error { return restoreErr(env.ticketService.Restore(ctx, m.ID)) }, reviveFlat
			},
		},
		{
			name: "utility statement of deleted property",
			setup: func(t *testing.T, env *testEnv) (func() error, func() error) {
				flat, deleteFlat, reviveFlat := flatWithoutTenants(t, env)
				u, err := env.statementService.Create(ctx, &domain.UtilityStatementInput{
					PropertyID: flat.ID,
					Year:       2024,
					Heating:    900,
				})
				require.NoError(t, err)
				require.NoError(t, env.statementService.Delete(ctx, u.ID))
				require.NoError(t, deleteFlat())
				return func() error { return restoreErr(env.statementService.Restore(ctx, u.ID)) }, reviveFlat
			},
		},
		{
			name: "document of deleted property",
			setup: func(t *testing.T, env *testEnv) (func() error, func() error) {
				flat, deleteFlat, reviveFlat := flatWithoutTenants(t, env)
				doc, err := env.documentService.Create(ctx, &domain.DocumentInput{
					PropertyID: &flat.ID,
					Title:      "Übergabeprotokoll",
					Category:   domain.DocumentCategoryProtocol,
				})
				require.NoError(t, err)
				require.NoError(t, env.documentService.Delete(ctx, doc.ID))
				require.NoError(t, deleteFlat())
				return func() error { return restoreErr(env.documentService.Restore(ctx, doc.ID)) }, reviveFlat
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, false)
			restore, reviveParent := tt.setup(t, env)

			err := restore()
			require.Error(t, err)
			assert.True(t, apperrors.IsConflict(err), "got %v", err)

			require.NoError(t, reviveParent())
			assert.NoError(t, restore())
		})
	}
}

func TestRestore_MissingRecord(t *testing.T) {
	env := newTestEnv(t, false)

	_, err := env.leaseService.Restore(context.Background(), uuid.New())
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRestore_LiveRecordIsNoop(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, false)
	flat := env.unit(t, "Ölweg 3", nil)
	tn := env.tenant(t, "Müller", flat.ID, true)

	restored, err := env.tenantService.Restore(ctx, tn.ID)
	require.NoError(t, err)
	assert.Equal(t, tn.Version, restored.Version)
	assert.False(t, restored.IsDeleted())
}
