package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vermy/vermy/internal/domain"
	apperrors "github.com/vermy/vermy/internal/pkg/errors"
)

func TestTenantService_PrimaryTenant(t *testing.T) {
	ctx := context.Background()

	t.Run("second primary tenant is rejected", func(t *testing.T) {
		env := newTestEnv(t, false)
		flat := env.unit(t, "Wohnung 3", nil)
		first := env.tenant(t, "Mustermann", flat.ID, true)

		_, err := env.tenantService.Create(ctx, &domain.TenantInput{
			FirstName:  "Max",
			LastName:   "Muster",
			PropertyID: &flat.ID,
			IsPrimary:  true,
		})

		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))
		assert.Equal(t, first.ID.String(), apperrors.GetAppError(err).Details["primaryTenantId"])
	})

	t.Run("secondary tenants are unrestricted", func(t *testing.T) {
		env := newTestEnv(t, false)
		flat := env.unit(t, "Wohnung 3", nil)
		env.tenant(t, "Mustermann", flat.ID, true)
		env.tenant(t, "Muster", flat.ID, false)
		env.tenant(t, "Beispiel", flat.ID, false)

		res, err := env.tenantService.ListByProperty(ctx, flat.ID, domain.ListOptions{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), res.TotalCount)
	})

	t.Run("each property has its own primary", func(t *testing.T) {
		env := newTestEnv(t, false)
		a := env.unit(t, "A", nil)
		b := env.unit(t, "B", nil)
		env.tenant(t, "Eins", a.ID, true)
		env.tenant(t, "Zwei", b.ID, true)
	})

	t.Run("updating the primary keeps its flag", func(t *testing.T) {
		env := newTestEnv(t, false)
		flat := env.unit(t, "Wohnung", nil)
		tn := env.tenant(t, "Mustermann", flat.ID, true)

		updated, err := env.tenantService.Update(ctx, tn.ID, &domain.TenantInput{
			FirstName:  "Erika",
			LastName:   "Mustermann-Schmidt",
			PropertyID: &flat.ID,
			IsPrimary:  true,
		})
		require.NoError(t, err)
		assert.Equal(t, "Mustermann-Schmidt", updated.LastName)
		assert.True(t, updated.IsPrimary)
	})

	t.Run("promoting a second tenant is rejected", func(t *testing.T) {
		env := newTestEnv(t, false)
		flat := env.unit(t, "Wohnung", nil)
		env.tenant(t, "Mustermann", flat.ID, true)
		other := env.tenant(t, "Muster", flat.ID, false)

		_, err := env.tenantService.Update(ctx, other.ID, &domain.TenantInput{
			FirstName:  "Erika",
			LastName:   "Muster",
			PropertyID: &flat.ID,
			IsPrimary:  true,
		})
		assert.True(t, apperrors.IsConflict(err))
	})

	t.Run("deleting the primary frees the slot", func(t *testing.T) {
		env := newTestEnv(t, false)
		flat := env.unit(t, "Wohnung", nil)
		first := env.tenant(t, "Mustermann", flat.ID, true)
		require.NoError(t, env.tenantService.Delete(ctx, first.ID))

		env.tenant(t, "Nachmieter", flat.ID, true)

		_, err := env.tenantService.Restore(ctx, first.ID)
		assert.True(t, apperrors.IsConflict(err))
	})
}

func TestTenantService_Validation(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown property", func(t *testing.T) {
		env := newTestEnv(t, false)
		missing := uuid.New()

		_, err := env.tenantService.Create(ctx, &domain.TenantInput{
			FirstName:  "Erika",
			LastName:   "Mustermann",
			PropertyID: &missing,
		})
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("move out before move in", func(t *testing.T) {
		env := newTestEnv(t, false)
		in := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		out := in.AddDate(0, -1, 0)

		_, err := env.tenantService.Create(ctx, &domain.TenantInput{
			FirstName:   "Erika",
			LastName:    "Mustermann",
			MoveInDate:  &in,
			MoveOutDate: &out,
		})
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("invalid email", func(t *testing.T) {
		env := newTestEnv(t, false)

		_, err := env.tenantService.Create(ctx, &domain.TenantInput{
			FirstName: "Erika",
			LastName:  "Mustermann",
			Email:     "not-an-email",
		})
		require.Error(t, err)
		assert.Contains(t, apperrors.GetAppError(err).Details, "email")
	})

	t.Run("normalises names and email", func(t *testing.T) {
		env := newTestEnv(t, false)

		tn, err := env.tenantService.Create(ctx, &domain.TenantInput{
			FirstName: "  Erika ",
			LastName:  "Mustermann",
			Email:     "Erika@Example.COM",
		})
		require.NoError(t, err)
		assert.Equal(t, "Erika", tn.FirstName)
		assert.Equal(t, "erika@example.com", tn.Email)
		assert.Equal(t, domain.TenantStatusActive, tn.Status)
	})
}
