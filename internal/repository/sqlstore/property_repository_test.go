package sqlstore

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vermy/vermy/internal/domain"
	apperrors "github.com/vermy/vermy/internal/pkg/errors"
)

func TestPropertyRepository_Create(t *testing.T) {
	db := getTestDB(t)
	repo := NewPropertyRepository(db)
	ctx := context.Background()

	rooms := 3.5
	p := createTestProperty(t, repo, "Altbau Mitte", domain.PropertyKindApartment)
	p.Rooms = &rooms

	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, 1, p.Version)
	assert.False(t, p.CreatedAt.IsZero())
	assert.Nil(t, p.DeletedAt)

	fetched, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, fetched.ID)
	assert.Equal(t, "Altbau Mitte", fetched.Designation)
	assert.Equal(t, domain.PropertyKindApartment, fetched.Kind)
	assert.Equal(t, 800.0, fetched.ColdRent)
	assert.Nil(t, fetched.ParentID)
	assert.Nil(t, fetched.Rooms)
}

func TestPropertyRepository_GetByID_NotFound(t *testing.T) {
	db := getTestDB(t)
	repo := NewPropertyRepository(db)

	_, err := repo.GetByID(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestPropertyRepository_Update(t *testing.T) {
	db := getTestDB(t)
	repo := NewPropertyRepository(db)
	ctx := context.Background()

	p := createTestProperty(t, repo, "Original", domain.PropertyKindApartment)
	created := p.UpdatedAt

	floor := 2
	p.Designation = "Renamed"
	p.Floor = &floor
	require.NoError(t, repo.Update(ctx, p))
	assert.Equal(t, 2, p.Version)
	assert.False(t, p.UpdatedAt.Before(created))

	fetched, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", fetched.Designation)
	require.NotNil(t, fetched.Floor)
	assert.Equal(t, 2, *fetched.Floor)
	assert.Equal(t, 2, fetched.Version)
}

func TestPropertyRepository_Update_StaleVersion(t *testing.T) {
	db := getTestDB(t)
	repo := NewPropertyRepository(db)
	ctx := context.Background()

	p := createTestProperty(t, repo, "Contended", domain.PropertyKindApartment)

	stale := *p
	p.Designation = "First writer"
	require.NoError(t, repo.Update(ctx, p))

	stale.Designation = "Second writer"
	err := repo.Update(ctx, &stale)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
	assert.Equal(t, 1, stale.Version)

	fetched, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "First writer", fetched.Designation)
}

func TestPropertyRepository_Update_NotFound(t *testing.T) {
	db := getTestDB(t)
	repo := NewPropertyRepository(db)

	p := &domain.Property{Designation: "Ghost", Kind: domain.PropertyKindLand, Status: domain.PropertyStatusVacant}
	p.ID = uuid.New()
	p.Version = 1

	err := repo.Update(context.Background(), p)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestPropertyRepository_SoftDelete(t *testing.T) {
	db := getTestDB(t)
	repo := NewPropertyRepository(db)
	ctx := context.Background()

	kept := createTestProperty(t, repo, "Kept", domain.PropertyKindApartment)
	gone := createTestProperty(t, repo, "Gone", domain.PropertyKindApartment)

	require.NoError(t, repo.SoftDelete(ctx, gone.ID))
	// deleting twice is a no-op
	require.NoError(t, repo.SoftDelete(ctx, gone.ID))

	items, total, err := repo.List(ctx, &domain.PropertyFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, kept.ID, items[0].ID)

	fetched, err := repo.GetByID(ctx, gone.ID)
	require.NoError(t, err)
	assert.True(t, fetched.IsDeleted())
	assert.Equal(t, 2, fetched.Version)

	items, total, err = repo.List(ctx, &domain.PropertyFilter{ListOptions: domain.ListOptions{IncludeDeleted: true}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, items, 2)

	err = repo.SoftDelete(ctx, uuid.New())
	assert.True(t, apperrors.IsNotFound(err))
}

func TestPropertyRepository_Restore(t *testing.T) {
	db := getTestDB(t)
	repo := NewPropertyRepository(db)
	ctx := context.Background()

	p := createTestProperty(t, repo, "Comeback", domain.PropertyKindGarage)
	require.NoError(t, repo.SoftDelete(ctx, p.ID))
	require.NoError(t, repo.Restore(ctx, p.ID))

	fetched, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, fetched.IsDeleted())
	assert.Equal(t, 3, fetched.Version)

	_, total, err := repo.List(ctx, &domain.PropertyFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestPropertyRepository_List_SearchAndFilters(t *testing.T) {
	db := getTestDB(t)
	repo := NewPropertyRepository(db)
	ctx := context.Background()

	house := createTestProperty(t, repo, "Mehrfamilienhaus Nord", domain.PropertyKindHouse)
	unit := &domain.Property{
		Designation: "Wohnung 1 links",
		City:        "Hamburg",
		Kind:        domain.PropertyKindApartment,
		ParentID:    &house.ID,
		Status:      domain.PropertyStatusRented,
	}
	require.NoError(t, repo.Create(ctx, unit))
	createTestProperty(t, repo, "Garage 100%", domain.PropertyKindGarage)

	tests := []struct {
		name   string
		filter domain.PropertyFilter
		want   []string
	}{
		{"search is case insensitive", domain.PropertyFilter{ListOptions: domain.ListOptions{Search: "NORD"}}, []string{"Mehrfamilienhaus Nord"}},
		{"search matches city", domain.PropertyFilter{ListOptions: domain.ListOptions{Search: "hamb"}}, []string{"Wohnung 1 links"}},
		{"search escapes wildcards", domain.PropertyFilter{ListOptions: domain.ListOptions{Search: "100%"}}, []string{"Garage 100%"}},
		{"kind", domain.PropertyFilter{Kind: domain.PropertyKindHouse}, []string{"Mehrfamilienhaus Nord"}},
		{"status", domain.PropertyFilter{Status: domain.PropertyStatusRented}, []string{"Wohnung 1 links"}},
		{"parent", domain.PropertyFilter{ParentID: &house.ID}, []string{"Wohnung 1 links"}},
		{"city", domain.PropertyFilter{City: "berlin"}, []string{"Garage 100%", "Mehrfamilienhaus Nord"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter := tt.filter
			items, total, err := repo.List(ctx, &filter)
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.want)), total)
			got := make([]string, len(items))
			for i, p := range items {
				got[i] = p.Designation
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPropertyRepository_List_Pagination(t *testing.T) {
	db := getTestDB(t)
	repo := NewPropertyRepository(db)
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C", "D", "E"} {
		createTestProperty(t, repo, name, domain.PropertyKindApartment)
	}

	items, total, err := repo.List(ctx, &domain.PropertyFilter{ListOptions: domain.ListOptions{Limit: 2, Offset: 2}})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, items, 2)
	assert.Equal(t, "C", items[0].Designation)
	assert.Equal(t, "D", items[1].Designation)
}

func TestPropertyRepository_CountUnitsAndDeleteAll(t *testing.T) {
	db := getTestDB(t)
	repo := NewPropertyRepository(db)
	ctx := context.Background()

	house := createTestProperty(t, repo, "Haus", domain.PropertyKindHouse)
	for _, name := range []string{"EG", "OG"} {
		require.NoError(t, repo.Create(ctx, &domain.Property{
			Designation: name, Kind: domain.PropertyKindApartment, ParentID: &house.ID, Status: domain.PropertyStatusVacant,
		}))
	}

	n, err := repo.CountUnits(ctx, house.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// the house is still referenced by its units
	err = repo.Purge(ctx, house.ID)
	assert.True(t, apperrors.IsConflict(err))

	require.NoError(t, repo.DeleteAll(ctx))
	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPropertyRepository_InsertKeepsBookkeeping(t *testing.T) {
	db := getTestDB(t)
	repo := NewPropertyRepository(db)
	ctx := context.Background()

	original := createTestProperty(t, repo, "Snapshot", domain.PropertyKindLand)
	require.NoError(t, repo.SoftDelete(ctx, original.ID))
	snapshot, err := repo.GetByID(ctx, original.ID)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteAll(ctx))
	require.NoError(t, repo.Insert(ctx, snapshot))

	restored, err := repo.GetByID(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, snapshot.Version, restored.Version)
	assert.True(t, restored.IsDeleted())
	assert.True(t, snapshot.CreatedAt.Equal(restored.CreatedAt))
}

func TestPropertyRepository_SearchFoldsUmlauts(t *testing.T) {
	db := getTestDB(t)
	repo := NewPropertyRepository(db)
	ctx := context.Background()

	p := createTestProperty(t, repo, "Altbau", domain.PropertyKindHouse)
	p.City = "München"
	require.NoError(t, repo.Update(ctx, p))
	createTestProperty(t, repo, "Neubau", domain.PropertyKindHouse)

	for _, term := range []string{"Straße", "HAUPTSTRAßE", "MÜNCHEN"} {
		t.Run(term, func(t *testing.T) {
			items, total, err := repo.List(ctx, &domain.PropertyFilter{ListOptions: domain.ListOptions{Search: term}})
			require.NoError(t, err)
			if term == "MÜNCHEN" {
				assert.Equal(t, int64(1), total)
				return
			}
			assert.Equal(t, int64(2), total)
			assert.Len(t, items, 2)
		})
	}

	items, _, err := repo.List(ctx, &domain.PropertyFilter{City: "MÜNCHEN"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Altbau", items[0].Designation)
}
