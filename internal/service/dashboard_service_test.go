package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vermy/vermy/internal/domain"
)

type MockDashboardRepository struct {
	mock.Mock
}

func (m *MockDashboardRepository) Summary(ctx context.Context, now time.Time) (*domain.DashboardSummary, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardSummary), args.Error(1)
}

type MockJSONCache struct {
	mock.Mock
}

func (m *MockJSONCache) GetJSON(ctx context.Context, key string, dest any) bool {
	args := m.Called(ctx, key, dest)
	return args.Bool(0)
}

func (m *MockJSONCache) SetJSON(ctx context.Context, key string, value any) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockJSONCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func TestDashboardService_Summary(t *testing.T) {
	ctx := context.Background()
	summary := &domain.DashboardSummary{Properties: 4, VacantProperties: 1}

	t.Run("without cache", func(t *testing.T) {
		repo := new(MockDashboardRepository)
		repo.On("Summary", mock.Anything, mock.AnythingOfType("time.Time")).Return(summary, nil)

		got, err := NewDashboardService(repo, nil).Summary(ctx)
		require.NoError(t, err)
		assert.Equal(t, summary, got)
	})

	t.Run("cache miss stores the result", func(t *testing.T) {
		repo := new(MockDashboardRepository)
		cache := new(MockJSONCache)
		repo.On("Summary", mock.Anything, mock.Anything).Return(summary, nil).Once()
		cache.On("GetJSON", mock.Anything, dashboardCacheKey, mock.Anything).Return(false)
		cache.On("SetJSON", mock.Anything, dashboardCacheKey, summary).Return(errors.New("redis down"))

		got, err := NewDashboardService(repo, cache).Summary(ctx)
		require.NoError(t, err)
		assert.Equal(t, summary, got)
		cache.AssertExpectations(t)
	})

	t.Run("cache hit skips the database", func(t *testing.T) {
		repo := new(MockDashboardRepository)
		cache := new(MockJSONCache)
		cache.On("GetJSON", mock.Anything, dashboardCacheKey, mock.Anything).Run(func(args mock.Arguments) {
			*args.Get(2).(*domain.DashboardSummary) = *summary
		}).Return(true)

		got, err := NewDashboardService(repo, cache).Summary(ctx)
		require.NoError(t, err)
		assert.Equal(t, summary, got)
		repo.AssertNotCalled(t, "Summary", mock.Anything, mock.Anything)
	})

	t.Run("invalidate drops the key", func(t *testing.T) {
		cache := new(MockJSONCache)
		cache.On("Delete", mock.Anything, dashboardCacheKey).Return(nil)

		NewDashboardService(new(MockDashboardRepository), cache).Invalidate(ctx)
		cache.AssertExpectations(t)
	})
}
