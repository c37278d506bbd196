package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/vermy/vermy/internal/domain"
	"github.com/vermy/vermy/internal/pkg/logger"
)

const dashboardCacheKey = "summary"

// DashboardRepository computes dashboard figures
type DashboardRepository interface {
	Summary(ctx context.Context, now time.Time) (*domain.DashboardSummary, error)
}

// JSONCache is a best-effort cache for JSON-encodable values
type JSONCache interface {
	GetJSON(ctx context.Context, key string, dest any) bool
	SetJSON(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

// DashboardService serves the start page summary, cached when a cache is configured
type DashboardService struct {
	repo  DashboardRepository
	cache JSONCache
}

// NewDashboardService creates a new dashboard service. cache may be nil.
func NewDashboardService(repo DashboardRepository, cache JSONCache) *DashboardService {
	return &DashboardService{repo: repo, cache: cache}
}

// Summary returns the dashboard figures
func (s *DashboardService) Summary(ctx context.Context) (*domain.DashboardSummary, error) {
	if s.cache != nil {
		var cached domain.DashboardSummary
		if s.cache.GetJSON(ctx, dashboardCacheKey, &cached) {
			return &cached, nil
		}
	}

	summary, err := s.repo.Summary(ctx, nowUTC())
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, dashboardCacheKey, summary); err != nil {
			logger.Warn("failed to cache dashboard summary", zap.Error(err))
		}
	}
	return summary, nil
}

// Invalidate drops the cached summary
func (s *DashboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, dashboardCacheKey); err != nil {
		logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}
