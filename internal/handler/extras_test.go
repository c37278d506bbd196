package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vermy/vermy/internal/domain"
	apperrors "github.com/vermy/vermy/internal/pkg/errors"
)

type MockPropertyExtras struct {
	mock.Mock
}

func (m *MockPropertyExtras) ListUnits(ctx context.Context, id uuid.UUID, opts domain.ListOptions) (*domain.ListResult[domain.Property], error) {
	args := m.Called(ctx, id, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ListResult[domain.Property]), args.Error(1)
}

func (m *MockPropertyExtras) ListByProperty(ctx context.Context, propertyID uuid.UUID, opts domain.ListOptions) (*domain.ListResult[domain.Tenant], error) {
	args := m.Called(ctx, propertyID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ListResult[domain.Tenant]), args.Error(1)
}

type MockDocumentContent struct {
	mock.Mock
}

func (m *MockDocumentContent) Content(ctx context.Context, id uuid.UUID) (*domain.DocumentContent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentContent), args.Error(1)
}

type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) Search(ctx context.Context, query string) (*domain.SearchResult, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SearchResult), args.Error(1)
}

type MockDashboard struct {
	mock.Mock
}

func (m *MockDashboard) Summary(ctx context.Context) (*domain.DashboardSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardSummary), args.Error(1)
}

func TestPropertyHandler(t *testing.T) {
	extras := new(MockPropertyExtras)
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	NewPropertyHandler(extras, extras).RegisterRoutes(app.Group("/api/properties"))

	houseID := uuid.New()
	defaultOpts := domain.ListOptions{}.Normalized()

	t.Run("lists units of a house", func(t *testing.T) {
		extras.On("ListUnits", mock.Anything, houseID, defaultOpts).Return(&domain.ListResult[domain.Property]{
			Items:      []domain.Property{{Designation: "Flat 1"}, {Designation: "Flat 2"}},
			TotalCount: 2,
		}, nil).Once()

		resp, err := app.Test(httptest.NewRequest("GET", "/api/properties/"+houseID.String()+"/units", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var result domain.ListResult[domain.Property]
		decodeJSON(t, resp, &result)
		assert.Len(t, result.Items, 2)
	})

	t.Run("lists tenants of a property", func(t *testing.T) {
		extras.On("ListByProperty", mock.Anything, houseID, defaultOpts).Return(&domain.ListResult[domain.Tenant]{
			Items:      []domain.Tenant{{LastName: "Muster", IsPrimary: true}},
			TotalCount: 1,
		}, nil).Once()

		resp, err := app.Test(httptest.NewRequest("GET", "/api/properties/"+houseID.String()+"/tenants", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var result domain.ListResult[domain.Tenant]
		decodeJSON(t, resp, &result)
		require.Len(t, result.Items, 1)
		assert.True(t, result.Items[0].IsPrimary)
	})

	t.Run("unknown property", func(t *testing.T) {
		missing := uuid.New()
		extras.On("ListUnits", mock.Anything, missing, defaultOpts).Return(nil, apperrors.NotFound("property")).Once()

		resp, err := app.Test(httptest.NewRequest("GET", "/api/properties/"+missing.String()+"/units", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestDocumentHandler_Content(t *testing.T) {
	docs := new(MockDocumentContent)
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	NewDocumentHandler(docs).RegisterRoutes(app.Group("/api/documents"))

	id := uuid.New()
	docs.On("Content", mock.Anything, id).Return(&domain.DocumentContent{
		FileName: "Mietvertrag 2026.pdf",
		MimeType: "application/pdf",
		Data:     []byte("%PDF-1.7"),
	}, nil)

	t.Run("downloads as attachment", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/documents/"+id.String()+"/content", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
		assert.Equal(t, `attachment; filename="Mietvertrag 2026.pdf"`, resp.Header.Get("Content-Disposition"))

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.7", string(body))
	})

	t.Run("serves inline on request", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/documents/"+id.String()+"/content?inline=true", nil))
		require.NoError(t, err)
		assert.Equal(t, `inline; filename="Mietvertrag 2026.pdf"`, resp.Header.Get("Content-Disposition"))
	})
}

func TestSearchHandler(t *testing.T) {
	searcher := new(MockSearcher)
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	NewSearchHandler(searcher).RegisterRoutes(app.Group("/api"))

	t.Run("returns matches per collection", func(t *testing.T) {
		searcher.On("Search", mock.Anything, "muster").Return(&domain.SearchResult{
			Query:      "muster",
			Properties: []domain.Property{},
			Tenants:    []domain.Tenant{{LastName: "Mustermann"}},
			Leases:     []domain.Lease{},
		}, nil).Once()

		resp, err := app.Test(httptest.NewRequest("GET", "/api/search?q=muster", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var result domain.SearchResult
		decodeJSON(t, resp, &result)
		assert.Len(t, result.Tenants, 1)
	})

	t.Run("requires a query", func(t *testing.T) {
		searcher.On("Search", mock.Anything, "").Return(nil, apperrors.BadRequest("query parameter q is required")).Once()

		resp, err := app.Test(httptest.NewRequest("GET", "/api/search", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestDashboardHandler(t *testing.T) {
	dashboard := new(MockDashboard)
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	NewDashboardHandler(dashboard).RegisterRoutes(app.Group("/api"))

	dashboard.On("Summary", mock.Anything).Return(&domain.DashboardSummary{
		Properties:         4,
		ActiveLeases:       3,
		OpenBookingsAmount: 1250.5,
		GeneratedAt:        time.Now().UTC(),
	}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/dashboard", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var summary domain.DashboardSummary
	decodeJSON(t, resp, &summary)
	assert.Equal(t, int64(4), summary.Properties)
	assert.Equal(t, int64(3), summary.ActiveLeases)
	assert.InDelta(t, 1250.5, summary.OpenBookingsAmount, 0.001)
}
