package service

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/awaishyderbrohi/rentify-discovery/internal/discovery"
	"github.com/awaishyderbrohi/rentify-discovery/internal/domain/entity"
	"github.com/awaishyderbrohi/rentify-discovery/internal/platform/logger"
	"github.com/awaishyderbrohi/rentify-discovery/internal/repository"
)

type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) FindByID(ctx context.Context, id string) (*entity.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *MockListingRepository) FindByCategory(ctx context.Context, categoryID string) ([]*entity.Listing, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Listing), args.Error(1)
}

func (m *MockListingRepository) FindByIDs(ctx context.Context, ids []string) ([]*entity.Listing, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Listing), args.Error(1)
}

func (m *MockListingRepository) IncrementViews(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Get(ctx context.Context, sessionID string) (*discovery.Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discovery.Session), args.Error(1)
}

func (m *MockSessionRepository) Save(ctx context.Context, session *discovery.Session, ttl time.Duration) error {
	args := m.Called(ctx, session, ttl)
	return args.Error(0)
}

func (m *MockSessionRepository) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

type MockCatalogCache struct {
	mock.Mock
}

func (m *MockCatalogCache) GetCategory(ctx context.Context, categoryID string) ([]*entity.Listing, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Listing), args.Error(1)
}

func (m *MockCatalogCache) SetCategory(ctx context.Context, categoryID string, listings []*entity.Listing, ttl time.Duration) error {
	args := m.Called(ctx, categoryID, listings, ttl)
	return args.Error(0)
}

func (m *MockCatalogCache) InvalidateCategory(ctx context.Context, categoryID string) error {
	args := m.Called(ctx, categoryID)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, subject string, message interface{}) error {
	args := m.Called(ctx, subject, message)
	return args.Error(0)
}

func catalogFixture() []*entity.Listing {
	return []*entity.Listing{
		{ID: "a", Title: "Angle grinder", CategoryID: "tools", Price: 100, Condition: "used", Status: entity.StatusActive},
		{ID: "b", Title: "Belt sander", CategoryID: "tools", Price: 50, Condition: "new", Status: entity.StatusActive},
		{ID: "c", Title: "Circular saw", CategoryID: "tools", Price: 75, Condition: "used", Status: entity.StatusActive},
	}
}

func newTestDiscoveryService(
	listingRepo *MockListingRepository,
	sessionRepo *MockSessionRepository,
	catalog *MockCatalogCache,
	publisher *MockPublisher,
) DiscoveryService {
	return NewDiscoveryService(
		listingRepo,
		sessionRepo,
		catalog,
		publisher,
		nil,
		logger.NoOp{},
		DiscoveryServiceConfig{PageSize: 12, SessionTTL: time.Hour, CatalogCacheTTL: 5 * time.Minute},
	)
}

func TestDiscoveryService_Search_FilterAndSortFromQuery(t *testing.T) {
	listingRepo := new(MockListingRepository)
	sessionRepo := new(MockSessionRepository)
	catalog := new(MockCatalogCache)
	publisher := new(MockPublisher)
	svc := newTestDiscoveryService(listingRepo, sessionRepo, catalog, publisher)

	catalog.On("GetCategory", mock.Anything, "tools").Return(catalogFixture(), nil).Once()
	publisher.On("Publish", mock.Anything, "discovery.search.performed", mock.Anything).Return(nil).Once()

	q, _ := url.ParseQuery("condition=used&sort=price_asc")
	result, err := svc.Search(context.Background(), "tools", q)

	require.NoError(t, err)
	require.Len(t, result.Listings, 2)
	assert.Equal(t, "c", result.Listings[0].ID)
	assert.Equal(t, "a", result.Listings[1].ID)
	assert.Equal(t, 2, result.TotalCount)
	assert.Equal(t, 1, result.TotalPages)
	assert.True(t, result.HasActiveFilters)
	assert.Equal(t, "condition=used&sort=price_asc", result.CanonicalQuery)

	catalog.AssertExpectations(t)
	publisher.AssertExpectations(t)
	listingRepo.AssertNotCalled(t, "FindByCategory")
}

func TestDiscoveryService_Search_CacheMissFallsBackToRepository(t *testing.T) {
	listingRepo := new(MockListingRepository)
	sessionRepo := new(MockSessionRepository)
	catalog := new(MockCatalogCache)
	publisher := new(MockPublisher)
	svc := newTestDiscoveryService(listingRepo, sessionRepo, catalog, publisher)

	catalog.On("GetCategory", mock.Anything, "tools").Return(nil, repository.ErrNotFound).Once()
	listingRepo.On("FindByCategory", mock.Anything, "tools").Return(catalogFixture(), nil).Once()
	catalog.On("SetCategory", mock.Anything, "tools", mock.Anything, 5*time.Minute).Return(nil).Once()
	publisher.On("Publish", mock.Anything, "discovery.search.performed", mock.Anything).Return(nil).Once()

	result, err := svc.Search(context.Background(), "tools", url.Values{})

	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalCount)
	assert.False(t, result.HasActiveFilters)
	assert.Empty(t, result.CanonicalQuery, "a default selection keeps the URL bare")

	catalog.AssertExpectations(t)
	listingRepo.AssertExpectations(t)
}

func TestDiscoveryService_Search_OutOfRangePageClamped(t *testing.T) {
	listingRepo := new(MockListingRepository)
	sessionRepo := new(MockSessionRepository)
	catalog := new(MockCatalogCache)
	publisher := new(MockPublisher)
	svc := newTestDiscoveryService(listingRepo, sessionRepo, catalog, publisher)

	catalog.On("GetCategory", mock.Anything, "tools").Return(catalogFixture(), nil).Once()
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	q, _ := url.ParseQuery("page=99")
	result, err := svc.Search(context.Background(), "tools", q)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Page, "stale page numbers are silently clamped")
	assert.Len(t, result.Listings, 3)
}

func TestDiscoveryService_Search_PreservesForeignQueryParams(t *testing.T) {
	listingRepo := new(MockListingRepository)
	sessionRepo := new(MockSessionRepository)
	catalog := new(MockCatalogCache)
	publisher := new(MockPublisher)
	svc := newTestDiscoveryService(listingRepo, sessionRepo, catalog, publisher)

	catalog.On("GetCategory", mock.Anything, "tools").Return(catalogFixture(), nil).Once()
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	q, _ := url.ParseQuery("utm_source=mail&condition=new")
	result, err := svc.Search(context.Background(), "tools", q)

	require.NoError(t, err)
	parsed, err := url.ParseQuery(result.CanonicalQuery)
	require.NoError(t, err)
	assert.Equal(t, "mail", parsed.Get("utm_source"))
	assert.Equal(t, "new", parsed.Get("condition"))
}

func TestDiscoveryService_StartSession_PersistsAndPublishes(t *testing.T) {
	listingRepo := new(MockListingRepository)
	sessionRepo := new(MockSessionRepository)
	catalog := new(MockCatalogCache)
	publisher := new(MockPublisher)
	svc := newTestDiscoveryService(listingRepo, sessionRepo, catalog, publisher)

	catalog.On("GetCategory", mock.Anything, "tools").Return(catalogFixture(), nil).Once()
	sessionRepo.On("Save", mock.Anything, mock.MatchedBy(func(s *discovery.Session) bool {
		return s.ID != "" && s.CategoryID == "tools" && s.Page == 1
	}), time.Hour).Return(nil).Once()
	publisher.On("Publish", mock.Anything, "discovery.session.started", mock.Anything).Return(nil).Once()

	result, err := svc.StartSession(context.Background(), "tools", nil)

	require.NoError(t, err)
	assert.NotEmpty(t, result.SessionID)
	assert.Equal(t, 3, result.TotalCount)
	assert.NotEmpty(t, result.Facets[discovery.DimCondition])

	sessionRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestDiscoveryService_ToggleFilter_SavesAndRecomputes(t *testing.T) {
	listingRepo := new(MockListingRepository)
	sessionRepo := new(MockSessionRepository)
	catalog := new(MockCatalogCache)
	publisher := new(MockPublisher)
	svc := newTestDiscoveryService(listingRepo, sessionRepo, catalog, publisher)

	stored := discovery.NewSession("sess-1", "tools", 12)
	stored.SetPage(3)

	sessionRepo.On("Get", mock.Anything, "sess-1").Return(stored, nil).Once()
	catalog.On("GetCategory", mock.Anything, "tools").Return(catalogFixture(), nil).Once()
	sessionRepo.On("Save", mock.Anything, mock.MatchedBy(func(s *discovery.Session) bool {
		return s.Filters.Condition["used"] && s.Page == 1
	}), time.Hour).Return(nil).Once()

	result, err := svc.ToggleFilter(context.Background(), "sess-1", discovery.DimCondition, "used")

	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalCount)
	assert.Equal(t, 1, result.Page, "filter change resets the page")
	require.Len(t, result.Chips, 1)
	assert.Equal(t, "used", result.Chips[0].Value)

	sessionRepo.AssertExpectations(t)
}

func TestDiscoveryService_SetPage_DoesNotTouchFilters(t *testing.T) {
	listingRepo := new(MockListingRepository)
	sessionRepo := new(MockSessionRepository)
	catalog := new(MockCatalogCache)
	publisher := new(MockPublisher)
	svc := newTestDiscoveryService(listingRepo, sessionRepo, catalog, publisher)

	stored := discovery.NewSession("sess-1", "tools", 2)
	stored.ToggleFilterValue(discovery.DimCondition, "used")

	sessionRepo.On("Get", mock.Anything, "sess-1").Return(stored, nil).Once()
	catalog.On("GetCategory", mock.Anything, "tools").Return(catalogFixture(), nil).Once()
	sessionRepo.On("Save", mock.Anything, mock.MatchedBy(func(s *discovery.Session) bool {
		return s.Page == 2 && s.Filters.Condition["used"]
	}), time.Hour).Return(nil).Once()

	result, err := svc.SetPage(context.Background(), "sess-1", 2)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Page)
	assert.True(t, result.HasActiveFilters)
}

func TestDiscoveryService_SessionNotFound(t *testing.T) {
	listingRepo := new(MockListingRepository)
	sessionRepo := new(MockSessionRepository)
	catalog := new(MockCatalogCache)
	publisher := new(MockPublisher)
	svc := newTestDiscoveryService(listingRepo, sessionRepo, catalog, publisher)

	sessionRepo.On("Get", mock.Anything, "missing").Return(nil, repository.ErrNotFound).Once()

	_, err := svc.ToggleFilter(context.Background(), "missing", discovery.DimBrand, "Bosch")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDiscoveryService_Search_RepositoryFailure(t *testing.T) {
	listingRepo := new(MockListingRepository)
	sessionRepo := new(MockSessionRepository)
	catalog := new(MockCatalogCache)
	publisher := new(MockPublisher)
	svc := newTestDiscoveryService(listingRepo, sessionRepo, catalog, publisher)

	catalog.On("GetCategory", mock.Anything, "tools").Return(nil, repository.ErrNotFound).Once()
	listingRepo.On("FindByCategory", mock.Anything, "tools").Return(nil, errors.New("mongo down")).Once()

	_, err := svc.Search(context.Background(), "tools", url.Values{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "could not load listings")
}

func TestDiscoveryService_GetListing_IncrementsViews(t *testing.T) {
	listingRepo := new(MockListingRepository)
	sessionRepo := new(MockSessionRepository)
	catalog := new(MockCatalogCache)
	publisher := new(MockPublisher)
	svc := newTestDiscoveryService(listingRepo, sessionRepo, catalog, publisher)

	listing := catalogFixture()[0]
	listingRepo.On("FindByID", mock.Anything, "a").Return(listing, nil).Once()
	listingRepo.On("IncrementViews", mock.Anything, "a").Return(nil).Once()
	publisher.On("Publish", mock.Anything, "discovery.listing.viewed", mock.Anything).Return(nil).Once()

	got, err := svc.GetListing(context.Background(), "a")

	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)
	listingRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestDiscoveryService_GetListing_NotFound(t *testing.T) {
	listingRepo := new(MockListingRepository)
	sessionRepo := new(MockSessionRepository)
	catalog := new(MockCatalogCache)
	publisher := new(MockPublisher)
	svc := newTestDiscoveryService(listingRepo, sessionRepo, catalog, publisher)

	listingRepo.On("FindByID", mock.Anything, "nope").Return(nil, repository.ErrNotFound).Once()

	_, err := svc.GetListing(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrListingNotFound)
}
