package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/awaishyderbrohi/rentify-discovery/internal/domain/entity"
	"github.com/awaishyderbrohi/rentify-discovery/internal/platform/logger"
	"github.com/awaishyderbrohi/rentify-discovery/internal/repository"
)

type MockFavoriteRepository struct {
	mock.Mock
}

func (m *MockFavoriteRepository) Add(ctx context.Context, fav *entity.Favorite) error {
	args := m.Called(ctx, fav)
	return args.Error(0)
}

func (m *MockFavoriteRepository) Remove(ctx context.Context, userID, listingID string) error {
	args := m.Called(ctx, userID, listingID)
	return args.Error(0)
}

func (m *MockFavoriteRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Favorite, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Favorite), args.Error(1)
}

func TestFavoriteService_AddFavorite_Success(t *testing.T) {
	favoriteRepo := new(MockFavoriteRepository)
	listingRepo := new(MockListingRepository)
	svc := NewFavoriteService(favoriteRepo, listingRepo, logger.NoOp{})

	listingRepo.On("FindByID", mock.Anything, "l1").Return(&entity.Listing{ID: "l1"}, nil).Once()
	favoriteRepo.On("Add", mock.Anything, mock.MatchedBy(func(f *entity.Favorite) bool {
		return f.UserID == "u1" && f.ListingID == "l1"
	})).Return(nil).Once()

	err := svc.AddFavorite(context.Background(), "u1", "l1")

	require.NoError(t, err)
	favoriteRepo.AssertExpectations(t)
	listingRepo.AssertExpectations(t)
}

func TestFavoriteService_AddFavorite_ListingMissing(t *testing.T) {
	favoriteRepo := new(MockFavoriteRepository)
	listingRepo := new(MockListingRepository)
	svc := NewFavoriteService(favoriteRepo, listingRepo, logger.NoOp{})

	listingRepo.On("FindByID", mock.Anything, "gone").Return(nil, repository.ErrNotFound).Once()

	err := svc.AddFavorite(context.Background(), "u1", "gone")

	assert.ErrorIs(t, err, ErrListingNotFound)
	favoriteRepo.AssertNotCalled(t, "Add")
}

func TestFavoriteService_AddFavorite_Duplicate(t *testing.T) {
	favoriteRepo := new(MockFavoriteRepository)
	listingRepo := new(MockListingRepository)
	svc := NewFavoriteService(favoriteRepo, listingRepo, logger.NoOp{})

	listingRepo.On("FindByID", mock.Anything, "l1").Return(&entity.Listing{ID: "l1"}, nil).Once()
	favoriteRepo.On("Add", mock.Anything, mock.Anything).Return(repository.ErrAlreadyExists).Once()

	err := svc.AddFavorite(context.Background(), "u1", "l1")

	assert.ErrorIs(t, err, ErrAlreadyFavorite)
}

func TestFavoriteService_RemoveFavorite_NotFound(t *testing.T) {
	favoriteRepo := new(MockFavoriteRepository)
	listingRepo := new(MockListingRepository)
	svc := NewFavoriteService(favoriteRepo, listingRepo, logger.NoOp{})

	favoriteRepo.On("Remove", mock.Anything, "u1", "l1").Return(repository.ErrNotFound).Once()

	err := svc.RemoveFavorite(context.Background(), "u1", "l1")

	assert.ErrorIs(t, err, ErrFavoriteNotFound)
}

func TestFavoriteService_ListFavorites_PreservesOrderAndSkipsVanished(t *testing.T) {
	favoriteRepo := new(MockFavoriteRepository)
	listingRepo := new(MockListingRepository)
	svc := NewFavoriteService(favoriteRepo, listingRepo, logger.NoOp{})

	favoriteRepo.On("ListByUser", mock.Anything, "u1").Return([]*entity.Favorite{
		{UserID: "u1", ListingID: "c"},
		{UserID: "u1", ListingID: "gone"},
		{UserID: "u1", ListingID: "a"},
	}, nil).Once()
	listingRepo.On("FindByIDs", mock.Anything, []string{"c", "gone", "a"}).Return([]*entity.Listing{
		{ID: "a", Title: "Angle grinder"},
		{ID: "c", Title: "Circular saw"},
	}, nil).Once()

	listings, err := svc.ListFavorites(context.Background(), "u1")

	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, "c", listings[0].ID, "favorites order wins over repository order")
	assert.Equal(t, "a", listings[1].ID)
}

func TestFavoriteService_ListFavorites_Empty(t *testing.T) {
	favoriteRepo := new(MockFavoriteRepository)
	listingRepo := new(MockListingRepository)
	svc := NewFavoriteService(favoriteRepo, listingRepo, logger.NoOp{})

	favoriteRepo.On("ListByUser", mock.Anything, "u1").Return([]*entity.Favorite{}, nil).Once()

	listings, err := svc.ListFavorites(context.Background(), "u1")

	require.NoError(t, err)
	assert.Empty(t, listings)
	listingRepo.AssertNotCalled(t, "FindByIDs")
}
