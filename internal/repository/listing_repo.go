package repository

import (
	"context"

	"github.com/awaishyderbrohi/rentify-discovery/internal/domain/entity"
)

// ListingRepository is the listings source. The discovery pipeline filters,
// sorts and paginates client-side over the full category set, so the
// repository returns complete sets rather than server-side pages.
type ListingRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Listing, error)
	FindByCategory(ctx context.Context, categoryID string) ([]*entity.Listing, error)
	FindByIDs(ctx context.Context, ids []string) ([]*entity.Listing, error)
	IncrementViews(ctx context.Context, id string) error
}

type FavoriteRepository interface {
	Add(ctx context.Context, fav *entity.Favorite) error
	Remove(ctx context.Context, userID, listingID string) error
	ListByUser(ctx context.Context, userID string) ([]*entity.Favorite, error)
}
