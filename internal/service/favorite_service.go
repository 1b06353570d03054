package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/awaishyderbrohi/rentify-discovery/internal/domain/entity"
	"github.com/awaishyderbrohi/rentify-discovery/internal/platform/logger"
	"github.com/awaishyderbrohi/rentify-discovery/internal/repository"
)

var ErrAlreadyFavorite = errors.New("listing already in favorites")
var ErrFavoriteNotFound = errors.New("favorite not found")

type FavoriteService interface {
	AddFavorite(ctx context.Context, userID, listingID string) error
	RemoveFavorite(ctx context.Context, userID, listingID string) error
	// ListFavorites resolves the user's favorites to full listings, most
	// recently added first. Favorites whose listing has disappeared are
	// skipped.
	ListFavorites(ctx context.Context, userID string) ([]*entity.Listing, error)
}

type favoriteService struct {
	favoriteRepo repository.FavoriteRepository
	listingRepo  repository.ListingRepository
	log          logger.Logger
}

func NewFavoriteService(
	favoriteRepo repository.FavoriteRepository,
	listingRepo repository.ListingRepository,
	log logger.Logger,
) FavoriteService {
	return &favoriteService{
		favoriteRepo: favoriteRepo,
		listingRepo:  listingRepo,
		log:          log,
	}
}

func (s *favoriteService) AddFavorite(ctx context.Context, userID, listingID string) error {
	s.log.Infof("AddFavorite: user=%s listing=%s", userID, listingID)

	if _, err := s.listingRepo.FindByID(ctx, listingID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrListingNotFound
		}
		s.log.Errorf("AddFavorite: failed to verify listing %s: %v", listingID, err)
		return fmt.Errorf("could not verify listing: %w", err)
	}

	err := s.favoriteRepo.Add(ctx, &entity.Favorite{UserID: userID, ListingID: listingID})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return ErrAlreadyFavorite
		}
		s.log.Errorf("AddFavorite: failed to add favorite for user %s: %v", userID, err)
		return fmt.Errorf("could not add favorite: %w", err)
	}
	return nil
}

func (s *favoriteService) RemoveFavorite(ctx context.Context, userID, listingID string) error {
	s.log.Infof("RemoveFavorite: user=%s listing=%s", userID, listingID)

	err := s.favoriteRepo.Remove(ctx, userID, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrFavoriteNotFound
		}
		s.log.Errorf("RemoveFavorite: failed to remove favorite for user %s: %v", userID, err)
		return fmt.Errorf("could not remove favorite: %w", err)
	}
	return nil
}

func (s *favoriteService) ListFavorites(ctx context.Context, userID string) ([]*entity.Listing, error) {
	favorites, err := s.favoriteRepo.ListByUser(ctx, userID)
	if err != nil {
		s.log.Errorf("ListFavorites: failed to list favorites for user %s: %v", userID, err)
		return nil, fmt.Errorf("could not list favorites: %w", err)
	}
	if len(favorites) == 0 {
		return []*entity.Listing{}, nil
	}

	ids := make([]string, 0, len(favorites))
	for _, fav := range favorites {
		ids = append(ids, fav.ListingID)
	}

	listings, err := s.listingRepo.FindByIDs(ctx, ids)
	if err != nil {
		s.log.Errorf("ListFavorites: failed to resolve listings for user %s: %v", userID, err)
		return nil, fmt.Errorf("could not resolve favorite listings: %w", err)
	}

	byID := make(map[string]*entity.Listing, len(listings))
	for _, l := range listings {
		byID[l.ID] = l
	}

	ordered := make([]*entity.Listing, 0, len(favorites))
	for _, fav := range favorites {
		if l, ok := byID[fav.ListingID]; ok {
			ordered = append(ordered, l)
		}
	}
	return ordered, nil
}
