package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/awaishyderbrohi/rentify-discovery/internal/domain/entity"
	"github.com/awaishyderbrohi/rentify-discovery/internal/repository"
)

const favoritesCollection = "favorites"

type FavoriteRepository struct {
	collection *mongo.Collection
}

func NewFavoriteRepository(db *mongo.Database) *FavoriteRepository {
	return &FavoriteRepository{collection: db.Collection(favoritesCollection)}
}

func (r *FavoriteRepository) Add(ctx context.Context, fav *entity.Favorite) error {
	if fav.UserID == "" || fav.ListingID == "" {
		return errors.New("favorite requires user and listing ids")
	}

	existing := r.collection.FindOne(ctx, bson.M{"user_id": fav.UserID, "listing_id": fav.ListingID})
	if existing.Err() == nil {
		return repository.ErrAlreadyExists
	}
	if !errors.Is(existing.Err(), mongo.ErrNoDocuments) {
		return fmt.Errorf("failed to check existing favorite: %w", existing.Err())
	}

	fav.ID = primitive.NewObjectID().Hex()
	fav.CreatedAt = time.Now().UTC()
	if _, err := r.collection.InsertOne(ctx, fav); err != nil {
		return fmt.Errorf("failed to insert favorite for user %s: %w", fav.UserID, err)
	}
	return nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, listingID string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID, "listing_id": listingID})
	if err != nil {
		return fmt.Errorf("failed to delete favorite for user %s: %w", userID, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *FavoriteRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Favorite, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites for user %s: %w", userID, err)
	}

	var favorites []*entity.Favorite
	if err := cursor.All(ctx, &favorites); err != nil {
		return nil, fmt.Errorf("failed to decode favorites for user %s: %w", userID, err)
	}
	return favorites, nil
}
