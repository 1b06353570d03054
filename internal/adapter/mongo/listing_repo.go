package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/awaishyderbrohi/rentify-discovery/internal/domain/entity"
	"github.com/awaishyderbrohi/rentify-discovery/internal/repository"
)

const listingsCollection = "listings"

type ListingRepository struct {
	collection *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{collection: db.Collection(listingsCollection)}
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*entity.Listing, error) {
	var listing entity.Listing
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find listing %s: %w", id, err)
	}
	return &listing, nil
}

// FindByCategory returns the complete active listing set of a category. The
// discovery pipeline derives its own pagination over this set, so no limit or
// skip is applied here.
func (r *ListingRepository) FindByCategory(ctx context.Context, categoryID string) ([]*entity.Listing, error) {
	query := bson.M{"status": entity.StatusActive}
	if categoryID != "" {
		query["category_id"] = categoryID
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings for category %s: %w", categoryID, err)
	}

	var listings []*entity.Listing
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode listings for category %s: %w", categoryID, err)
	}
	return listings, nil
}

func (r *ListingRepository) FindByIDs(ctx context.Context, ids []string) ([]*entity.Listing, error) {
	if len(ids) == 0 {
		return []*entity.Listing{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to query listings by ids: %w", err)
	}

	var listings []*entity.Listing
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode listings by ids: %w", err)
	}
	return listings, nil
}

func (r *ListingRepository) IncrementViews(ctx context.Context, id string) error {
	res, err := r.collection.UpdateByID(ctx, id, bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return fmt.Errorf("failed to increment views for listing %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
