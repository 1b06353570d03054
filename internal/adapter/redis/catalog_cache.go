package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/awaishyderbrohi/rentify-discovery/internal/domain/entity"
	"github.com/awaishyderbrohi/rentify-discovery/internal/repository"
)

const catalogKeyPrefix = "discovery:catalog:"

type catalogCache struct {
	client *redis.Client
}

func NewCatalogCache(client *redis.Client) repository.CatalogCache {
	return &catalogCache{client: client}
}

func catalogKey(categoryID string) string {
	if categoryID == "" {
		categoryID = "_all"
	}
	return catalogKeyPrefix + categoryID
}

func (c *catalogCache) GetCategory(ctx context.Context, categoryID string) ([]*entity.Listing, error) {
	data, err := c.client.Get(ctx, catalogKey(categoryID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get catalog for category %s from redis: %w", categoryID, err)
	}

	var listings []*entity.Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog for category %s: %w", categoryID, err)
	}
	return listings, nil
}

func (c *catalogCache) SetCategory(ctx context.Context, categoryID string, listings []*entity.Listing, ttl time.Duration) error {
	data, err := json.Marshal(listings)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog for category %s: %w", categoryID, err)
	}
	if err := c.client.Set(ctx, catalogKey(categoryID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache catalog for category %s: %w", categoryID, err)
	}
	return nil
}

func (c *catalogCache) InvalidateCategory(ctx context.Context, categoryID string) error {
	if err := c.client.Del(ctx, catalogKey(categoryID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate catalog for category %s: %w", categoryID, err)
	}
	return nil
}
