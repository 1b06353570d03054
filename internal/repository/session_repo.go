package repository

import (
	"context"
	"time"

	"github.com/awaishyderbrohi/rentify-discovery/internal/discovery"
	"github.com/awaishyderbrohi/rentify-discovery/internal/domain/entity"
)

// SessionRepository persists browsing sessions between requests. Sessions are
// short-lived; Save refreshes the TTL on every mutation.
type SessionRepository interface {
	Get(ctx context.Context, sessionID string) (*discovery.Session, error)
	Save(ctx context.Context, session *discovery.Session, ttl time.Duration) error
	Delete(ctx context.Context, sessionID string) error
}

// CatalogCache holds the raw listing set of a category so a browsing session
// does not hit the primary store on every filter click.
type CatalogCache interface {
	GetCategory(ctx context.Context, categoryID string) ([]*entity.Listing, error)
	SetCategory(ctx context.Context, categoryID string, listings []*entity.Listing, ttl time.Duration) error
	InvalidateCategory(ctx context.Context, categoryID string) error
}
