package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	natsadapter "github.com/awaishyderbrohi/rentify-discovery/internal/adapter/nats"
	"github.com/awaishyderbrohi/rentify-discovery/internal/discovery"
	"github.com/awaishyderbrohi/rentify-discovery/internal/domain/entity"
	"github.com/awaishyderbrohi/rentify-discovery/internal/platform/logger"
	"github.com/awaishyderbrohi/rentify-discovery/internal/platform/metrics"
	"github.com/awaishyderbrohi/rentify-discovery/internal/repository"
)

var ErrSessionNotFound = errors.New("browsing session not found")
var ErrListingNotFound = errors.New("listing not found")

// SearchResult is everything a results view needs: the page to render,
// pagination metadata, facet counts, active-filter chips and the canonical
// query string for the address bar.
type SearchResult struct {
	SessionID        string            `json:"sessionId,omitempty"`
	CategoryID       string            `json:"categoryId,omitempty"`
	Listings         []*entity.Listing `json:"listings"`
	TotalCount       int               `json:"totalCount"`
	TotalPages       int               `json:"totalPages"`
	Page             int               `json:"page"`
	PageSize         int               `json:"pageSize"`
	Facets           discovery.Facets  `json:"facets"`
	Chips            []discovery.Chip  `json:"activeFilterChips"`
	HasActiveFilters bool              `json:"hasActiveFilters"`
	CanonicalQuery   string            `json:"canonicalQuery"`
}

type DiscoveryService interface {
	// Search is the stateless variant: one URL in, one result page out.
	Search(ctx context.Context, categoryID string, rawQuery url.Values) (*SearchResult, error)

	// Session operations mirror the filter-state store. Every mutation
	// persists the session and returns the recomputed view.
	StartSession(ctx context.Context, categoryID string, rawQuery url.Values) (*SearchResult, error)
	GetSession(ctx context.Context, sessionID string) (*SearchResult, error)
	ToggleFilter(ctx context.Context, sessionID string, dim discovery.Dimension, value string) (*SearchResult, error)
	SetPriceRange(ctx context.Context, sessionID string, min, max float64) (*SearchResult, error)
	SetSort(ctx context.Context, sessionID, sortValue string) (*SearchResult, error)
	SetPage(ctx context.Context, sessionID string, page int) (*SearchResult, error)
	ClearFilters(ctx context.Context, sessionID string) (*SearchResult, error)
	EndSession(ctx context.Context, sessionID string) error

	GetListing(ctx context.Context, id string) (*entity.Listing, error)
}

type discoveryService struct {
	listingRepo repository.ListingRepository
	sessionRepo repository.SessionRepository
	catalog     repository.CatalogCache
	publisher   natsadapter.MessagePublisher
	metrics     *metrics.Manager
	log         logger.Logger
	pageSize    int
	sessionTTL  time.Duration
	catalogTTL  time.Duration
}

type DiscoveryServiceConfig struct {
	PageSize        int
	SessionTTL      time.Duration
	CatalogCacheTTL time.Duration
}

func NewDiscoveryService(
	listingRepo repository.ListingRepository,
	sessionRepo repository.SessionRepository,
	catalog repository.CatalogCache,
	publisher natsadapter.MessagePublisher,
	mm *metrics.Manager,
	log logger.Logger,
	cfg DiscoveryServiceConfig,
) DiscoveryService {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = discovery.DefaultPageSize
	}
	sessionTTL := cfg.SessionTTL
	if sessionTTL <= 0 {
		sessionTTL = 2 * time.Hour
	}
	catalogTTL := cfg.CatalogCacheTTL
	if catalogTTL <= 0 {
		catalogTTL = 5 * time.Minute
	}

	return &discoveryService{
		listingRepo: listingRepo,
		sessionRepo: sessionRepo,
		catalog:     catalog,
		publisher:   publisher,
		metrics:     mm,
		log:         log,
		pageSize:    pageSize,
		sessionTTL:  sessionTTL,
		catalogTTL:  catalogTTL,
	}
}

// loadCatalog fetches the raw listing set for a category, serving from the
// cache when possible.
func (s *discoveryService) loadCatalog(ctx context.Context, categoryID string) ([]*entity.Listing, error) {
	listings, err := s.catalog.GetCategory(ctx, categoryID)
	if err == nil {
		if s.metrics != nil {
			s.metrics.CatalogCacheHits.Inc()
		}
		return listings, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		s.log.Warnf("Catalog cache read failed for category %s: %v. Falling back to repository.", categoryID, err)
	}
	if s.metrics != nil {
		s.metrics.CatalogCacheMisses.Inc()
	}

	listings, err = s.listingRepo.FindByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("could not load listings for category %s: %w", categoryID, err)
	}
	if cacheErr := s.catalog.SetCategory(ctx, categoryID, listings, s.catalogTTL); cacheErr != nil {
		s.log.Warnf("Failed to cache catalog for category %s: %v", categoryID, cacheErr)
	}
	return listings, nil
}

// render recomputes the derived view for a session over its category's
// listing set. extra carries query parameters outside the managed key set
// that should survive in the canonical query string.
func (s *discoveryService) render(session *discovery.Session, listings []*entity.Listing, extra url.Values) *SearchResult {
	view := session.View(listings)
	return &SearchResult{
		SessionID:        session.ID,
		CategoryID:       session.CategoryID,
		Listings:         view.Visible,
		TotalCount:       view.TotalCount,
		TotalPages:       view.TotalPages,
		Page:             view.Page,
		PageSize:         view.PageSize,
		Facets:           session.FacetCounts(listings),
		Chips:            session.ActiveFilterChips(),
		HasActiveFilters: session.HasActiveFilters(),
		CanonicalQuery:   session.CanonicalQuery(extra),
	}
}

// clampToView forces a URL-supplied page into the range the listing set
// actually has. Out-of-range pages come from stale links and are silently
// corrected, never rejected.
func clampToView(session *discovery.Session, listings []*entity.Listing) {
	matched := session.Filters.Apply(listings)
	total := discovery.TotalPages(len(matched), session.PageSize)
	session.Page = discovery.ClampPage(session.Page, total)
}

func (s *discoveryService) Search(ctx context.Context, categoryID string, rawQuery url.Values) (*SearchResult, error) {
	s.log.Infof("Search: category=%s query=%q", categoryID, rawQuery.Encode())

	listings, err := s.loadCatalog(ctx, categoryID)
	if err != nil {
		s.log.Errorf("Search: failed to load catalog for category %s: %v", categoryID, err)
		return nil, err
	}

	session := discovery.NewSession("", categoryID, s.pageSize)
	session.LoadQuery(rawQuery)
	clampToView(session, listings)

	result := s.render(session, listings, discovery.StripManagedKeys(rawQuery))

	if s.metrics != nil {
		s.metrics.SearchesTotal.Inc()
	}
	s.publishEvent(ctx, natsadapter.SubjectSearchPerformed, map[string]interface{}{
		"category_id":    categoryID,
		"total_count":    result.TotalCount,
		"page":           result.Page,
		"active_filters": result.HasActiveFilters,
	})
	return result, nil
}

func (s *discoveryService) StartSession(ctx context.Context, categoryID string, rawQuery url.Values) (*SearchResult, error) {
	sessionID := uuid.NewString()
	s.log.Infof("StartSession: id=%s category=%s", sessionID, categoryID)

	listings, err := s.loadCatalog(ctx, categoryID)
	if err != nil {
		s.log.Errorf("StartSession: failed to load catalog for category %s: %v", categoryID, err)
		return nil, err
	}

	session := discovery.NewSession(sessionID, categoryID, s.pageSize)
	if rawQuery != nil {
		session.LoadQuery(rawQuery)
		clampToView(session, listings)
	}

	if err := s.sessionRepo.Save(ctx, session, s.sessionTTL); err != nil {
		s.log.Errorf("StartSession: failed to save session %s: %v", sessionID, err)
		return nil, fmt.Errorf("could not save session: %w", err)
	}

	if s.metrics != nil {
		s.metrics.SessionsStarted.Inc()
	}
	s.publishEvent(ctx, natsadapter.SubjectSessionStarted, map[string]interface{}{
		"session_id":  sessionID,
		"category_id": categoryID,
	})
	return s.render(session, listings, nil), nil
}

func (s *discoveryService) GetSession(ctx context.Context, sessionID string) (*SearchResult, error) {
	session, listings, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.render(session, listings, nil), nil
}

func (s *discoveryService) ToggleFilter(ctx context.Context, sessionID string, dim discovery.Dimension, value string) (*SearchResult, error) {
	return s.mutate(ctx, sessionID, "toggle_filter", func(session *discovery.Session) {
		session.ToggleFilterValue(dim, value)
	})
}

func (s *discoveryService) SetPriceRange(ctx context.Context, sessionID string, min, max float64) (*SearchResult, error) {
	return s.mutate(ctx, sessionID, "set_price_range", func(session *discovery.Session) {
		session.SetPriceRange(min, max)
	})
}

func (s *discoveryService) SetSort(ctx context.Context, sessionID, sortValue string) (*SearchResult, error) {
	return s.mutate(ctx, sessionID, "set_sort", func(session *discovery.Session) {
		parsed := discovery.ParseSort(sortValue)
		session.SetSort(parsed.Key, parsed.Direction)
	})
}

func (s *discoveryService) SetPage(ctx context.Context, sessionID string, page int) (*SearchResult, error) {
	return s.mutate(ctx, sessionID, "set_page", func(session *discovery.Session) {
		session.SetPage(page)
	})
}

func (s *discoveryService) ClearFilters(ctx context.Context, sessionID string) (*SearchResult, error) {
	return s.mutate(ctx, sessionID, "clear_filters", func(session *discovery.Session) {
		session.ClearAllFilters()
	})
}

func (s *discoveryService) EndSession(ctx context.Context, sessionID string) error {
	s.log.Infof("EndSession: id=%s", sessionID)
	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("could not delete session: %w", err)
	}
	return nil
}

func (s *discoveryService) GetListing(ctx context.Context, id string) (*entity.Listing, error) {
	listing, err := s.listingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrListingNotFound
		}
		s.log.Errorf("GetListing: failed to find listing %s: %v", id, err)
		return nil, fmt.Errorf("could not load listing: %w", err)
	}

	// View counting is best effort; a failed increment never blocks the view.
	if err := s.listingRepo.IncrementViews(ctx, id); err != nil {
		s.log.Warnf("GetListing: failed to increment views for %s: %v", id, err)
	}
	s.publishEvent(ctx, natsadapter.SubjectListingViewed, map[string]interface{}{
		"listing_id":  id,
		"category_id": listing.CategoryID,
	})
	return listing, nil
}

func (s *discoveryService) loadSession(ctx context.Context, sessionID string) (*discovery.Session, []*entity.Listing, error) {
	session, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrSessionNotFound
		}
		s.log.Errorf("Failed to load session %s: %v", sessionID, err)
		return nil, nil, fmt.Errorf("could not load session: %w", err)
	}

	listings, err := s.loadCatalog(ctx, session.CategoryID)
	if err != nil {
		s.log.Errorf("Failed to load catalog for session %s: %v", sessionID, err)
		return nil, nil, err
	}
	return session, listings, nil
}

func (s *discoveryService) mutate(ctx context.Context, sessionID, operation string, apply func(*discovery.Session)) (*SearchResult, error) {
	session, listings, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	apply(session)

	if err := s.sessionRepo.Save(ctx, session, s.sessionTTL); err != nil {
		s.log.Errorf("Failed to save session %s after %s: %v", sessionID, operation, err)
		return nil, fmt.Errorf("could not save session: %w", err)
	}
	if s.metrics != nil {
		s.metrics.SessionMutations.WithLabelValues(operation).Inc()
	}
	return s.render(session, listings, nil), nil
}

func (s *discoveryService) publishEvent(ctx context.Context, subject string, payload interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, subject, payload); err != nil {
		s.log.Warnf("Failed to publish %s event: %v", subject, err)
	}
}
