package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/awaishyderbrohi/rentify-discovery/internal/platform/logger"
	"github.com/awaishyderbrohi/rentify-discovery/internal/platform/metrics"
)

// NewRouter assembles the service's HTTP surface. Search and session
// endpoints are public; favorites require a valid JWT.
func NewRouter(
	discoveryHandler *DiscoveryHandler,
	favoriteHandler *FavoriteHandler,
	jwtSecret string,
	mm *metrics.Manager,
	log logger.Logger,
) *chi.Mux {
	mux := chi.NewRouter()

	mux.Use(chimiddleware.RequestID)
	mux.Use(chimiddleware.Recoverer)
	mux.Use(RequestLogger(log))
	mux.Use(Metrics(mm))

	mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.Get("/api/categories/{categoryID}/listings", discoveryHandler.HandleSearch)
	mux.Get("/api/listings/{id}", discoveryHandler.HandleGetListing)

	mux.Route("/api/discovery/sessions", func(r chi.Router) {
		r.Post("/", discoveryHandler.HandleStartSession)
		r.Get("/{sessionID}", discoveryHandler.HandleGetSession)
		r.Delete("/{sessionID}", discoveryHandler.HandleEndSession)
		r.Post("/{sessionID}/filters", discoveryHandler.HandleToggleFilter)
		r.Delete("/{sessionID}/filters", discoveryHandler.HandleClearFilters)
		r.Put("/{sessionID}/price", discoveryHandler.HandleSetPriceRange)
		r.Put("/{sessionID}/sort", discoveryHandler.HandleSetSort)
		r.Put("/{sessionID}/page", discoveryHandler.HandleSetPage)
	})

	mux.Group(func(r chi.Router) {
		r.Use(JWTAuth(jwtSecret, log))

		r.Post("/api/favorites", favoriteHandler.HandleAddFavorite)
		r.Delete("/api/favorites/{listingID}", favoriteHandler.HandleRemoveFavorite)
		r.Get("/api/favorites", favoriteHandler.HandleListFavorites)
	})

	return mux
}
