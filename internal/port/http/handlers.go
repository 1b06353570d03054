package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/awaishyderbrohi/rentify-discovery/internal/discovery"
	"github.com/awaishyderbrohi/rentify-discovery/internal/platform/logger"
	"github.com/awaishyderbrohi/rentify-discovery/internal/service"
)

// DiscoveryHandler exposes the listing discovery pipeline over HTTP. The
// stateless search endpoint reads filter state straight from the query
// string; the session endpoints mutate a persisted session and return the
// recomputed view.
type DiscoveryHandler struct {
	discovery service.DiscoveryService
	log       logger.Logger
}

func NewDiscoveryHandler(svc service.DiscoveryService, log logger.Logger) *DiscoveryHandler {
	return &DiscoveryHandler{discovery: svc, log: log}
}

func respondJSON(w http.ResponseWriter, log logger.Logger, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

func (h *DiscoveryHandler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrListingNotFound),
		errors.Is(err, service.ErrFavoriteNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrAlreadyFavorite):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// HandleSearch serves GET /api/categories/{categoryID}/listings. The whole
// filter, sort and page state lives in the query string, so a shared URL
// reproduces the exact result page.
func (h *DiscoveryHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "categoryID")

	result, err := h.discovery.Search(r.Context(), categoryID, r.URL.Query())
	if err != nil {
		h.log.Errorf("HandleSearch: search failed for category %s: %v", categoryID, err)
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, h.log, http.StatusOK, result)
}

// HandleGetListing serves GET /api/listings/{id}.
func (h *DiscoveryHandler) HandleGetListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "missing id parameter", http.StatusBadRequest)
		return
	}

	listing, err := h.discovery.GetListing(r.Context(), id)
	if err != nil {
		if !errors.Is(err, service.ErrListingNotFound) {
			h.log.Errorf("HandleGetListing: failed for %s: %v", id, err)
		}
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, h.log, http.StatusOK, listing)
}

func parseOptionalQuery(raw string) (url.Values, error) {
	if raw == "" {
		return nil, nil
	}
	return url.ParseQuery(raw)
}

type startSessionRequest struct {
	CategoryID string `json:"categoryId"`
	Query      string `json:"query,omitempty"`
}

// HandleStartSession serves POST /api/discovery/sessions. An optional query
// string seeds the session, so a visitor landing on a shared URL starts
// from the state that URL encodes.
func (h *DiscoveryHandler) HandleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warnf("HandleStartSession: invalid request body: %v", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	rawQuery, err := parseOptionalQuery(req.Query)
	if err != nil {
		http.Error(w, "invalid query string", http.StatusBadRequest)
		return
	}

	result, err := h.discovery.StartSession(r.Context(), req.CategoryID, rawQuery)
	if err != nil {
		h.log.Errorf("HandleStartSession: failed for category %s: %v", req.CategoryID, err)
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, h.log, http.StatusCreated, result)
}

// HandleGetSession serves GET /api/discovery/sessions/{sessionID}.
func (h *DiscoveryHandler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	result, err := h.discovery.GetSession(r.Context(), sessionID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, h.log, http.StatusOK, result)
}

type toggleFilterRequest struct {
	Dimension string `json:"dimension"`
	Value     string `json:"value"`
}

// HandleToggleFilter serves POST /api/discovery/sessions/{sessionID}/filters.
func (h *DiscoveryHandler) HandleToggleFilter(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req toggleFilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Dimension == "" || req.Value == "" {
		http.Error(w, "dimension and value are required", http.StatusBadRequest)
		return
	}

	result, err := h.discovery.ToggleFilter(r.Context(), sessionID, discovery.Dimension(req.Dimension), req.Value)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, h.log, http.StatusOK, result)
}

type priceRangeRequest struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// HandleSetPriceRange serves PUT /api/discovery/sessions/{sessionID}/price.
func (h *DiscoveryHandler) HandleSetPriceRange(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req priceRangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.discovery.SetPriceRange(r.Context(), sessionID, req.Min, req.Max)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, h.log, http.StatusOK, result)
}

type setSortRequest struct {
	Sort string `json:"sort"`
}

// HandleSetSort serves PUT /api/discovery/sessions/{sessionID}/sort.
// Unrecognized sort values fall back to the default ordering rather than
// erroring, matching the URL decoder's behavior.
func (h *DiscoveryHandler) HandleSetSort(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req setSortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.discovery.SetSort(r.Context(), sessionID, req.Sort)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, h.log, http.StatusOK, result)
}

type setPageRequest struct {
	Page int `json:"page"`
}

// HandleSetPage serves PUT /api/discovery/sessions/{sessionID}/page.
func (h *DiscoveryHandler) HandleSetPage(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req setPageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.discovery.SetPage(r.Context(), sessionID, req.Page)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, h.log, http.StatusOK, result)
}

// HandleClearFilters serves DELETE /api/discovery/sessions/{sessionID}/filters.
func (h *DiscoveryHandler) HandleClearFilters(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	result, err := h.discovery.ClearFilters(r.Context(), sessionID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, h.log, http.StatusOK, result)
}

// HandleEndSession serves DELETE /api/discovery/sessions/{sessionID}.
func (h *DiscoveryHandler) HandleEndSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := h.discovery.EndSession(r.Context(), sessionID); err != nil {
		h.respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// FavoriteHandler exposes the authenticated favorites endpoints.
type FavoriteHandler struct {
	favorites service.FavoriteService
	log       logger.Logger
}

func NewFavoriteHandler(svc service.FavoriteService, log logger.Logger) *FavoriteHandler {
	return &FavoriteHandler{favorites: svc, log: log}
}

func (h *FavoriteHandler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrListingNotFound), errors.Is(err, service.ErrFavoriteNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrAlreadyFavorite):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

type addFavoriteRequest struct {
	ListingID string `json:"listingId"`
}

// HandleAddFavorite serves POST /api/favorites.
func (h *FavoriteHandler) HandleAddFavorite(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	if userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req addFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ListingID == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.favorites.AddFavorite(r.Context(), userID, req.ListingID); err != nil {
		if !errors.Is(err, service.ErrAlreadyFavorite) && !errors.Is(err, service.ErrListingNotFound) {
			h.log.Errorf("HandleAddFavorite: failed for user %s: %v", userID, err)
		}
		h.respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRemoveFavorite serves DELETE /api/favorites/{listingID}.
func (h *FavoriteHandler) HandleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	if userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	listingID := chi.URLParam(r, "listingID")
	if listingID == "" {
		http.Error(w, "missing listingID parameter", http.StatusBadRequest)
		return
	}

	if err := h.favorites.RemoveFavorite(r.Context(), userID, listingID); err != nil {
		h.respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListFavorites serves GET /api/favorites.
func (h *FavoriteHandler) HandleListFavorites(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	if userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	listings, err := h.favorites.ListFavorites(r.Context(), userID)
	if err != nil {
		h.log.Errorf("HandleListFavorites: failed for user %s: %v", userID, err)
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, h.log, http.StatusOK, listings)
}
