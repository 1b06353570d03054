package discovery

import "github.com/awaishyderbrohi/rentify-discovery/internal/domain/entity"

// DefaultPageSize matches the listing grids of the category and search views.
const DefaultPageSize = 12

// TotalPages is ceil(count / pageSize). An empty result set has zero pages;
// callers rendering pagination controls treat 0 as "nothing to page through".
func TotalPages(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// Paginate returns the half-open slice [(page-1)*size, page*size) of ordered,
// clamped to the available range, plus the total page count. A page past the
// end yields an empty slice; keeping page in range is the caller's job (the
// session resets it on every filter change, and URL-supplied pages go through
// ClampPage).
func Paginate(ordered []*entity.Listing, page, pageSize int) ([]*entity.Listing, int) {
	total := TotalPages(len(ordered), pageSize)
	if page < 1 || pageSize < 1 {
		return []*entity.Listing{}, total
	}
	start := (page - 1) * pageSize
	if start >= len(ordered) {
		return []*entity.Listing{}, total
	}
	end := start + pageSize
	if end > len(ordered) {
		end = len(ordered)
	}
	return ordered[start:end], total
}

// ClampPage silently forces a page number into [1, max(totalPages, 1)].
// Out-of-range pages come from tampered URLs and stale links; they are a
// presentation concern, never an error.
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if totalPages >= 1 && page > totalPages {
		return totalPages
	}
	if totalPages < 1 {
		return 1
	}
	return page
}
