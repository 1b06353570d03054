package discovery

import (
	"fmt"
	"sort"
	"time"

	"github.com/awaishyderbrohi/rentify-discovery/internal/domain/entity"
)

// Session is the filter-state store for one browsing session. It holds only
// the user's selections; the derived view is computed on read (View), never
// cached, so there is no hidden reactive state to keep consistent.
type Session struct {
	ID         string    `json:"id"`
	CategoryID string    `json:"categoryId,omitempty"`
	Query      string    `json:"query,omitempty"`
	Filters    Filters   `json:"filters"`
	Sort       Sort      `json:"sort"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func NewSession(id, categoryID string, pageSize int) *Session {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	now := time.Now().UTC()
	return &Session{
		ID:         id,
		CategoryID: categoryID,
		Filters:    DefaultFilters(),
		Sort:       DefaultSort(),
		Page:       1,
		PageSize:   pageSize,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now().UTC()
}

// ToggleFilterValue flips membership of value in the dimension's set and
// resets the page to 1.
func (s *Session) ToggleFilterValue(dim Dimension, value string) {
	s.Filters.Toggle(dim, value)
	s.Page = 1
	s.touch()
}

// SetPriceRange replaces the price range and resets the page to 1. Reversed
// bounds are normalized rather than rejected; filter state must stay valid.
func (s *Session) SetPriceRange(min, max float64) {
	if min > max {
		min, max = max, min
	}
	if min < 0 {
		min = 0
	}
	s.Filters.PriceRange = PriceRange{Min: min, Max: max}
	s.Page = 1
	s.touch()
}

// SetSort replaces the sort selection and resets the page to 1.
func (s *Session) SetSort(key SortKey, dir SortDirection) {
	s.Sort = ParseSort(string(key) + "_" + string(dir))
	s.Page = 1
	s.touch()
}

// SetPage replaces only the page number, clamped to >= 1. Filters and sort
// are untouched. No upper clamp here: the upper bound depends on the listing
// set, which the session does not hold.
func (s *Session) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	s.Page = n
	s.touch()
}

// ClearAllFilters resets the filter selection to defaults and the page to 1,
// preserving the sort.
func (s *Session) ClearAllFilters() {
	s.Filters = DefaultFilters()
	s.Page = 1
	s.touch()
}

func (s *Session) HasActiveFilters() bool {
	return s.Filters.Active()
}

// Result is the derived view: the exact slice to render plus the metadata for
// pagination controls.
type Result struct {
	Visible    []*entity.Listing `json:"visible"`
	TotalCount int               `json:"totalCount"`
	TotalPages int               `json:"totalPages"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
}

// View recomputes filtered -> sorted -> paginated from the raw listing set.
// Pure with respect to the session; call it after any selection change.
func (s *Session) View(listings []*entity.Listing) Result {
	matched := s.Filters.Apply(listings)
	ordered := s.Sort.Apply(matched)
	visible, totalPages := Paginate(ordered, s.Page, s.PageSize)
	return Result{
		Visible:    visible,
		TotalCount: len(matched),
		TotalPages: totalPages,
		Page:       s.Page,
		PageSize:   s.PageSize,
	}
}

// Chip is one removable active-filter token.
type Chip struct {
	Dimension string `json:"dimension"`
	Value     string `json:"value"`
	Label     string `json:"label"`
}

var chipDimensions = []struct {
	dim   Dimension
	label string
}{
	{DimCondition, "Condition"},
	{DimBrand, "Brand"},
	{DimPriceType, "Price type"},
	{DimDelivery, "Delivery"},
	{DimTags, "Tag"},
}

// ActiveFilterChips flattens the selection into chips, dimension by dimension
// with values in lexical order so rendering is deterministic. A non-default
// price range contributes a single "price" chip.
func (s *Session) ActiveFilterChips() []Chip {
	var chips []Chip
	for _, d := range chipDimensions {
		values := setValues(s.Filters.values(d.dim))
		for _, v := range values {
			chips = append(chips, Chip{
				Dimension: string(d.dim),
				Value:     v,
				Label:     d.label + ": " + v,
			})
		}
	}
	if !s.Filters.PriceRange.IsDefault() {
		pr := s.Filters.PriceRange
		chips = append(chips, Chip{
			Dimension: "price",
			Value:     fmt.Sprintf("%g-%g", pr.Min, pr.Max),
			Label:     fmt.Sprintf("Price: %g – %g", pr.Min, pr.Max),
		})
	}
	return chips
}

func setValues(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// Facets maps each dimension to its candidate values and their counts.
type Facets map[Dimension]map[string]int

// FacetCounts counts, per candidate filter value, the listings that would
// match it. Counts are computed over the full pre-filter base set, not the
// currently filtered subset, so they do not collapse to zero as the user
// narrows the selection.
func (s *Session) FacetCounts(listings []*entity.Listing) Facets {
	facets := Facets{
		DimCondition: {},
		DimBrand:     {},
		DimPriceType: {},
		DimDelivery:  {},
		DimTags:      {},
	}
	for _, l := range listings {
		if l.Condition != "" {
			facets[DimCondition][l.Condition]++
		}
		if l.Brand != "" {
			facets[DimBrand][l.Brand]++
		}
		if l.PriceType != "" {
			facets[DimPriceType][string(l.PriceType)]++
		}
		if l.Delivery.PickupAvailable {
			facets[DimDelivery][DeliveryPickup]++
		}
		if l.Delivery.DeliveryAvailable {
			facets[DimDelivery][DeliveryShipping]++
		}
		for _, t := range l.Tags {
			facets[DimTags][t]++
		}
	}
	return facets
}
