package discovery

import (
	"github.com/awaishyderbrohi/rentify-discovery/internal/domain/entity"
)

// Filter dimensions, as they appear in query strings and filter chips.
type Dimension string

const (
	DimCondition Dimension = "condition"
	DimBrand     Dimension = "brand"
	DimPriceType Dimension = "priceType"
	DimDelivery  Dimension = "delivery"
	DimTags      Dimension = "tags"
)

// Delivery option values accepted by the delivery dimension.
const (
	DeliveryPickup   = "pickup"
	DeliveryShipping = "delivery"
)

const (
	// DefaultMinPrice and DefaultMaxPrice form the unrestricted price range.
	// The ceiling is a UI default, not a domain limit.
	DefaultMinPrice = 0
	DefaultMaxPrice = 50000
)

// PriceRange is an inclusive [Min, Max] bound. The zero-value range is not
// valid; use DefaultPriceRange.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func DefaultPriceRange() PriceRange {
	return PriceRange{Min: DefaultMinPrice, Max: DefaultMaxPrice}
}

func (p PriceRange) IsDefault() bool {
	return p == DefaultPriceRange()
}

func (p PriceRange) Contains(price float64) bool {
	return price >= p.Min && price <= p.Max
}

// Filters is the user's current inclusion criteria. An empty set for a
// dimension means the dimension is not applied, not "matches nothing".
type Filters struct {
	Condition  map[string]bool `json:"condition,omitempty"`
	Brand      map[string]bool `json:"brand,omitempty"`
	PriceType  map[string]bool `json:"priceType,omitempty"`
	Delivery   map[string]bool `json:"delivery,omitempty"`
	Tags       map[string]bool `json:"tags,omitempty"`
	PriceRange PriceRange      `json:"priceRange"`
}

func DefaultFilters() Filters {
	return Filters{PriceRange: DefaultPriceRange()}
}

// set returns the value set backing the given dimension, allocating it on
// first use so toggles on a zero-value Filters work.
func (f *Filters) set(dim Dimension) map[string]bool {
	var target *map[string]bool
	switch dim {
	case DimCondition:
		target = &f.Condition
	case DimBrand:
		target = &f.Brand
	case DimPriceType:
		target = &f.PriceType
	case DimDelivery:
		target = &f.Delivery
	case DimTags:
		target = &f.Tags
	default:
		return nil
	}
	if *target == nil {
		*target = make(map[string]bool)
	}
	return *target
}

// values reads a dimension's set without allocating.
func (f *Filters) values(dim Dimension) map[string]bool {
	switch dim {
	case DimCondition:
		return f.Condition
	case DimBrand:
		return f.Brand
	case DimPriceType:
		return f.PriceType
	case DimDelivery:
		return f.Delivery
	case DimTags:
		return f.Tags
	}
	return nil
}

// Toggle adds value to the dimension's set if absent, removes it if present.
// Unknown dimensions are ignored.
func (f *Filters) Toggle(dim Dimension, value string) {
	s := f.set(dim)
	if s == nil || value == "" {
		return
	}
	if s[value] {
		delete(s, value)
	} else {
		s[value] = true
	}
}

// Active reports whether any dimension restricts the result set. The price
// range counts only when it differs from the default.
func (f *Filters) Active() bool {
	if len(f.Condition) > 0 || len(f.Brand) > 0 || len(f.PriceType) > 0 ||
		len(f.Delivery) > 0 || len(f.Tags) > 0 {
		return true
	}
	return !f.PriceRange.IsDefault()
}

// Matches decides inclusion of a single listing. Dimensions combine with AND;
// values within a dimension combine with OR. A listing with a missing field
// fails any active filter on that field. The price range is always applied.
func (f *Filters) Matches(l *entity.Listing) bool {
	if !f.PriceRange.Contains(l.Price) {
		return false
	}
	if len(f.Condition) > 0 && !f.Condition[l.Condition] {
		return false
	}
	if len(f.Brand) > 0 && !f.Brand[l.Brand] {
		return false
	}
	if len(f.PriceType) > 0 && !f.PriceType[string(l.PriceType)] {
		return false
	}
	if len(f.Delivery) > 0 && !matchesDelivery(f.Delivery, l) {
		return false
	}
	if len(f.Tags) > 0 && !matchesAnyTag(f.Tags, l) {
		return false
	}
	return true
}

// matchesDelivery is OR across the requested options: asking for both pickup
// and delivery includes a listing offering either.
func matchesDelivery(wanted map[string]bool, l *entity.Listing) bool {
	if wanted[DeliveryPickup] && l.Delivery.PickupAvailable {
		return true
	}
	if wanted[DeliveryShipping] && l.Delivery.DeliveryAvailable {
		return true
	}
	return false
}

// matchesAnyTag is ANY-match: one shared tag is enough.
func matchesAnyTag(wanted map[string]bool, l *entity.Listing) bool {
	for _, t := range l.Tags {
		if wanted[t] {
			return true
		}
	}
	return false
}

// Apply returns the listings accepted by the filter set, preserving input
// order.
func (f *Filters) Apply(listings []*entity.Listing) []*entity.Listing {
	out := make([]*entity.Listing, 0, len(listings))
	for _, l := range listings {
		if f.Matches(l) {
			out = append(out, l)
		}
	}
	return out
}
