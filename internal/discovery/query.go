package discovery

import (
	"net/url"
	"strconv"
	"strings"
)

// Query-string keys managed by the discovery pipeline. The query string is a
// serialization contract: these keys round-trip through EncodeQuery and
// LoadQuery, everything else in a URL is left alone.
const (
	queryKeyPage      = "page"
	queryKeyCondition = "condition"
	queryKeyBrand     = "brand"
	queryKeyTags      = "tags"
	queryKeyPriceType = "priceType"
	queryKeyDelivery  = "delivery"
	queryKeyMinPrice  = "minPrice"
	queryKeyMaxPrice  = "maxPrice"
	queryKeySort      = "sort"
)

var managedQueryKeys = []string{
	queryKeyPage, queryKeyCondition, queryKeyBrand, queryKeyTags,
	queryKeyPriceType, queryKeyDelivery, queryKeyMinPrice, queryKeyMaxPrice,
	queryKeySort,
}

// LoadQuery parses recognized query parameters into the session's selections.
// Malformed values fall back to their defaults and unrecognized parameters
// are ignored; a tampered URL must never break the view. The page is left
// unclamped on the upper side here since the listing set is not known yet;
// services clamp it against the computed page count.
func (s *Session) LoadQuery(q url.Values) {
	s.Filters = DefaultFilters()
	s.Sort = DefaultSort()
	s.Page = 1

	if v := q.Get(queryKeyPage); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			s.Page = n
		}
	}
	if v := q.Get(queryKeySort); v != "" {
		s.Sort = ParseSort(v)
	}

	loadSet(&s.Filters, DimCondition, q.Get(queryKeyCondition))
	loadSet(&s.Filters, DimBrand, q.Get(queryKeyBrand))
	loadSet(&s.Filters, DimTags, q.Get(queryKeyTags))
	loadSet(&s.Filters, DimPriceType, q.Get(queryKeyPriceType))
	loadSet(&s.Filters, DimDelivery, q.Get(queryKeyDelivery))

	min, max := float64(DefaultMinPrice), float64(DefaultMaxPrice)
	if v := q.Get(queryKeyMinPrice); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			min = float64(n)
		}
	}
	if v := q.Get(queryKeyMaxPrice); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			max = float64(n)
		}
	}
	if min > max {
		min, max = max, min
	}
	s.Filters.PriceRange = PriceRange{Min: min, Max: max}
	s.touch()
}

func loadSet(f *Filters, dim Dimension, raw string) {
	if raw == "" {
		return
	}
	for _, v := range strings.Split(raw, ",") {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		f.set(dim)[v] = true
	}
}

// EncodeQuery serializes the current selection, omitting parameters that
// equal their defaults so shared URLs stay minimal. List values are sorted,
// making the encoding canonical.
func (s *Session) EncodeQuery() url.Values {
	q := url.Values{}
	if s.Page > 1 {
		q.Set(queryKeyPage, strconv.Itoa(s.Page))
	}
	if s.Sort != DefaultSort() {
		q.Set(queryKeySort, s.Sort.String())
	}
	encodeSet(q, queryKeyCondition, s.Filters.Condition)
	encodeSet(q, queryKeyBrand, s.Filters.Brand)
	encodeSet(q, queryKeyTags, s.Filters.Tags)
	encodeSet(q, queryKeyPriceType, s.Filters.PriceType)
	encodeSet(q, queryKeyDelivery, s.Filters.Delivery)
	pr := s.Filters.PriceRange
	if pr.Min != DefaultMinPrice {
		q.Set(queryKeyMinPrice, strconv.Itoa(int(pr.Min)))
	}
	if pr.Max != DefaultMaxPrice {
		q.Set(queryKeyMaxPrice, strconv.Itoa(int(pr.Max)))
	}
	return q
}

func encodeSet(q url.Values, key string, set map[string]bool) {
	values := setValues(set)
	if len(values) == 0 {
		return
	}
	q.Set(key, strings.Join(values, ","))
}

// MergeQuery rewrites only the managed keys inside an existing query,
// preserving unrelated parameters such as UTM tags or a search term.
func (s *Session) MergeQuery(existing url.Values) url.Values {
	merged := url.Values{}
	for k, vs := range existing {
		merged[k] = append([]string(nil), vs...)
	}
	for _, k := range managedQueryKeys {
		merged.Del(k)
	}
	for k, vs := range s.EncodeQuery() {
		merged[k] = vs
	}
	return merged
}

// StripManagedKeys returns a copy of q holding only parameters the pipeline
// does not own: search terms, tracking tags and whatever else rode along.
func StripManagedKeys(q url.Values) url.Values {
	out := url.Values{}
	for k, vs := range q {
		out[k] = append([]string(nil), vs...)
	}
	for _, k := range managedQueryKeys {
		out.Del(k)
	}
	return out
}

// CanonicalQuery is the encoded form of MergeQuery, ready for the address
// bar.
func (s *Session) CanonicalQuery(existing url.Values) string {
	return s.MergeQuery(existing).Encode()
}
