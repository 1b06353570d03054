package discovery

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/awaishyderbrohi/rentify-discovery/internal/domain/entity"
)

type SortKey string

const (
	SortByPrice     SortKey = "price"
	SortByCreated   SortKey = "created"
	SortByViews     SortKey = "views"
	SortByRating    SortKey = "rating"
	SortByTitle     SortKey = "title"
	SortByRelevance SortKey = "relevance"
	SortByDistance  SortKey = "distance"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Sort is the single active (key, direction) pair. There is no secondary
// key; ties keep input order because sorting is stable.
type Sort struct {
	Key       SortKey       `json:"key"`
	Direction SortDirection `json:"direction"`
}

func DefaultSort() Sort {
	return Sort{Key: SortByCreated, Direction: SortDesc}
}

// String renders the compound wire form, e.g. "price_asc".
func (s Sort) String() string {
	return string(s.Key) + "_" + string(s.Direction)
}

// ParseSort parses the compound wire form. Unknown input falls back to the
// default sort; filter state drives rendering and must never error out.
func ParseSort(v string) Sort {
	idx := strings.LastIndex(v, "_")
	if idx <= 0 || idx == len(v)-1 {
		return DefaultSort()
	}
	key, dir := SortKey(v[:idx]), SortDirection(v[idx+1:])
	switch key {
	case SortByPrice, SortByCreated, SortByViews, SortByRating,
		SortByTitle, SortByRelevance, SortByDistance:
	default:
		return DefaultSort()
	}
	if dir != SortAsc && dir != SortDesc {
		return DefaultSort()
	}
	return Sort{Key: key, Direction: dir}
}

// collate.Collator is not safe for concurrent use, so each sort pass gets
// its own collator.
func newTitleCollator() *collate.Collator {
	return collate.New(language.Und)
}

// Compare is a three-way comparator over the active key; descending flips the
// sign. Missing created timestamps sort as epoch zero, missing numeric fields
// as zero.
func (s Sort) Compare(a, b *entity.Listing) int {
	c := s.compareAsc(a, b, newTitleCollator())
	if s.Direction == SortDesc {
		return -c
	}
	return c
}

func (s Sort) compareAsc(a, b *entity.Listing, col *collate.Collator) int {
	switch s.Key {
	case SortByPrice:
		return compareFloat(a.Price, b.Price)
	case SortByCreated:
		if a.CreatedAt.Equal(b.CreatedAt) {
			return 0
		}
		if a.CreatedAt.Before(b.CreatedAt) {
			return -1
		}
		return 1
	case SortByViews:
		return compareFloat(float64(a.Views), float64(b.Views))
	case SortByRating:
		return compareFloat(floatOrZero(a.Rating), floatOrZero(b.Rating))
	case SortByTitle:
		return col.CompareString(a.Title, b.Title)
	case SortByRelevance:
		return compareFloat(floatOrZero(a.Relevance), floatOrZero(b.Relevance))
	case SortByDistance:
		return compareFloat(floatOrZero(a.Distance), floatOrZero(b.Distance))
	}
	return 0
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Apply sorts a copy of the listings. The input slice is left untouched and
// the sort is stable, so listings tied on the active key keep their incoming
// order.
func (s Sort) Apply(listings []*entity.Listing) []*entity.Listing {
	out := make([]*entity.Listing, len(listings))
	copy(out, listings)
	col := newTitleCollator()
	asc := s.Direction != SortDesc
	sort.SliceStable(out, func(i, j int) bool {
		c := s.compareAsc(out[i], out[j], col)
		if asc {
			return c < 0
		}
		return c > 0
	})
	return out
}
