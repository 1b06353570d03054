package discovery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/awaishyderbrohi/rentify-discovery/internal/domain/entity"
)

func TestSort_PriceThreeWay(t *testing.T) {
	a := newTestListing("a", 50, "")
	b := newTestListing("b", 100, "")

	asc := Sort{Key: SortByPrice, Direction: SortAsc}
	assert.Negative(t, asc.Compare(a, b))
	assert.Positive(t, asc.Compare(b, a))
	assert.Zero(t, asc.Compare(a, a))

	desc := Sort{Key: SortByPrice, Direction: SortDesc}
	assert.Equal(t, -asc.Compare(a, b), desc.Compare(a, b), "descending negates the sign")
}

func TestSort_CreatedMissingTimestampSortsOldest(t *testing.T) {
	recent := newTestListing("a", 10, "")
	recent.CreatedAt = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	missing := newTestListing("b", 10, "")

	s := Sort{Key: SortByCreated, Direction: SortAsc}
	got := s.Apply([]*entity.Listing{recent, missing})
	assert.Equal(t, "b", got[0].ID, "zero timestamp sorts as oldest")
	assert.Equal(t, "a", got[1].ID)
}

func TestSort_RatingMissingTreatedAsZero(t *testing.T) {
	rated := newTestListing("a", 10, "")
	rating := 4.5
	rated.Rating = &rating
	unrated := newTestListing("b", 10, "")

	s := Sort{Key: SortByRating, Direction: SortDesc}
	got := s.Apply([]*entity.Listing{unrated, rated})
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
}

func TestSort_TitleLocaleAware(t *testing.T) {
	a := newTestListing("a", 10, "")
	a.Title = "angle grinder"
	b := newTestListing("b", 10, "")
	b.Title = "Belt sander"

	s := Sort{Key: SortByTitle, Direction: SortAsc}
	got := s.Apply([]*entity.Listing{b, a})
	// Collation is case-insensitive at the primary level, unlike a byte
	// compare which would put "Belt sander" first.
	assert.Equal(t, "angle grinder", got[0].Title)
}

func TestSort_RelevanceUsesSuppliedScores(t *testing.T) {
	hi, lo := 0.9, 0.2
	a := newTestListing("a", 10, "")
	a.Relevance = &hi
	b := newTestListing("b", 10, "")
	b.Relevance = &lo
	c := newTestListing("c", 10, "") // no score, treated as zero

	s := Sort{Key: SortByRelevance, Direction: SortDesc}
	got := s.Apply([]*entity.Listing{c, b, a})
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestSort_StableTiesKeepInputOrder(t *testing.T) {
	a := newTestListing("a", 75, "")
	b := newTestListing("b", 75, "")
	c := newTestListing("c", 75, "")

	s := Sort{Key: SortByPrice, Direction: SortAsc}
	got := s.Apply([]*entity.Listing{a, b, c})
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].ID, got[1].ID, got[2].ID})

	got = s.Apply([]*entity.Listing{c, a, b})
	assert.Equal(t, []string{"c", "a", "b"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestSort_ApplyDoesNotMutateInput(t *testing.T) {
	a := newTestListing("a", 100, "")
	b := newTestListing("b", 50, "")
	in := []*entity.Listing{a, b}

	Sort{Key: SortByPrice, Direction: SortAsc}.Apply(in)
	assert.Equal(t, "a", in[0].ID)
	assert.Equal(t, "b", in[1].ID)
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, Sort{Key: SortByPrice, Direction: SortAsc}, ParseSort("price_asc"))
	assert.Equal(t, Sort{Key: SortByTitle, Direction: SortDesc}, ParseSort("title_desc"))

	// Anything unparseable falls back to the default.
	assert.Equal(t, DefaultSort(), ParseSort(""))
	assert.Equal(t, DefaultSort(), ParseSort("price"))
	assert.Equal(t, DefaultSort(), ParseSort("price_sideways"))
	assert.Equal(t, DefaultSort(), ParseSort("ransom_asc"))
}

func TestSort_StringRoundTrip(t *testing.T) {
	s := Sort{Key: SortByViews, Direction: SortDesc}
	assert.Equal(t, s, ParseSort(s.String()))
}
