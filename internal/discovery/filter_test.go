package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/awaishyderbrohi/rentify-discovery/internal/domain/entity"
)

func newTestListing(id string, price float64, condition string) *entity.Listing {
	return &entity.Listing{
		ID:        id,
		Title:     "Listing " + id,
		Price:     price,
		Condition: condition,
		Status:    entity.StatusActive,
	}
}

func TestFilters_DefaultMatchesEverything(t *testing.T) {
	f := DefaultFilters()

	listings := []*entity.Listing{
		newTestListing("a", 100, "used"),
		newTestListing("b", 50, "new"),
		{ID: "c", Title: "no condition", Price: 0},
	}
	for _, l := range listings {
		assert.True(t, f.Matches(l), "default filters must accept %s", l.ID)
	}
}

func TestFilters_ConditionORWithinDimension(t *testing.T) {
	f := DefaultFilters()
	f.Toggle(DimCondition, "used")
	f.Toggle(DimCondition, "new")

	assert.True(t, f.Matches(newTestListing("a", 10, "used")))
	assert.True(t, f.Matches(newTestListing("b", 10, "new")))
	assert.False(t, f.Matches(newTestListing("c", 10, "refurbished")))
}

func TestFilters_ANDAcrossDimensions(t *testing.T) {
	f := DefaultFilters()
	f.Toggle(DimCondition, "used")
	f.Toggle(DimBrand, "Bosch")

	l := newTestListing("a", 10, "used")
	l.Brand = "Bosch"
	assert.True(t, f.Matches(l))

	l.Brand = "Makita"
	assert.False(t, f.Matches(l), "must satisfy every active dimension")
}

func TestFilters_MissingFieldFailsActiveDimension(t *testing.T) {
	f := DefaultFilters()
	f.Toggle(DimBrand, "Bosch")

	noBrand := newTestListing("a", 10, "used")
	assert.False(t, f.Matches(noBrand), "listing without a brand fails any brand filter")
}

func TestFilters_PriceRangeInclusive(t *testing.T) {
	f := DefaultFilters()
	f.PriceRange = PriceRange{Min: 60, Max: 100}

	assert.True(t, f.Matches(newTestListing("a", 60, "")))
	assert.True(t, f.Matches(newTestListing("b", 100, "")))
	assert.False(t, f.Matches(newTestListing("c", 59.99, "")))
	assert.False(t, f.Matches(newTestListing("d", 100.01, "")))
}

func TestFilters_DeliveryORAcrossRequestedOptions(t *testing.T) {
	f := DefaultFilters()
	f.Toggle(DimDelivery, DeliveryPickup)
	f.Toggle(DimDelivery, DeliveryShipping)

	pickupOnly := newTestListing("a", 10, "")
	pickupOnly.Delivery.PickupAvailable = true
	deliveryOnly := newTestListing("b", 10, "")
	deliveryOnly.Delivery.DeliveryAvailable = true
	neither := newTestListing("c", 10, "")

	assert.True(t, f.Matches(pickupOnly))
	assert.True(t, f.Matches(deliveryOnly))
	assert.False(t, f.Matches(neither))
}

func TestFilters_TagsAnyMatch(t *testing.T) {
	f := DefaultFilters()
	f.Toggle(DimTags, "outdoor")
	f.Toggle(DimTags, "electric")

	l := newTestListing("a", 10, "")
	l.Tags = []string{"heavy", "electric"}
	assert.True(t, f.Matches(l), "one shared tag is enough")

	l.Tags = []string{"heavy"}
	assert.False(t, f.Matches(l))

	l.Tags = nil
	assert.False(t, f.Matches(l))
}

func TestFilters_ToggleIsIdempotentPair(t *testing.T) {
	f := DefaultFilters()
	f.Toggle(DimCondition, "used")
	assert.True(t, f.Condition["used"])
	f.Toggle(DimCondition, "used")
	assert.NotContains(t, f.Condition, "used")
	assert.False(t, f.Active())
}

func TestFilters_ActiveDetectsPriceRange(t *testing.T) {
	f := DefaultFilters()
	assert.False(t, f.Active())
	f.PriceRange.Max = 500
	assert.True(t, f.Active())
}

func TestFilters_ApplyPreservesOrder(t *testing.T) {
	f := DefaultFilters()
	f.Toggle(DimCondition, "used")

	listings := []*entity.Listing{
		newTestListing("a", 100, "used"),
		newTestListing("b", 50, "new"),
		newTestListing("c", 75, "used"),
	}
	got := f.Apply(listings)
	assert.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
}
