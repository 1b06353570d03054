package entity

import "time"

type ListingStatus string

const (
	StatusActive   ListingStatus = "ACTIVE"
	StatusRented   ListingStatus = "RENTED"
	StatusInactive ListingStatus = "INACTIVE"
)

type PriceType string

const (
	PricePerHour  PriceType = "hourly"
	PricePerDay   PriceType = "daily"
	PricePerWeek  PriceType = "weekly"
	PricePerMonth PriceType = "monthly"
)

// DeliveryOptions describes how a listing can reach the renter.
type DeliveryOptions struct {
	PickupAvailable   bool    `bson:"pickup_available" json:"pickupAvailable"`
	DeliveryAvailable bool    `bson:"delivery_available" json:"deliveryAvailable"`
	DeliveryRadiusKm  float64 `bson:"delivery_radius_km,omitempty" json:"deliveryRadiusKm,omitempty"`
	DeliveryFee       float64 `bson:"delivery_fee,omitempty" json:"deliveryFee,omitempty"`
}

// Listing is a rentable piece of equipment. The discovery pipeline only ever
// reads listings; it never mutates them.
type Listing struct {
	ID          string          `bson:"_id,omitempty" json:"id"`
	OwnerID     string          `bson:"owner_id" json:"ownerId"`
	CategoryID  string          `bson:"category_id" json:"categoryId"`
	Title       string          `bson:"title" json:"title"`
	Description string          `bson:"description,omitempty" json:"description,omitempty"`
	Condition   string          `bson:"condition,omitempty" json:"condition,omitempty"`
	Brand       string          `bson:"brand,omitempty" json:"brand,omitempty"`
	PriceType   PriceType       `bson:"price_type,omitempty" json:"priceType,omitempty"`
	Price       float64         `bson:"price" json:"price"`
	Tags        []string        `bson:"tags,omitempty" json:"tags,omitempty"`
	Delivery    DeliveryOptions `bson:"delivery" json:"delivery"`
	Status      ListingStatus   `bson:"status" json:"status"`
	Photos      []string        `bson:"photos,omitempty" json:"photos,omitempty"`
	Views       int64           `bson:"views" json:"views"`
	// Rating is nil until the listing has at least one review.
	Rating *float64 `bson:"rating,omitempty" json:"rating,omitempty"`
	// Relevance and Distance are search-supplied scores. They are attached by
	// the search backend for search-result sets and are never recomputed here.
	Relevance *float64  `bson:"-" json:"relevance,omitempty"`
	Distance  *float64  `bson:"-" json:"distance,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// HasTag reports whether the listing carries the given free-form tag.
func (l *Listing) HasTag(tag string) bool {
	for _, t := range l.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

type Favorite struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"user_id" json:"userId"`
	ListingID string    `bson:"listing_id" json:"listingId"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
