package domain

import (
	"slices"
	"time"
)

// Price buckets derived from Event.PriceBase.
const (
	PriceGratis    = "gratis"
	PriceEconomico = "economico"
	PriceMedio     = "medio"
	PricePremium   = "premium"
)

const DefaultCurrency = "EUR"

// NewEvent is the insertable shape of an event: everything except the
// store-assigned id and creation time.
type NewEvent struct {
	Title             string   `json:"title" validate:"notblank"`
	LongDescription   string   `json:"longDescription" validate:"notblank"`
	MainCategory      string   `json:"mainCategory" validate:"notblank"`
	SecondaryCategory string   `json:"secondaryCategory,omitempty"`
	Tags              []string `json:"tags"`

	DateStart string `json:"dateStart,omitempty"`
	DateEnd   string `json:"dateEnd,omitempty"`
	TimeStart string `json:"timeStart,omitempty"`
	TimeEnd   string `json:"timeEnd,omitempty"`

	LocationExact string   `json:"locationExact" validate:"notblank"`
	District      string   `json:"district" validate:"notblank"`
	Neighborhood  string   `json:"neighborhood,omitempty"`
	Lat           *float64 `json:"lat,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Lng           *float64 `json:"lng,omitempty" validate:"omitempty,gte=-180,lte=180"`

	PriceBase  int    `json:"priceBase" validate:"gte=0"`
	Currency   string `json:"currency,omitempty"`
	PriceRange string `json:"priceRange,omitempty"`

	Includes      []string `json:"includes,omitempty"`
	DurationHours *float64 `json:"durationHours,omitempty" validate:"omitempty,gte=0"`

	IdealGroup string `json:"idealGroup,omitempty"`
	MinGroup   *int   `json:"minGroup,omitempty" validate:"omitempty,gte=1"`
	MaxGroup   *int   `json:"maxGroup,omitempty" validate:"omitempty,gte=1"`
	MinAge     *int   `json:"minAge,omitempty" validate:"omitempty,gte=0"`

	Vibe          string `json:"vibe,omitempty"`
	Intensity     string `json:"intensity,omitempty"`
	IndoorOutdoor string `json:"indoorOutdoor,omitempty" validate:"omitempty,oneof=interior exterior mixto"`

	PetFriendly         bool `json:"petFriendly"`
	Accessible          bool `json:"accessible"`
	Parking             bool `json:"parking"`
	ReservationRequired bool `json:"reservationRequired"`

	MetroNearby []string `json:"metroNearby,omitempty"`
	Images      []string `json:"images,omitempty"`

	Rating       *float64 `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	TotalReviews int      `json:"totalReviews" validate:"gte=0"`
	Reviews      []Review `json:"reviews,omitempty" validate:"omitempty,dive"`

	Organizer    string `json:"organizer,omitempty"`
	ContactPhone string `json:"contactPhone,omitempty"`
	ContactEmail string `json:"contactEmail,omitempty" validate:"omitempty,email"`
	Website      string `json:"website,omitempty" validate:"omitempty,url"`

	TotalSpots     *int `json:"totalSpots,omitempty" validate:"omitempty,gte=0"`
	AvailableSpots *int `json:"availableSpots,omitempty" validate:"omitempty,gte=0"`

	IsTrending    bool `json:"isTrending"`
	TrendingScore int  `json:"trendingScore"`
	SaveCount     int  `json:"saveCount"`

	// SeedKey identifies fixture rows so seeding can be repeated safely.
	SeedKey string `json:"-"`
}

type Review struct {
	Author  string  `json:"author"`
	Rating  float64 `json:"rating" validate:"gte=0,lte=5"`
	Comment string  `json:"comment,omitempty"`
	Date    string  `json:"date,omitempty"`
}

// Event is a stored event record.
type Event struct {
	ID int64 `json:"id"`
	NewEvent
	CreatedAt time.Time `json:"createdAt"`
}

// PriceRangeFor maps a base price to its bucket.
func PriceRangeFor(priceBase int) string {
	switch {
	case priceBase <= 0:
		return PriceGratis
	case priceBase <= 40:
		return PriceEconomico
	case priceBase <= 100:
		return PriceMedio
	default:
		return PricePremium
	}
}

// HasTag reports whether tag is one of the event's tags (exact match).
func (e *NewEvent) HasTag(tag string) bool {
	return slices.Contains(e.Tags, tag)
}

// ApplyDefaults fills the fields the store would otherwise default.
func (e *NewEvent) ApplyDefaults() {
	if e.Currency == "" {
		e.Currency = DefaultCurrency
	}
	if e.PriceRange == "" {
		e.PriceRange = PriceRangeFor(e.PriceBase)
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}
}
