package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MinRating       = 1
	MaxRating       = 5
	HighRatingFloor = 4
	MaxReviewLength = 1000
)

// Restaurant is a single restaurant record.
type Restaurant struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Address    string     `json:"address"`
	Category   Category   `json:"category"`
	Rating     int        `json:"rating"`
	Review     string     `json:"review,omitempty"`
	Location   GeoPoint   `json:"location"`
	DistanceKm *float64   `json:"distance_km,omitempty"` // computed field
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

// RestaurantInput carries the writable fields of a restaurant.
// Latitude and Longitude are optional so that a missing coordinate can be
// told apart from zero.
type RestaurantInput struct {
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Category  Category `json:"category"`
	Rating    int      `json:"rating"`
	Review    string   `json:"review,omitempty"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Normalize trims free-text fields and upper-cases the category code.
func (in *RestaurantInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.Review = strings.TrimSpace(in.Review)
	in.Category = Category(strings.ToUpper(strings.TrimSpace(string(in.Category))))
}

// ValidateFields checks everything except the coordinate, which callers
// validate with the geospatial package.
func (in RestaurantInput) ValidateFields() error {
	if in.Name == "" {
		return Errorf(ErrValidation, "name is required")
	}
	if in.Address == "" {
		return Errorf(ErrValidation, "address is required")
	}
	if _, err := ParseCategory(string(in.Category)); err != nil {
		return err
	}
	if in.Rating < MinRating || in.Rating > MaxRating {
		return Errorf(ErrInvalidRating, "rating must be between %d and %d, got %d", MinRating, MaxRating, in.Rating)
	}
	if utf8.RuneCountInString(in.Review) > MaxReviewLength {
		return Errorf(ErrValidation, "review must be at most %d characters", MaxReviewLength)
	}
	return nil
}

// Apply copies the input onto r. The coordinate must already be validated.
func (in RestaurantInput) Apply(r *Restaurant) {
	r.Name = in.Name
	r.Address = in.Address
	r.Category = in.Category
	r.Rating = in.Rating
	r.Review = in.Review
	r.Location = GeoPoint{Lat: *in.Latitude, Lon: *in.Longitude}
}

// SortOrder selects the ordering of list queries.
type SortOrder string

const (
	SortByID     SortOrder = "id"
	SortByRating SortOrder = "rating"
	SortByRecent SortOrder = "recent"
)

// ListFilter narrows a restaurant listing. Zero values mean "no filter".
type ListFilter struct {
	Category  *Category
	MinRating int
	Keyword   string
	Sort      SortOrder
	Limit     int
	Offset    int
}

// NearbySort selects how proximity results are ordered.
type NearbySort string

const (
	NearbySortNone     NearbySort = ""
	NearbySortDistance NearbySort = "distance"
	NearbySortRating   NearbySort = "rating"
)

// NearbyQuery describes a proximity search. A nil RadiusKm means the
// default radius.
type NearbyQuery struct {
	Lat      float64
	Lon      float64
	RadiusKm *float64
	Sort     NearbySort
}
