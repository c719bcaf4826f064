package http

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/samirrijal/motmap/internal/core/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// restaurantRequest is the create/update payload.
type restaurantRequest struct {
	Name      string   `json:"name" validate:"required,max=100"`
	Address   string   `json:"address" validate:"required,max=200"`
	Category  string   `json:"category" validate:"required"`
	Rating    *int     `json:"rating" validate:"required"`
	Review    string   `json:"review" validate:"max=1000"`
	Latitude  *float64 `json:"latitude" validate:"required"`
	Longitude *float64 `json:"longitude" validate:"required"`
}

// check runs struct validation and returns per-field messages keyed by JSON name.
func (r restaurantRequest) check() map[string]string {
	err := validate.Struct(r)
	if err == nil {
		if strings.TrimSpace(r.Name) == "" {
			return map[string]string{"name": "name is required"}
		}
		if strings.TrimSpace(r.Address) == "" {
			return map[string]string{"address": "address is required"}
		}
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := jsonFieldName(fe.Field())
		switch fe.Tag() {
		case "required":
			fields[name] = name + " is required"
		case "max":
			fields[name] = name + " must be at most " + fe.Param() + " characters"
		default:
			fields[name] = name + " is invalid"
		}
	}
	return fields
}

func (r restaurantRequest) toInput() domain.RestaurantInput {
	return domain.RestaurantInput{
		Name:      r.Name,
		Address:   r.Address,
		Category:  domain.Category(r.Category),
		Rating:    *r.Rating,
		Review:    r.Review,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
	}
}

func jsonFieldName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// restaurantResponse is the wire form of a restaurant.
type restaurantResponse struct {
	ID                  int64      `json:"id"`
	Name                string     `json:"name"`
	Address             string     `json:"address"`
	Category            string     `json:"category"`
	CategoryDisplayName string     `json:"category_display_name"`
	Rating              int        `json:"rating"`
	Review              string     `json:"review"`
	Latitude            float64    `json:"latitude"`
	Longitude           float64    `json:"longitude"`
	DistanceKm          *float64   `json:"distance_km,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           *time.Time `json:"updated_at,omitempty"`
}

func toResponse(r *domain.Restaurant) restaurantResponse {
	return restaurantResponse{
		ID:                  r.ID,
		Name:                r.Name,
		Address:             r.Address,
		Category:            string(r.Category),
		CategoryDisplayName: r.Category.DisplayName(),
		Rating:              r.Rating,
		Review:              r.Review,
		Latitude:            r.Location.Lat,
		Longitude:           r.Location.Lon,
		DistanceKm:          r.DistanceKm,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

func toResponses(rs []domain.Restaurant) []restaurantResponse {
	out := make([]restaurantResponse, 0, len(rs))
	for i := range rs {
		out = append(out, toResponse(&rs[i]))
	}
	return out
}
