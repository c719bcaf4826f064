package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/motmap/internal/core/domain"
)

// ListRestaurantsHandler returns a page of restaurants, optionally filtered by
// category, min_rating and q, ordered by sort (id, rating, recent).
func ListRestaurantsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter, fields := parseListFilter(c)
		if fields != nil {
			return errValidation(c, fields)
		}

		offset, limit := parsePage(c)
		total, err := deps.Restaurants.Count(c.UserContext(), filter)
		if err != nil {
			return errFromDomain(c, err)
		}

		filter.Offset, filter.Limit = offset, limit
		rows, err := deps.Restaurants.List(c.UserContext(), filter)
		if err != nil {
			return errFromDomain(c, err)
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: toResponses(rows), Pagination: pg})
	}
}

// GetRestaurantHandler returns one restaurant by id.
func GetRestaurantHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		r, err := deps.Restaurants.GetByID(c.UserContext(), id)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(toResponse(r))
	}
}

// CreateRestaurantHandler registers a new restaurant.
func CreateRestaurantHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, fields := bindRestaurant(c)
		if fields != nil {
			return errValidation(c, fields)
		}
		r, err := deps.Restaurants.Create(c.UserContext(), req.toInput())
		if err != nil {
			return errFromDomain(c, err)
		}
		c.Location("/v1/restaurants/" + strconv.FormatInt(r.ID, 10))
		return c.Status(fiber.StatusCreated).JSON(toResponse(r))
	}
}

// UpdateRestaurantHandler replaces the writable fields of a restaurant.
func UpdateRestaurantHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		req, fields := bindRestaurant(c)
		if fields != nil {
			return errValidation(c, fields)
		}
		r, err := deps.Restaurants.Update(c.UserContext(), id, req.toInput())
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(toResponse(r))
	}
}

// DeleteRestaurantHandler removes a restaurant.
func DeleteRestaurantHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		if err := deps.Restaurants.Delete(c.UserContext(), id); err != nil {
			return errFromDomain(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ByCategoryHandler returns restaurants of one category.
func ByCategoryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cat, err := domain.ParseCategory(c.Params("category"))
		if err != nil {
			return errFromDomain(c, err)
		}
		rows, err := deps.Restaurants.ByCategory(c.UserContext(), cat)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(toResponses(rows))
	}
}

// MinRatingHandler returns restaurants rated at least :rating.
func MinRatingHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		n, err := strconv.Atoi(c.Params("rating"))
		if err != nil {
			return errBadRequest(c, "rating must be an integer")
		}
		rows, err := deps.Restaurants.MinRating(c.UserContext(), n)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(toResponses(rows))
	}
}

// SearchHandler performs a keyword search over name, address and review.
func SearchHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		keyword := c.Query("keyword", c.Query("q"))
		if len(keyword) > 200 {
			return errBadRequest(c, "keyword too long (max 200 characters)")
		}
		rows, err := deps.Restaurants.Search(c.UserContext(), keyword)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(toResponses(rows))
	}
}

// SortedByRatingHandler returns all restaurants, best rated first.
func SortedByRatingHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := deps.Restaurants.SortedByRating(c.UserContext())
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(toResponses(rows))
	}
}

// SortedByDateHandler returns all restaurants, newest first.
func SortedByDateHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := deps.Restaurants.SortedByRecent(c.UserContext())
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(toResponses(rows))
	}
}

// HighRatedHandler returns restaurants rated 4 or better.
func HighRatedHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rows, err := deps.Restaurants.HighRated(c.UserContext())
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(toResponses(rows))
	}
}

// NearbyHandler returns restaurants strictly within radius km of a point.
func NearbyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, fields := parseNearby(c)
		if fields != nil {
			return errValidation(c, fields)
		}
		rows, err := deps.Restaurants.Nearby(c.UserContext(), q)
		if err != nil {
			return errFromDomain(c, err)
		}
		c.Set("Cache-Control", "public, max-age=30")
		return c.JSON(toResponses(rows))
	}
}

// ListCategoriesHandler returns every category code with its display name.
func ListCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("Cache-Control", "public, max-age=3600")
		return c.JSON(domain.CategoryInfos())
	}
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "id must be a positive integer")
	}
	return id, nil
}

func bindRestaurant(c *fiber.Ctx) (restaurantRequest, map[string]string) {
	var req restaurantRequest
	if err := c.BodyParser(&req); err != nil {
		return req, map[string]string{"body": "malformed JSON body"}
	}
	return req, req.check()
}

func parseListFilter(c *fiber.Ctx) (domain.ListFilter, map[string]string) {
	var (
		f      domain.ListFilter
		fields = map[string]string{}
	)
	if raw := c.Query("category"); raw != "" {
		cat, err := domain.ParseCategory(raw)
		if err != nil {
			fields["category"] = "unknown category " + strconv.Quote(raw)
		} else {
			f.Category = &cat
		}
	}
	if raw := c.Query("min_rating"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < domain.MinRating || n > domain.MaxRating {
			fields["min_rating"] = "min_rating must be an integer between 1 and 5"
		} else {
			f.MinRating = n
		}
	}
	f.Keyword = strings.TrimSpace(c.Query("q"))

	switch s := domain.SortOrder(c.Query("sort", string(domain.SortByID))); s {
	case domain.SortByID, domain.SortByRating, domain.SortByRecent:
		f.Sort = s
	default:
		fields["sort"] = "sort must be one of id, rating, recent"
	}

	if len(fields) > 0 {
		return f, fields
	}
	return f, nil
}

func parseNearby(c *fiber.Ctx) (domain.NearbyQuery, map[string]string) {
	var (
		q      domain.NearbyQuery
		fields = map[string]string{}
	)

	coord := func(name, alias string) float64 {
		raw := c.Query(name, c.Query(alias))
		if raw == "" {
			fields[name] = name + " is required"
			return 0
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			fields[name] = name + " must be a number"
		}
		return v
	}
	q.Lat = coord("latitude", "lat")
	q.Lon = coord("longitude", "lon")

	if raw := c.Query("radius"); raw != "" {
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			fields["radius"] = "radius must be a number of kilometers"
		} else {
			q.RadiusKm = &r
		}
	}

	switch s := domain.NearbySort(c.Query("sort")); s {
	case domain.NearbySortNone, domain.NearbySortDistance, domain.NearbySortRating:
		q.Sort = s
	default:
		fields["sort"] = "sort must be distance or rating"
	}

	if len(fields) > 0 {
		return q, fields
	}
	return q, nil
}
