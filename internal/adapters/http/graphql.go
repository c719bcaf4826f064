package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/motmap/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to the restaurant service.
// Field names follow the JSON names of restaurantResponse so the default
// resolver can read them.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	restaurantType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Restaurant",
		Fields: graphql.Fields{
			"id":                    &graphql.Field{Type: graphql.Int},
			"name":                  &graphql.Field{Type: graphql.String},
			"address":               &graphql.Field{Type: graphql.String},
			"category":              &graphql.Field{Type: graphql.String},
			"category_display_name": &graphql.Field{Type: graphql.String},
			"rating":                &graphql.Field{Type: graphql.Int},
			"review":                &graphql.Field{Type: graphql.String},
			"latitude":              &graphql.Field{Type: graphql.Float},
			"longitude":             &graphql.Field{Type: graphql.Float},
			"distance_km":           &graphql.Field{Type: graphql.Float},
			"created_at":            &graphql.Field{Type: graphql.DateTime},
			"updated_at":            &graphql.Field{Type: graphql.DateTime},
		},
	})

	categoryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Category",
		Fields: graphql.Fields{
			"code":         &graphql.Field{Type: graphql.String},
			"display_name": &graphql.Field{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"restaurants": &graphql.Field{
				Type:        graphql.NewList(restaurantType),
				Description: "List restaurants with optional filters",
				Args: graphql.FieldConfigArgument{
					"category":   &graphql.ArgumentConfig{Type: graphql.String},
					"min_rating": &graphql.ArgumentConfig{Type: graphql.Int},
					"q":          &graphql.ArgumentConfig{Type: graphql.String},
					"sort":       &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: string(domain.SortByID)},
					"offset":     &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"limit":      &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: defaultPageLimit},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var f domain.ListFilter
					if raw, ok := p.Args["category"].(string); ok && raw != "" {
						cat, err := domain.ParseCategory(raw)
						if err != nil {
							return nil, err
						}
						f.Category = &cat
					}
					if n, ok := p.Args["min_rating"].(int); ok {
						f.MinRating = n
					}
					if q, ok := p.Args["q"].(string); ok {
						f.Keyword = q
					}
					switch s := domain.SortOrder(p.Args["sort"].(string)); s {
					case domain.SortByID, domain.SortByRating, domain.SortByRecent:
						f.Sort = s
					default:
						return nil, domain.Errorf(domain.ErrValidation, "unknown sort %q", s)
					}
					f.Offset = p.Args["offset"].(int)
					f.Limit = p.Args["limit"].(int)
					if f.Limit <= 0 || f.Limit > maxPageLimit {
						f.Limit = defaultPageLimit
					}

					rows, err := deps.Restaurants.List(p.Context, f)
					if err != nil {
						return nil, err
					}
					return toResponses(rows), nil
				},
			},
			"restaurant": &graphql.Field{
				Type:        restaurantType,
				Description: "Get a restaurant by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					r, err := deps.Restaurants.GetByID(p.Context, int64(p.Args["id"].(int)))
					if err != nil {
						return nil, err
					}
					return toResponse(r), nil
				},
			},
			"nearbyRestaurants": &graphql.Field{
				Type:        graphql.NewList(restaurantType),
				Description: "Restaurants strictly within radius km of a point",
				Args: graphql.FieldConfigArgument{
					"latitude":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"longitude": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius":    &graphql.ArgumentConfig{Type: graphql.Float},
					"sort":      &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					q := domain.NearbyQuery{
						Lat:  p.Args["latitude"].(float64),
						Lon:  p.Args["longitude"].(float64),
						Sort: domain.NearbySort(p.Args["sort"].(string)),
					}
					if r, ok := p.Args["radius"].(float64); ok {
						q.RadiusKm = &r
					}
					switch q.Sort {
					case domain.NearbySortNone, domain.NearbySortDistance, domain.NearbySortRating:
					default:
						return nil, domain.Errorf(domain.ErrValidation, "unknown sort %q", q.Sort)
					}

					rows, err := deps.Restaurants.Nearby(p.Context, q)
					if err != nil {
						return nil, err
					}
					return toResponses(rows), nil
				},
			},
			"searchRestaurants": &graphql.Field{
				Type:        graphql.NewList(restaurantType),
				Description: "Keyword search over name, address and review",
				Args: graphql.FieldConfigArgument{
					"keyword": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					rows, err := deps.Restaurants.Search(p.Context, p.Args["keyword"].(string))
					if err != nil {
						return nil, err
					}
					return toResponses(rows), nil
				},
			},
			"categories": &graphql.Field{
				Type:        graphql.NewList(categoryType),
				Description: "All categories with display names",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return domain.CategoryInfos(), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
