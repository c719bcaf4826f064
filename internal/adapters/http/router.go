package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/motmap/internal/pkg/metrics"
)

const requestTimeout = 15 * time.Second

// legacySunset is when the /api/restaurants aliases go away.
var legacySunset = time.Date(2027, time.June, 30, 0, 0, 0, 0, time.UTC)

// RouterOptions tunes middleware that differs between deployments.
type RouterOptions struct {
	RateLimit int // requests per minute per IP, 0 = 120
}

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies, opts ...RouterOptions) {
	var o RouterOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.RateLimit <= 0 {
		o.RateLimit = 120
	}

	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	app.Use(limiter.New(limiter.Config{
		Max:        o.RateLimit,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "", "too many requests, please try again later", nil)
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")
	v1.Get("/categories", ListCategoriesHandler())
	registerRestaurantRoutes(v1.Group("/restaurants"), deps)

	// Original paths, kept for existing clients.
	legacy := app.Group("/api/restaurants", DeprecationMiddleware([]DeprecatedRoute{
		{Path: "/api/restaurants/*", SunsetDate: legacySunset, Alternative: "/v1/restaurants"},
	}))
	registerRestaurantRoutes(legacy, deps)

	app.Post("/graphql", timeout.NewWithContext(GraphQLHandler(deps), requestTimeout))

	SetupDocs(app)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}

// registerRestaurantRoutes mounts the restaurant endpoints on r. Static
// segments are registered before /:id so they are not captured by it.
func registerRestaurantRoutes(r fiber.Router, deps *Dependencies) {
	t := func(h fiber.Handler) fiber.Handler {
		return timeout.NewWithContext(h, requestTimeout)
	}

	r.Get("/", t(ListRestaurantsHandler(deps)))
	r.Post("/", t(CreateRestaurantHandler(deps)))
	r.Get("/nearby", t(NearbyHandler(deps)))
	r.Get("/search", t(SearchHandler(deps)))
	r.Get("/high-rated", t(HighRatedHandler(deps)))
	r.Get("/sorted/rating", t(SortedByRatingHandler(deps)))
	r.Get("/sorted/date", t(SortedByDateHandler(deps)))
	r.Get("/category/:category", t(ByCategoryHandler(deps)))
	r.Get("/rating/:rating", t(MinRatingHandler(deps)))
	r.Get("/:id", t(GetRestaurantHandler(deps)))
	r.Put("/:id", t(UpdateRestaurantHandler(deps)))
	r.Delete("/:id", t(DeleteRestaurantHandler(deps)))
}
