package http

import (
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/motmap/internal/adapters/postgres"
	"github.com/samirrijal/motmap/internal/adapters/valkey"
	"github.com/samirrijal/motmap/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Restaurants *usecases.RestaurantService
	NATS        *nats.Conn
	DB          *postgres.DB
	Cache       *valkey.Cache
}
