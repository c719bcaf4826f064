package domain

import "time"

// EventType names a change to a restaurant.
type EventType string

const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
)

// RestaurantEvent is published after every successful write.
type RestaurantEvent struct {
	ID         string     `json:"id"`
	Type       EventType  `json:"type"`
	Restaurant Restaurant `json:"restaurant"`
	OccurredAt time.Time  `json:"occurred_at"`
}
