// Package queue defines the booking lifecycle events exchanged over
// RabbitMQ, the publisher used by the booking service and the background
// consumer that appends them to logs/booking.log.
package queue

import "time"

// DefaultQueue is the durable queue carrying booking events.
const DefaultQueue = "booking.events"

// BookingStatusEvent is published whenever a booking is created or
// changes status.  It carries enough context for consumers to log or
// notify without querying the primary database.
type BookingStatusEvent struct {
	BookingID   uint64    `json:"booking_id"`
	UserID      uint64    `json:"user_id"`
	RoomID      uint64    `json:"room_id"`
	ActorID     uint64    `json:"actor_id"`
	ActorRole   string    `json:"actor_role"`
	From        string    `json:"from,omitempty"` // empty on creation
	Status      string    `json:"status"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Players     int       `json:"players"`
	OccurredAt  time.Time `json:"occurred_at"`
}
