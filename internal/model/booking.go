package model

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// transitions lists the allowed targets for every non-terminal status.
var transitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
}

// Valid reports whether s is a known status.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s BookingStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

// Active reports whether a booking in status s holds its room slot.
func (s BookingStatus) Active() bool {
	return s == BookingPending || s == BookingConfirmed
}

// ActiveStatuses lists every status that holds a room slot.
func ActiveStatuses() []BookingStatus {
	var out []BookingStatus
	for _, s := range []BookingStatus{BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled} {
		if s.Active() {
			out = append(out, s)
		}
	}
	return out
}

// CanTransition reports whether the lifecycle allows from -> to.
func CanTransition(from, to BookingStatus) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// SourcesOf returns every status that may transition to target.
func SourcesOf(target BookingStatus) []BookingStatus {
	var out []BookingStatus
	for _, from := range []BookingStatus{BookingPending, BookingConfirmed} {
		if CanTransition(from, target) {
			out = append(out, from)
		}
	}
	return out
}

// Booking records a user's reservation of a room at a given instant.
// At most one booking per (RoomID, ScheduledAt) may be pending or
// confirmed; the database enforces this with a unique index.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – user who made the booking.
//  RoomID      – room being booked.
//  ScheduledAt – session start, stored in UTC.
//  Players     – group size within the room's limits.
//  Status      – pending, confirmed, completed or cancelled.
type Booking struct {
	ID          uint64        `json:"id"`             // bookings.id
	UserID      uint64        `json:"userId"`         // bookings.user_id
	RoomID      uint64        `json:"roomId"`         // bookings.room_id
	ScheduledAt time.Time     `json:"scheduledAt"`    // bookings.scheduled_at
	Players     int           `json:"players"`        // bookings.players
	Status      BookingStatus `json:"status"`         // bookings.status
	Room        *RoomSummary  `json:"room,omitempty"` // joined from escape_rooms on read
	User        *UserSummary  `json:"user,omitempty"` // joined from users on owner listings
	CreatedAt   time.Time     `json:"createdAt"`      // bookings.created_at
	UpdatedAt   time.Time     `json:"updatedAt"`      // bookings.updated_at
}
