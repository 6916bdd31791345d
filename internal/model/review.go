package model

import "time"

// Review is a user's rating of a room, tied to exactly one completed
// booking.  booking_id is unique in the `reviews` table.
type Review struct {
	ID        uint64       `json:"id"`             // reviews.id
	UserID    uint64       `json:"userId"`         // reviews.user_id
	RoomID    uint64       `json:"roomId"`         // reviews.room_id
	BookingID uint64       `json:"bookingId"`      // reviews.booking_id
	Rating    int          `json:"rating"`         // reviews.rating (1..5)
	Comment   string       `json:"comment"`        // reviews.comment
	Room      *RoomSummary `json:"room,omitempty"` // joined on "my reviews"
	User      *UserSummary `json:"user,omitempty"` // joined on room reviews
	CreatedAt time.Time    `json:"createdAt"`      // reviews.created_at
	UpdatedAt time.Time    `json:"updatedAt"`      // reviews.updated_at
}
