package authz

import (
	"github.com/iliyamo/escape-room-booking/internal/apperr"
	"github.com/iliyamo/escape-room-booking/internal/model"
)

// Operation names an authenticated action guarded by role.
type Operation string

const (
	OpMe                   Operation = "me"
	OpCreateLocal          Operation = "create_local"
	OpListMyLocales        Operation = "list_my_locales"
	OpCreateRoom           Operation = "create_room"
	OpUpdateRoom           Operation = "update_room"
	OpDeleteRoom           Operation = "delete_room"
	OpCreateBooking        Operation = "create_booking"
	OpListMyBookings       Operation = "list_my_bookings"
	OpCancelMyBooking      Operation = "cancel_my_booking"
	OpListOwnerBookings    Operation = "list_owner_bookings"
	OpConfirmBooking       Operation = "confirm_booking"
	OpCompleteBooking      Operation = "complete_booking"
	OpCancelBookingAsOwner Operation = "cancel_booking_as_owner"
	OpCreateReview         Operation = "create_review"
	OpListMyReviews        Operation = "list_my_reviews"
)

var (
	anyRole    = []model.Role{model.RoleUser, model.RoleOwner, model.RoleAdmin}
	venueRoles = []model.Role{model.RoleOwner, model.RoleAdmin}
)

// capabilities is the role policy for every operation.  Resource-level
// checks (does this owner own that room) happen in the services.
var capabilities = map[Operation][]model.Role{
	OpMe:                   anyRole,
	OpCreateLocal:          venueRoles,
	OpListMyLocales:        venueRoles,
	OpCreateRoom:           venueRoles,
	OpUpdateRoom:           venueRoles,
	OpDeleteRoom:           venueRoles,
	OpCreateBooking:        anyRole,
	OpListMyBookings:       anyRole,
	OpCancelMyBooking:      anyRole,
	OpListOwnerBookings:    venueRoles,
	OpConfirmBooking:       venueRoles,
	OpCompleteBooking:      venueRoles,
	OpCancelBookingAsOwner: venueRoles,
	OpCreateReview:         anyRole,
	OpListMyReviews:        anyRole,
}

// RolesFor returns the roles allowed to run op.  Unknown operations
// allow nobody.
func RolesFor(op Operation) []model.Role {
	return capabilities[op]
}

// RequireRole succeeds iff id.Role is in allowed.
func RequireRole(id Identity, allowed ...model.Role) error {
	for _, r := range allowed {
		if id.Role == r {
			return nil
		}
	}
	return apperr.Forbidden("insufficient role")
}

// Authorize checks id against the capability table for op.
func Authorize(id Identity, op Operation) error {
	return RequireRole(id, RolesFor(op)...)
}
