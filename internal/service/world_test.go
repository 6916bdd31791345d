package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/escape-room-booking/internal/authz"
	"github.com/iliyamo/escape-room-booking/internal/model"
)

// world is a seeded platform: two owners with one venue and one room
// each, an admin and two customers.
type world struct {
	db       *memDB
	bookings *memBookings
	reviews  *memReviews

	ownerA, ownerB, admin, alice, bob authz.Identity
	roomA, roomB                      *model.EscapeRoom
}

func newWorld(t *testing.T) *world {
	t.Helper()
	db := newMemDB()
	w := &world{db: db, bookings: &memBookings{db: db}, reviews: &memReviews{db: db}}
	ctx := context.Background()

	mkUser := func(name string, role model.Role) authz.Identity {
		u := &model.User{Name: name, Email: name + "@example.com", PasswordHash: "x", Role: role}
		require.NoError(t, memUsers{db}.Create(ctx, u))
		return authz.Identity{ID: u.ID, Role: role}
	}
	w.ownerA = mkUser("ownerA", model.RoleOwner)
	w.ownerB = mkUser("ownerB", model.RoleOwner)
	w.admin = mkUser("admin", model.RoleAdmin)
	w.alice = mkUser("alice", model.RoleUser)
	w.bob = mkUser("bob", model.RoleUser)

	mkRoom := func(owner authz.Identity, title string) *model.EscapeRoom {
		l := &model.Local{OwnerID: owner.ID, Name: title + " venue", City: "Madrid", Address: "Calle 1"}
		require.NoError(t, memLocals{db}.Create(ctx, l))
		r := &model.EscapeRoom{
			LocalID: l.ID, Title: title, Description: "d", City: "Madrid",
			Difficulty: model.DifficultyMedium, DurationMin: 60,
			PlayersMin: 2, PlayersMax: 6, PriceFrom: 20, IsActive: true,
		}
		require.NoError(t, memRooms{db}.Create(ctx, r))
		return r
	}
	w.roomA = mkRoom(w.ownerA, "Room A")
	w.roomB = mkRoom(w.ownerB, "Room B")
	return w
}

func (w *world) bookingService() *BookingService {
	return NewBookingService(w.bookings, memRooms{w.db}, nil, nil)
}

// setStatus forces a booking into a status, bypassing the lifecycle.
func (w *world) setStatus(id uint64, s model.BookingStatus) {
	w.db.mu.Lock()
	defer w.db.mu.Unlock()
	w.db.bookings[id].Status = s
}
