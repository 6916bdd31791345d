// Package service holds the business rules of the booking platform.
// Services depend on the small store interfaces below; the MySQL
// repositories satisfy them in production and in-memory fakes in tests.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/escape-room-booking/internal/apperr"
	"github.com/iliyamo/escape-room-booking/internal/authz"
	"github.com/iliyamo/escape-room-booking/internal/model"
	"github.com/iliyamo/escape-room-booking/internal/queue"
	"github.com/iliyamo/escape-room-booking/internal/repository"
)

// UserStore is the credential store.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}

// ResetLedger persists password reset tokens.  Issue and Consume are each
// atomic.
type ResetLedger interface {
	Issue(ctx context.Context, userID uint64, tokenHash string, expiresAt, now time.Time) (*model.PasswordResetToken, error)
	Consume(ctx context.Context, tokenHash, passwordHash string, now time.Time) (uint64, error)
}

// LocalStore persists venues.
type LocalStore interface {
	Create(ctx context.Context, l *model.Local) error
	GetByID(ctx context.Context, id uint64) (*model.Local, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]model.Local, error)
}

// RoomStore persists rooms.
type RoomStore interface {
	Create(ctx context.Context, room *model.EscapeRoom) error
	GetByID(ctx context.Context, id uint64) (*model.EscapeRoom, error)
	Update(ctx context.Context, room *model.EscapeRoom) error
	Deactivate(ctx context.Context, id uint64) error
	Search(ctx context.Context, q repository.RoomQuery) ([]model.EscapeRoom, int64, error)
	OwnerOf(ctx context.Context, roomID uint64) (uint64, error)
}

// BookingStore persists bookings.  Create must fail with
// repository.ErrDuplicate when the slot is already held, and Transition
// with repository.ErrStaleState when the status is no longer a source.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	HasActive(ctx context.Context, roomID uint64, at time.Time) (bool, error)
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	Transition(ctx context.Context, id uint64, to model.BookingStatus, from ...model.BookingStatus) error
	ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
	ListForOwner(ctx context.Context, q repository.OwnerBookingQuery) ([]model.Booking, error)
}

// ReviewStore persists reviews.  Create must fail with
// repository.ErrDuplicate on a second review of one booking.
type ReviewStore interface {
	Create(ctx context.Context, rv *model.Review) error
	ExistsForBooking(ctx context.Context, bookingID uint64) (bool, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Review, error)
	ListByRoom(ctx context.Context, roomID uint64) ([]model.Review, error)
}

// EventPublisher emits booking lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.BookingStatusEvent) error
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(userID uint64, role model.Role) (authz.Token, error)
}

// notFoundOr maps repository.ErrNotFound to a NotFound with msg and
// anything else to Internal.
func notFoundOr(err error, msg, op string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(msg)
	}
	return apperr.Internal(op, err)
}
