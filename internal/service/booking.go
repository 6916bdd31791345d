package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/escape-room-booking/internal/apperr"
	"github.com/iliyamo/escape-room-booking/internal/authz"
	"github.com/iliyamo/escape-room-booking/internal/logging"
	"github.com/iliyamo/escape-room-booking/internal/metrics"
	"github.com/iliyamo/escape-room-booking/internal/model"
	"github.com/iliyamo/escape-room-booking/internal/queue"
	"github.com/iliyamo/escape-room-booking/internal/repository"
)

const publishTimeout = 3 * time.Second

// CreateBookingInput is the payload of createBooking.
type CreateBookingInput struct {
	RoomID      uint64
	ScheduledAt string // RFC 3339 instant
	Players     int
}

// BookingService is the booking engine: creation with the overlap guard
// and the status lifecycle with its permission rules.
type BookingService struct {
	bookings BookingStore
	rooms    RoomStore
	events   EventPublisher
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewBookingService builds the engine.  events and m may be nil.
func NewBookingService(bookings BookingStore, rooms RoomStore, events EventPublisher, m *metrics.Metrics) *BookingService {
	return &BookingService{bookings: bookings, rooms: rooms, events: events, metrics: m, now: time.Now}
}

// ParseScheduledAt parses an RFC 3339 instant and normalises it to UTC at
// millisecond precision, the resolution bookings are stored with.  Two
// requests for the same instant always compare equal afterwards.
func ParseScheduledAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, apperr.Validation("scheduledAt must be a valid RFC 3339 date")
	}
	return t.UTC().Truncate(time.Millisecond), nil
}

// Create books a room for the caller.  The slot check is repeated by the
// store's unique index, so two racing requests for one slot produce one
// booking and one Conflict.
func (s *BookingService) Create(ctx context.Context, actor authz.Identity, in CreateBookingInput) (*model.Booking, error) {
	if in.RoomID == 0 || in.ScheduledAt == "" {
		return nil, apperr.Validation("roomId, scheduledAt and players are required")
	}
	if in.Players < 1 {
		return nil, apperr.Validation("players must be an integer >= 1")
	}
	at, err := ParseScheduledAt(in.ScheduledAt)
	if err != nil {
		return nil, err
	}

	room, err := s.rooms.GetByID(ctx, in.RoomID)
	if err != nil {
		return nil, notFoundOr(err, "room not found or inactive", "load room")
	}
	if !room.IsActive {
		return nil, apperr.NotFound("room not found or inactive")
	}
	if !room.Accepts(in.Players) {
		return nil, apperr.Validation(fmt.Sprintf("players must be between %d and %d for this room", room.PlayersMin, room.PlayersMax))
	}

	taken, err := s.bookings.HasActive(ctx, room.ID, at)
	if err != nil {
		return nil, apperr.Internal("check slot", err)
	}
	if taken {
		s.metrics.Conflict()
		return nil, apperr.Conflict("room already booked at that time")
	}

	b := &model.Booking{
		UserID:      actor.ID,
		RoomID:      room.ID,
		ScheduledAt: at,
		Players:     in.Players,
		Status:      model.BookingPending,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.metrics.Conflict()
			return nil, apperr.Conflict("room already booked at that time")
		}
		return nil, apperr.Internal("create booking", err)
	}

	s.metrics.Transition(string(model.BookingPending))
	s.publish(ctx, actor, b, "")
	return b, nil
}

// CancelByUser cancels the caller's own pending booking.
func (s *BookingService) CancelByUser(ctx context.Context, actor authz.Identity, id uint64) (*model.Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != actor.ID {
		return nil, apperr.Forbidden("you cannot cancel another user's booking")
	}
	if b.Status != model.BookingPending {
		return nil, apperr.InvalidTransition("only pending bookings can be cancelled")
	}
	return s.apply(ctx, actor, b, model.BookingCancelled, model.BookingPending)
}

// Confirm moves a pending booking to confirmed.
func (s *BookingService) Confirm(ctx context.Context, actor authz.Identity, id uint64) (*model.Booking, error) {
	return s.ownerTransition(ctx, actor, id, model.BookingConfirmed, "only pending bookings can be confirmed")
}

// Complete moves a confirmed booking to completed.
func (s *BookingService) Complete(ctx context.Context, actor authz.Identity, id uint64) (*model.Booking, error) {
	return s.ownerTransition(ctx, actor, id, model.BookingCompleted, "only confirmed bookings can be completed")
}

// CancelByOwner cancels a pending or confirmed booking.  Completed and
// already cancelled bookings are terminal.
func (s *BookingService) CancelByOwner(ctx context.Context, actor authz.Identity, id uint64) (*model.Booking, error) {
	return s.ownerTransition(ctx, actor, id, model.BookingCancelled, "only pending or confirmed bookings can be cancelled")
}

// ownerTransition checks in order: existence, venue ownership (admins
// always pass), then the lifecycle rule.
func (s *BookingService) ownerTransition(ctx context.Context, actor authz.Identity, id uint64, to model.BookingStatus, invalid string) (*model.Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		owner, err := s.rooms.OwnerOf(ctx, b.RoomID)
		if err != nil {
			return nil, notFoundOr(err, "room not found", "resolve room owner")
		}
		if owner != actor.ID {
			return nil, apperr.Forbidden("you do not manage this room")
		}
	}
	if b.Status.Terminal() {
		return nil, apperr.InvalidTransition("booking is already " + string(b.Status))
	}
	if !model.CanTransition(b.Status, to) {
		return nil, apperr.InvalidTransition(invalid)
	}
	return s.apply(ctx, actor, b, to, model.SourcesOf(to)...)
}

// apply writes the transition as a compare-and-set on the allowed source
// states.  A miss means another request moved the booking first.
func (s *BookingService) apply(ctx context.Context, actor authz.Identity, b *model.Booking, to model.BookingStatus, from ...model.BookingStatus) (*model.Booking, error) {
	prev := b.Status
	if err := s.bookings.Transition(ctx, b.ID, to, from...); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, apperr.InvalidTransition("booking status changed concurrently, reload and retry")
		}
		return nil, apperr.Internal("update booking status", err)
	}

	updated, err := s.bookings.GetByID(ctx, b.ID)
	if err != nil {
		return nil, apperr.Internal("reload booking", err)
	}
	s.metrics.Transition(string(to))
	s.publish(ctx, actor, updated, prev)
	return updated, nil
}

func (s *BookingService) load(ctx context.Context, id uint64) (*model.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "booking not found", "load booking")
	}
	return b, nil
}

// ListMine lists the caller's bookings, newest first.
func (s *BookingService) ListMine(ctx context.Context, actor authz.Identity) ([]model.Booking, error) {
	out, err := s.bookings.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, apperr.Internal("list bookings", err)
	}
	return out, nil
}

// ListForOwner lists bookings on the caller's venues.  Admins see every
// venue.  status, when set, must be a known status.
func (s *BookingService) ListForOwner(ctx context.Context, actor authz.Identity, status string) ([]model.Booking, error) {
	q := repository.OwnerBookingQuery{}
	if status != "" {
		st := model.BookingStatus(status)
		if !st.Valid() {
			return nil, apperr.Validation("status must be pending, confirmed, completed or cancelled")
		}
		q.Status = st
	}
	if !actor.IsAdmin() {
		id := actor.ID
		q.OwnerID = &id
	}
	out, err := s.bookings.ListForOwner(ctx, q)
	if err != nil {
		return nil, apperr.Internal("list owner bookings", err)
	}
	return out, nil
}

// publish is best-effort: the booking is already committed, so failures
// are only logged.
func (s *BookingService) publish(ctx context.Context, actor authz.Identity, b *model.Booking, from model.BookingStatus) {
	if s.events == nil {
		return
	}
	ev := queue.BookingStatusEvent{
		BookingID:   b.ID,
		UserID:      b.UserID,
		RoomID:      b.RoomID,
		ActorID:     actor.ID,
		ActorRole:   string(actor.Role),
		From:        string(from),
		Status:      string(b.Status),
		ScheduledAt: b.ScheduledAt,
		Players:     b.Players,
		OccurredAt:  s.now().UTC(),
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.events.Publish(pctx, ev); err != nil {
		logging.FromContext(ctx).Warn().Err(err).
			Uint64("booking_id", b.ID).Str("status", ev.Status).
			Msg("booking event not published")
	}
}
