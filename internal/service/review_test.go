package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/escape-room-booking/internal/apperr"
	"github.com/iliyamo/escape-room-booking/internal/model"
)

func completedBooking(t *testing.T, w *world) *model.Booking {
	t.Helper()
	b, err := w.bookingService().Create(context.Background(), w.alice, CreateBookingInput{RoomID: w.roomA.ID, ScheduledAt: slot, Players: 2})
	require.NoError(t, err)
	w.setStatus(b.ID, model.BookingCompleted)
	return b
}

func TestCreateReview(t *testing.T) {
	w := newWorld(t)
	svc := NewReviewService(w.reviews, w.bookings, nil)
	ctx := context.Background()
	b := completedBooking(t, w)

	rv, err := svc.Create(ctx, w.alice, CreateReviewInput{BookingID: b.ID, Rating: 5, Comment: "  loved it  "})
	require.NoError(t, err)
	assert.Equal(t, "loved it", rv.Comment)
	assert.Equal(t, w.roomA.ID, rv.RoomID)

	_, err = svc.Create(ctx, w.alice, CreateReviewInput{BookingID: b.ID, Rating: 4, Comment: "again"})
	assert.True(t, apperr.Is(err, apperr.KindConflict), "got %v", err)
}

func TestCreateReviewUniqueBackstop(t *testing.T) {
	w := newWorld(t)
	w.reviews.skipPrecheck = true
	svc := NewReviewService(w.reviews, w.bookings, nil)
	ctx := context.Background()
	b := completedBooking(t, w)

	_, err := svc.Create(ctx, w.alice, CreateReviewInput{BookingID: b.ID, Rating: 5, Comment: "first"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, w.alice, CreateReviewInput{BookingID: b.ID, Rating: 5, Comment: "second"})
	assert.True(t, apperr.Is(err, apperr.KindConflict), "got %v", err)
}

func TestCreateReviewRequiresCompletedBooking(t *testing.T) {
	for _, st := range []model.BookingStatus{model.BookingPending, model.BookingConfirmed, model.BookingCancelled} {
		st := st
		t.Run(string(st), func(t *testing.T) {
			w := newWorld(t)
			svc := NewReviewService(w.reviews, w.bookings, nil)
			b := completedBooking(t, w)
			w.setStatus(b.ID, st)

			_, err := svc.Create(context.Background(), w.alice, CreateReviewInput{BookingID: b.ID, Rating: 3, Comment: "meh"})
			assert.True(t, apperr.Is(err, apperr.KindInvalidState), "got %v", err)
		})
	}
}

func TestCreateReviewErrors(t *testing.T) {
	w := newWorld(t)
	svc := NewReviewService(w.reviews, w.bookings, nil)
	b := completedBooking(t, w)

	tests := []struct {
		name string
		in   CreateReviewInput
		kind apperr.Kind
		as   string
	}{
		{"rating zero", CreateReviewInput{BookingID: b.ID, Rating: 0, Comment: "fine"}, apperr.KindValidation, "alice"},
		{"rating six", CreateReviewInput{BookingID: b.ID, Rating: 6, Comment: "fine"}, apperr.KindValidation, "alice"},
		{"short comment", CreateReviewInput{BookingID: b.ID, Rating: 4, Comment: "  ok  "}, apperr.KindValidation, "alice"},
		{"long comment", CreateReviewInput{BookingID: b.ID, Rating: 4, Comment: strings.Repeat("a", 1001)}, apperr.KindValidation, "alice"},
		{"no booking id", CreateReviewInput{Rating: 4, Comment: "fine"}, apperr.KindValidation, "alice"},
		{"missing booking", CreateReviewInput{BookingID: 5555, Rating: 4, Comment: "fine"}, apperr.KindNotFound, "alice"},
		{"not mine", CreateReviewInput{BookingID: b.ID, Rating: 4, Comment: "fine"}, apperr.KindForbidden, "bob"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor := w.alice
			if tt.as == "bob" {
				actor = w.bob
			}
			_, err := svc.Create(context.Background(), actor, tt.in)
			assert.True(t, apperr.Is(err, tt.kind), "got %v", err)
		})
	}
}

func TestListReviews(t *testing.T) {
	w := newWorld(t)
	svc := NewReviewService(w.reviews, w.bookings, nil)
	ctx := context.Background()
	b := completedBooking(t, w)

	_, err := svc.Create(ctx, w.alice, CreateReviewInput{BookingID: b.ID, Rating: 5, Comment: "great"})
	require.NoError(t, err)

	mine, err := svc.ListMine(ctx, w.alice)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	byRoom, err := svc.ListByRoom(ctx, w.roomA.ID)
	require.NoError(t, err)
	assert.Len(t, byRoom, 1)

	other, err := svc.ListByRoom(ctx, w.roomB.ID)
	require.NoError(t, err)
	assert.Empty(t, other)
}
