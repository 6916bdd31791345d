package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/iliyamo/escape-room-booking/internal/apperr"
	"github.com/iliyamo/escape-room-booking/internal/authz"
	"github.com/iliyamo/escape-room-booking/internal/metrics"
	"github.com/iliyamo/escape-room-booking/internal/model"
	"github.com/iliyamo/escape-room-booking/internal/repository"
)

const (
	minCommentLen = 3
	maxCommentLen = 1000
)

// CreateReviewInput is the payload of createReview.
type CreateReviewInput struct {
	BookingID uint64
	Rating    int
	Comment   string
}

// ReviewService is the review ledger: one review per completed booking.
type ReviewService struct {
	reviews  ReviewStore
	bookings BookingStore
	metrics  *metrics.Metrics
}

func NewReviewService(reviews ReviewStore, bookings BookingStore, m *metrics.Metrics) *ReviewService {
	return &ReviewService{reviews: reviews, bookings: bookings, metrics: m}
}

// Create reviews one of the caller's completed bookings.
func (s *ReviewService) Create(ctx context.Context, actor authz.Identity, in CreateReviewInput) (*model.Review, error) {
	if in.BookingID == 0 {
		return nil, apperr.Validation("bookingId is required")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, apperr.Validation("rating must be an integer between 1 and 5")
	}
	comment := strings.TrimSpace(in.Comment)
	if n := utf8.RuneCountInString(comment); n < minCommentLen || n > maxCommentLen {
		return nil, apperr.Validation("comment must be between 3 and 1000 characters")
	}

	b, err := s.bookings.GetByID(ctx, in.BookingID)
	if err != nil {
		return nil, notFoundOr(err, "booking not found", "load booking")
	}
	if b.UserID != actor.ID {
		return nil, apperr.Forbidden("you cannot review another user's booking")
	}
	if b.Status != model.BookingCompleted {
		return nil, apperr.InvalidState("only completed bookings can be reviewed")
	}

	exists, err := s.reviews.ExistsForBooking(ctx, b.ID)
	if err != nil {
		return nil, apperr.Internal("check review", err)
	}
	if exists {
		return nil, apperr.Conflict("this booking already has a review")
	}

	rv := &model.Review{
		UserID:    actor.ID,
		RoomID:    b.RoomID,
		BookingID: b.ID,
		Rating:    in.Rating,
		Comment:   comment,
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("this booking already has a review")
		}
		return nil, apperr.Internal("create review", err)
	}
	s.metrics.ReviewCreated()
	return rv, nil
}

// ListMine lists the caller's reviews, newest first.
func (s *ReviewService) ListMine(ctx context.Context, actor authz.Identity) ([]model.Review, error) {
	out, err := s.reviews.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, apperr.Internal("list reviews", err)
	}
	return out, nil
}

// ListByRoom lists a room's reviews, newest first.
func (s *ReviewService) ListByRoom(ctx context.Context, roomID uint64) ([]model.Review, error) {
	out, err := s.reviews.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, apperr.Internal("list room reviews", err)
	}
	return out, nil
}
