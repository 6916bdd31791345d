package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/escape-room-booking/internal/model"
)

const reviewColumns = "v.id, v.user_id, v.room_id, v.booking_id, v.rating, v.comment, v.created_at, v.updated_at"

// ReviewRepo stores reviews.  booking_id is unique so a booking can be
// reviewed once even under concurrent requests.
type ReviewRepo struct {
	db *sql.DB
}

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// Create inserts rv; a second review for the same booking yields
// ErrDuplicate.
func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO reviews (user_id, room_id, booking_id, rating, comment) VALUES (?, ?, ?, ?, ?)",
		rv.UserID, rv.RoomID, rv.BookingID, rv.Rating, rv.Comment)
	if err != nil {
		return mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	err = r.db.QueryRowContext(ctx, "SELECT "+reviewColumns+" FROM reviews v WHERE v.id = ?", id).
		Scan(&rv.ID, &rv.UserID, &rv.RoomID, &rv.BookingID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt)
	return mapErr(err)
}

// ExistsForBooking reports whether the booking already has a review.
func (r *ReviewRepo) ExistsForBooking(ctx context.Context, bookingID uint64) (bool, error) {
	var n int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reviews WHERE booking_id = ?", bookingID).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListByUser returns the user's reviews, newest first, with the room
// summary joined.
func (r *ReviewRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Review, error) {
	const q = `SELECT ` + reviewColumns + `, e.title, e.city, e.difficulty, e.cover_image_url
		FROM reviews v
		JOIN escape_rooms e ON e.id = v.room_id
		WHERE v.user_id = ?
		ORDER BY v.created_at DESC, v.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Review{}
	for rows.Next() {
		var (
			rv         model.Review
			room       model.RoomSummary
			difficulty string
			cover      sql.NullString
		)
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.RoomID, &rv.BookingID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt,
			&room.Title, &room.City, &difficulty, &cover); err != nil {
			return nil, err
		}
		room.ID = rv.RoomID
		room.Difficulty = model.Difficulty(difficulty)
		if cover.Valid {
			c := cover.String
			room.CoverImageURL = &c
		}
		rv.Room = &room
		out = append(out, rv)
	}
	return out, rows.Err()
}

// ListByRoom returns a room's reviews, newest first, with the author
// name joined.
func (r *ReviewRepo) ListByRoom(ctx context.Context, roomID uint64) ([]model.Review, error) {
	const q = `SELECT ` + reviewColumns + `, u.name
		FROM reviews v
		JOIN users u ON u.id = v.user_id
		WHERE v.room_id = ?
		ORDER BY v.created_at DESC, v.id DESC`
	rows, err := r.db.QueryContext(ctx, q, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Review{}
	for rows.Next() {
		var (
			rv   model.Review
			user model.UserSummary
		)
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.RoomID, &rv.BookingID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt,
			&user.Name); err != nil {
			return nil, err
		}
		user.ID = rv.UserID
		rv.User = &user
		out = append(out, rv)
	}
	return out, rows.Err()
}
