package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/escape-room-booking/internal/model"
)

const bookingColumns = "b.id, b.user_id, b.room_id, b.scheduled_at, b.players, b.status, b.created_at, b.updated_at"

// BookingRepo provides storage for bookings.  The overlap rule (one
// pending or confirmed booking per room and instant) is enforced by the
// uq_bookings_active_slot index, so Create can race safely.
type BookingRepo struct {
	db *sql.DB
}

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// Create inserts b as given (normally pending).  An overlapping active
// booking yields ErrDuplicate.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO bookings (user_id, room_id, scheduled_at, players, status) VALUES (?, ?, ?, ?, ?)",
		b.UserID, b.RoomID, b.ScheduledAt, b.Players, string(b.Status))
	if err != nil {
		return mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*b = *created
	return nil
}

// HasActive reports whether a pending or confirmed booking holds the slot.
// It is only an early answer; the unique index is authoritative.
func (r *BookingRepo) HasActive(ctx context.Context, roomID uint64, at time.Time) (bool, error) {
	active := model.ActiveStatuses()
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(active)), ",")
	args := []any{roomID, at}
	for _, s := range active {
		args = append(args, string(s))
	}
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bookings WHERE room_id = ? AND scheduled_at = ? AND status IN ("+placeholders+")",
		args...).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetByID fetches a booking without joins.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	var (
		b      model.Booking
		status string
	)
	err := r.db.QueryRowContext(ctx, "SELECT "+bookingColumns+" FROM bookings b WHERE b.id = ?", id).
		Scan(&b.ID, &b.UserID, &b.RoomID, &b.ScheduledAt, &b.Players, &status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	b.Status = model.BookingStatus(status)
	return &b, nil
}

// Transition moves booking id to status `to` only if its current status is
// one of `from`.  A miss returns ErrStaleState: the row changed between the
// caller's read and this write.
func (r *BookingRepo) Transition(ctx context.Context, id uint64, to model.BookingStatus, from ...model.BookingStatus) error {
	if len(from) == 0 {
		return ErrStaleState
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(from)), ",")
	args := []any{string(to), id}
	for _, s := range from {
		args = append(args, string(s))
	}
	res, err := r.db.ExecContext(ctx,
		"UPDATE bookings SET status = ? WHERE id = ? AND status IN ("+placeholders+")", args...)
	if err != nil {
		return mapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrStaleState
	}
	return nil
}

// ListByUser returns the user's bookings, newest first, with the room
// summary joined.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + `,
			e.title, e.city, e.difficulty, e.duration_min, e.local_id
		FROM bookings b
		JOIN escape_rooms e ON e.id = b.room_id
		WHERE b.user_id = ?
		ORDER BY b.created_at DESC, b.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Booking{}
	for rows.Next() {
		var (
			b          model.Booking
			room       model.RoomSummary
			status     string
			difficulty string
		)
		if err := rows.Scan(&b.ID, &b.UserID, &b.RoomID, &b.ScheduledAt, &b.Players, &status, &b.CreatedAt, &b.UpdatedAt,
			&room.Title, &room.City, &difficulty, &room.DurationMin, &room.LocalID); err != nil {
			return nil, err
		}
		b.Status = model.BookingStatus(status)
		room.ID = b.RoomID
		room.Difficulty = model.Difficulty(difficulty)
		b.Room = &room
		out = append(out, b)
	}
	return out, rows.Err()
}

// OwnerBookingQuery scopes an owner listing.  A nil OwnerID lists every
// venue; an empty Status lists every status.
type OwnerBookingQuery struct {
	OwnerID *uint64
	Status  model.BookingStatus
}

// ListForOwner returns bookings on rooms of the owner's venues, newest
// first, with the customer and room joined.
func (r *BookingRepo) ListForOwner(ctx context.Context, q OwnerBookingQuery) ([]model.Booking, error) {
	where := []string{"1=1"}
	args := []any{}
	if q.OwnerID != nil {
		where = append(where, "l.owner_id = ?")
		args = append(args, *q.OwnerID)
	}
	if q.Status != "" {
		where = append(where, "b.status = ?")
		args = append(args, string(q.Status))
	}

	query := `SELECT ` + bookingColumns + `,
			u.name, u.email, u.role,
			e.title, e.city, e.local_id
		FROM bookings b
		JOIN escape_rooms e ON e.id = b.room_id
		JOIN locales l      ON l.id = e.local_id
		JOIN users u        ON u.id = b.user_id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY b.created_at DESC, b.id DESC`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Booking{}
	for rows.Next() {
		var (
			b      model.Booking
			user   model.UserSummary
			room   model.RoomSummary
			status string
			role   string
		)
		if err := rows.Scan(&b.ID, &b.UserID, &b.RoomID, &b.ScheduledAt, &b.Players, &status, &b.CreatedAt, &b.UpdatedAt,
			&user.Name, &user.Email, &role,
			&room.Title, &room.City, &room.LocalID); err != nil {
			return nil, err
		}
		b.Status = model.BookingStatus(status)
		user.ID = b.UserID
		user.Role = model.Role(role)
		room.ID = b.RoomID
		b.User = &user
		b.Room = &room
		out = append(out, b)
	}
	return out, rows.Err()
}
