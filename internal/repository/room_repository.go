package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iliyamo/escape-room-booking/internal/model"
)

// RoomSort selects the ordering of a room search.
type RoomSort string

const (
	SortNewest    RoomSort = "new"
	SortOldest    RoomSort = "old"
	SortPriceAsc  RoomSort = "priceAsc"
	SortPriceDesc RoomSort = "priceDesc"
)

// Valid reports whether s is a known ordering.
func (s RoomSort) Valid() bool {
	switch s {
	case SortNewest, SortOldest, SortPriceAsc, SortPriceDesc:
		return true
	}
	return false
}

func (s RoomSort) orderBy() string {
	switch s {
	case SortOldest:
		return "r.created_at ASC, r.id ASC"
	case SortPriceAsc:
		return "r.price_from ASC, r.id ASC"
	case SortPriceDesc:
		return "r.price_from DESC, r.id DESC"
	}
	return "r.created_at DESC, r.id DESC"
}

// RoomQuery defines filters & pagination for the public room listing.
// Only active rooms are ever returned.
type RoomQuery struct {
	City       string
	Difficulty model.Difficulty
	Theme      string
	Sort       RoomSort
	Page       int
	Limit      int
}

const roomSelect = `SELECT
		r.id, r.local_id, r.title, r.description, r.city, r.themes, r.difficulty,
		r.duration_min, r.players_min, r.players_max, r.price_from,
		r.cover_image_url, r.gallery_image_urls, r.is_active, r.created_at, r.updated_at,
		l.name, l.city, l.address
	FROM escape_rooms r
	JOIN locales l ON l.id = r.local_id`

// RoomRepo stores escape rooms.  Themes and gallery URLs are JSON arrays.
type RoomRepo struct {
	db *sql.DB
}

func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// Create inserts a room and reads it back with its venue joined.
func (r *RoomRepo) Create(ctx context.Context, room *model.EscapeRoom) error {
	themes, gallery, err := encodeRoomLists(room)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `INSERT INTO escape_rooms
		(local_id, title, description, city, themes, difficulty, duration_min,
		 players_min, players_max, price_from, cover_image_url, gallery_image_urls, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		room.LocalID, room.Title, room.Description, room.City, themes, string(room.Difficulty),
		room.DurationMin, room.PlayersMin, room.PlayersMax, room.PriceFrom,
		room.CoverImageURL, gallery, room.IsActive)
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
	*room = *created
	return nil
}

// GetByID returns a room whether active or not; callers decide visibility.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.EscapeRoom, error) {
	row := r.db.QueryRowContext(ctx, roomSelect+" WHERE r.id = ?", id)
	room, err := scanRoom(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return room, nil
}

// Update writes every mutable column of room.  local_id is never changed.
func (r *RoomRepo) Update(ctx context.Context, room *model.EscapeRoom) error {
	themes, gallery, err := encodeRoomLists(room)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `UPDATE escape_rooms SET
		title = ?, description = ?, city = ?, themes = ?, difficulty = ?, duration_min = ?,
		players_min = ?, players_max = ?, price_from = ?, cover_image_url = ?,
		gallery_image_urls = ?, is_active = ?
		WHERE id = ?`,
		room.Title, room.Description, room.City, themes, string(room.Difficulty), room.DurationMin,
		room.PlayersMin, room.PlayersMax, room.PriceFrom, room.CoverImageURL,
		gallery, room.IsActive, room.ID)
	if err != nil {
		return mapErr(err)
	}
	updated, err := r.GetByID(ctx, room.ID)
	if err != nil {
		return err
	}
	*room = *updated
	return nil
}

// Deactivate soft-deletes a room.
func (r *RoomRepo) Deactivate(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "UPDATE escape_rooms SET is_active = 0 WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// zero rows also means "already inactive"; tell the two apart
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Search returns one page of active rooms matching q and the total
// number of matches.
func (r *RoomRepo) Search(ctx context.Context, q RoomQuery) ([]model.EscapeRoom, int64, error) {
	where := []string{"r.is_active = 1"}
	args := []any{}

	if q.City != "" {
		where = append(where, "r.city = ?")
		args = append(args, q.City)
	}
	if q.Difficulty != "" {
		where = append(where, "r.difficulty = ?")
		args = append(args, string(q.Difficulty))
	}
	if q.Theme != "" {
		where = append(where, "JSON_CONTAINS(r.themes, JSON_QUOTE(?))")
		args = append(args, q.Theme)
	}
	cond := strings.Join(where, " AND ")

	var total int64
	countSQL := "SELECT COUNT(*) FROM escape_rooms r WHERE " + cond
	if err := r.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := q.Limit
	offset := (q.Page - 1) * q.Limit
	dataSQL := fmt.Sprintf("%s WHERE %s ORDER BY %s LIMIT ? OFFSET ?", roomSelect, cond, q.Sort.orderBy())
	argsData := append(append([]any{}, args...), limit, offset)

	rows, err := r.db.QueryContext(ctx, dataSQL, argsData...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.EscapeRoom, 0, limit)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, 0, err
		}
		// browse results only carry the venue name and city
		room.Local.Address = ""
		out = append(out, *room)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// OwnerOf resolves room -> local -> owner for permission checks.
func (r *RoomRepo) OwnerOf(ctx context.Context, roomID uint64) (uint64, error) {
	var owner uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT l.owner_id FROM escape_rooms r JOIN locales l ON l.id = r.local_id WHERE r.id = ?",
		roomID).Scan(&owner)
	if err != nil {
		return 0, mapErr(err)
	}
	return owner, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(s rowScanner) (*model.EscapeRoom, error) {
	var (
		room       model.EscapeRoom
		local      model.LocalSummary
		themes     []byte
		gallery    []byte
		difficulty string
		cover      sql.NullString
	)
	err := s.Scan(
		&room.ID, &room.LocalID, &room.Title, &room.Description, &room.City, &themes, &difficulty,
		&room.DurationMin, &room.PlayersMin, &room.PlayersMax, &room.PriceFrom,
		&cover, &gallery, &room.IsActive, &room.CreatedAt, &room.UpdatedAt,
		&local.Name, &local.City, &local.Address,
	)
	if err != nil {
		return nil, err
	}
	room.Difficulty = model.Difficulty(difficulty)
	if cover.Valid {
		c := cover.String
		room.CoverImageURL = &c
	}
	if room.Themes, err = decodeList(themes); err != nil {
		return nil, fmt.Errorf("decode themes of room %d: %w", room.ID, err)
	}
	if room.GalleryImageURLs, err = decodeList(gallery); err != nil {
		return nil, fmt.Errorf("decode gallery of room %d: %w", room.ID, err)
	}
	local.ID = room.LocalID
	room.Local = &local
	return &room, nil
}

func encodeRoomLists(room *model.EscapeRoom) (themes, gallery []byte, err error) {
	if themes, err = encodeList(room.Themes); err != nil {
		return nil, nil, err
	}
	if gallery, err = encodeList(room.GalleryImageURLs); err != nil {
		return nil, nil, err
	}
	return themes, gallery, nil
}

func encodeList(v []string) ([]byte, error) {
	if v == nil {
		v = []string{}
	}
	return json.Marshal(v)
}

func decodeList(b []byte) ([]string, error) {
	out := []string{}
	if len(b) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
