package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/escape-room-booking/internal/model"
)

const localColumns = "id, owner_id, name, city, address, created_at, updated_at"

// LocalRepo encapsulates all database queries related to venues.
type LocalRepo struct {
	db *sql.DB
}

func NewLocalRepo(db *sql.DB) *LocalRepo {
	return &LocalRepo{db: db}
}

// Create inserts a new venue and re-reads it so timestamps are filled.
func (r *LocalRepo) Create(ctx context.Context, l *model.Local) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO locales (owner_id, name, city, address) VALUES (?, ?, ?, ?)",
		l.OwnerID, l.Name, l.City, l.Address)
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
	*l = *created
	return nil
}

// GetByID fetches a venue regardless of owner.
func (r *LocalRepo) GetByID(ctx context.Context, id uint64) (*model.Local, error) {
	var l model.Local
	err := r.db.QueryRowContext(ctx,
		"SELECT "+localColumns+" FROM locales WHERE id = ?", id).
		Scan(&l.ID, &l.OwnerID, &l.Name, &l.City, &l.Address, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &l, nil
}

// ListByOwner returns the owner's venues, newest first.
func (r *LocalRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Local, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+localColumns+" FROM locales WHERE owner_id = ? ORDER BY created_at DESC, id DESC", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Local{}
	for rows.Next() {
		var l model.Local
		if err := rows.Scan(&l.ID, &l.OwnerID, &l.Name, &l.City, &l.Address, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
