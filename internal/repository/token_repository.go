package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/escape-room-booking/internal/model"
)

// ResetTokenRepo is the password reset ledger (`password_reset_tokens`).
// Only SHA-256 hashes of reset secrets are stored.
type ResetTokenRepo struct{ DB *sql.DB }

func NewResetTokenRepo(db *sql.DB) *ResetTokenRepo { return &ResetTokenRepo{DB: db} }

// Issue invalidates every active token of the user and stores a new one,
// all in one transaction.  The user row is locked first so two concurrent
// requests for the same user serialise and at most one token stays active.
func (r *ResetTokenRepo) Issue(ctx context.Context, userID uint64, tokenHash string, expiresAt, now time.Time) (*model.PasswordResetToken, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer rollback(tx, &committed)

	var locked uint64
	if err := tx.QueryRowContext(ctx,
		"SELECT id FROM users WHERE id=? FOR UPDATE", userID).Scan(&locked); err != nil {
		return nil, mapErr(err)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE password_reset_tokens SET used_at=? WHERE user_id=? AND used_at IS NULL AND expires_at > ?",
		now, userID, now); err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO password_reset_tokens (user_id, token_hash, expires_at, created_at) VALUES (?,?,?,?)",
		userID, tokenHash, expiresAt, now)
	if err != nil {
		return nil, mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return &model.PasswordResetToken{
		ID:        uint64(id),
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}, nil
}

// Consume sets the user's password hash and marks the token used in one
// transaction.  Unknown hashes return ErrNotFound; used or expired tokens
// return ErrStaleState.  On any error nothing is written.
func (r *ResetTokenRepo) Consume(ctx context.Context, tokenHash, passwordHash string, now time.Time) (uint64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer rollback(tx, &committed)

	var (
		tok    model.PasswordResetToken
		usedAt sql.NullTime
	)
	err = tx.QueryRowContext(ctx,
		"SELECT id, user_id, expires_at, used_at FROM password_reset_tokens WHERE token_hash=? LIMIT 1 FOR UPDATE",
		tokenHash).Scan(&tok.ID, &tok.UserID, &tok.ExpiresAt, &usedAt)
	if err != nil {
		return 0, mapErr(err)
	}
	if usedAt.Valid {
		tok.UsedAt = &usedAt.Time
	}
	if !tok.Active(now) {
		return 0, ErrStaleState
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE users SET password_hash=? WHERE id=?", passwordHash, tok.UserID); err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE password_reset_tokens SET used_at=? WHERE id=?", now, tok.ID); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return tok.UserID, nil
}
