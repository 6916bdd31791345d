package model

import "time"

// PasswordResetToken models an entry in the `password_reset_tokens`
// table.  Only the SHA-256 hash of the secret is stored.  A token is
// active while UsedAt is nil and ExpiresAt is in the future.
type PasswordResetToken struct {
	ID        uint64     // password_reset_tokens.id
	UserID    uint64     // password_reset_tokens.user_id
	TokenHash string     // password_reset_tokens.token_hash
	ExpiresAt time.Time  // password_reset_tokens.expires_at
	UsedAt    *time.Time // password_reset_tokens.used_at (nullable)
	CreatedAt time.Time  // password_reset_tokens.created_at
}

// Active reports whether the token can still be consumed at now.
func (t *PasswordResetToken) Active(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}
