package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// ResetSecretBytes is the entropy of a password reset secret.
const ResetSecretBytes = 32

// NewResetSecret returns a fresh reset secret (64 hex chars) and the hash
// that is persisted in its place.
func NewResetSecret() (secret, hash string, err error) {
	secret, err = randomHex(ResetSecretBytes)
	if err != nil {
		return "", "", err
	}
	return secret, HashSecret(secret), nil
}

// HashSecret returns the hex SHA-256 digest of a raw secret.  Only the
// digest is stored so a leaked table cannot be replayed.
func HashSecret(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
