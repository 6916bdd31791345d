package model

import "time"

// Local represents a physical escape-room venue owned by a user with the
// owner or admin role.  A local contains one or more rooms.  This struct
// corresponds to a row in the `locales` table.
type Local struct {
	ID        uint64    `json:"id"`        // locales.id
	OwnerID   uint64    `json:"ownerId"`   // locales.owner_id
	Name      string    `json:"name"`      // locales.name
	City      string    `json:"city"`      // locales.city
	Address   string    `json:"address"`   // locales.address
	CreatedAt time.Time `json:"createdAt"` // locales.created_at
	UpdatedAt time.Time `json:"updatedAt"` // locales.updated_at
}

// LocalSummary is the venue data embedded in room responses.  Address is
// only filled for single-room lookups.
type LocalSummary struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Address string `json:"address,omitempty"`
}
