package model

import "time"

// Difficulty grades an escape room.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// EscapeRoom describes a bookable room belonging to a local.  Rooms are
// never hard-deleted; IsActive=false hides them from browsing and
// blocks new bookings.
//
// Fields:
//  ID               – primary key identifier.
//  LocalID          – venue that owns the room.
//  Title            – display title.
//  Description      – long description.
//  City             – city used for browse filtering.
//  Themes           – free-form theme tags.
//  Difficulty       – easy, medium or hard.
//  DurationMin      – session length in minutes (>= 1).
//  PlayersMin       – minimum group size (>= 1).
//  PlayersMax       – maximum group size (>= PlayersMin).
//  PriceFrom        – starting price (>= 0).
//  CoverImageURL    – optional cover image.
//  GalleryImageURLs – optional gallery images.
//  IsActive         – soft-delete flag.
type EscapeRoom struct {
	ID               uint64        `json:"id"`                // escape_rooms.id
	LocalID          uint64        `json:"localId"`           // escape_rooms.local_id
	Title            string        `json:"title"`             // escape_rooms.title
	Description      string        `json:"description"`       // escape_rooms.description
	City             string        `json:"city"`              // escape_rooms.city
	Themes           []string      `json:"themes"`            // escape_rooms.themes (JSON)
	Difficulty       Difficulty    `json:"difficulty"`        // escape_rooms.difficulty
	DurationMin      int           `json:"durationMin"`       // escape_rooms.duration_min
	PlayersMin       int           `json:"playersMin"`        // escape_rooms.players_min
	PlayersMax       int           `json:"playersMax"`        // escape_rooms.players_max
	PriceFrom        float64       `json:"priceFrom"`         // escape_rooms.price_from
	CoverImageURL    *string       `json:"coverImageUrl"`     // escape_rooms.cover_image_url (nullable)
	GalleryImageURLs []string      `json:"galleryImageUrls"`  // escape_rooms.gallery_image_urls (JSON)
	IsActive         bool          `json:"isActive"`          // escape_rooms.is_active
	Local            *LocalSummary `json:"local,omitempty"`   // joined from locales on read
	CreatedAt        time.Time     `json:"createdAt"`         // escape_rooms.created_at
	UpdatedAt        time.Time     `json:"updatedAt"`         // escape_rooms.updated_at
}

// Accepts reports whether a group of n players fits the room.
func (r *EscapeRoom) Accepts(n int) bool {
	return n >= r.PlayersMin && n <= r.PlayersMax
}

// RoomSummary is the room data embedded in booking and review listings.
type RoomSummary struct {
	ID            uint64     `json:"id"`
	Title         string     `json:"title"`
	City          string     `json:"city"`
	Difficulty    Difficulty `json:"difficulty,omitempty"`
	DurationMin   int        `json:"durationMin,omitempty"`
	LocalID       uint64     `json:"localId,omitempty"`
	CoverImageURL *string    `json:"coverImageUrl,omitempty"`
}
