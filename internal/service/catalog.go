package service

import (
	"context"
	"math"
	"strings"

	"github.com/iliyamo/escape-room-booking/internal/apperr"
	"github.com/iliyamo/escape-room-booking/internal/authz"
	"github.com/iliyamo/escape-room-booking/internal/model"
	"github.com/iliyamo/escape-room-booking/internal/repository"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// LocalInput is the payload of createLocal.
type LocalInput struct {
	Name    string
	City    string
	Address string
}

// RoomInput is the payload of createRoom.  Pointer fields distinguish
// "missing" from zero.
type RoomInput struct {
	LocalID          uint64
	Title            string
	Description      string
	City             string
	Themes           []string
	Difficulty       string
	DurationMin      *int
	PlayersMin       *int
	PlayersMax       *int
	PriceFrom        *float64
	CoverImageURL    *string
	GalleryImageURLs []string
}

// RoomPatch is the payload of updateRoom; nil fields are left unchanged.
type RoomPatch struct {
	Title            *string
	Description      *string
	City             *string
	Themes           *[]string
	Difficulty       *string
	DurationMin      *int
	PlayersMin       *int
	PlayersMax       *int
	PriceFrom        *float64
	CoverImageURL    *string
	GalleryImageURLs *[]string
	IsActive         *bool
}

// RoomFilter is the public listing query before validation.
type RoomFilter struct {
	City       string
	Difficulty string
	Theme      string
	Sort       string
	Page       int
	Limit      int
}

// RoomPage is one page of the public listing.
type RoomPage struct {
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
	Total int64              `json:"total"`
	Pages int                `json:"pages"`
	Rooms []model.EscapeRoom `json:"rooms"`
}

// CatalogService is the venue and room registry.
type CatalogService struct {
	locals LocalStore
	rooms  RoomStore
}

func NewCatalogService(locals LocalStore, rooms RoomStore) *CatalogService {
	return &CatalogService{locals: locals, rooms: rooms}
}

// CreateLocal creates a venue owned by the caller.
func (s *CatalogService) CreateLocal(ctx context.Context, actor authz.Identity, in LocalInput) (*model.Local, error) {
	l := &model.Local{
		OwnerID: actor.ID,
		Name:    strings.TrimSpace(in.Name),
		City:    strings.TrimSpace(in.City),
		Address: strings.TrimSpace(in.Address),
	}
	if l.Name == "" || l.City == "" || l.Address == "" {
		return nil, apperr.Validation("name, city and address are required")
	}
	if err := s.locals.Create(ctx, l); err != nil {
		return nil, apperr.Internal("create local", err)
	}
	return l, nil
}

// ListMyLocales lists the caller's venues, newest first.
func (s *CatalogService) ListMyLocales(ctx context.Context, actor authz.Identity) ([]model.Local, error) {
	out, err := s.locals.ListByOwner(ctx, actor.ID)
	if err != nil {
		return nil, apperr.Internal("list locales", err)
	}
	return out, nil
}

// ListRooms returns one page of active rooms.
func (s *CatalogService) ListRooms(ctx context.Context, f RoomFilter) (*RoomPage, error) {
	q := repository.RoomQuery{
		City:  strings.TrimSpace(f.City),
		Theme: strings.TrimSpace(f.Theme),
		Sort:  repository.RoomSort(f.Sort),
		Page:  f.Page,
		Limit: f.Limit,
	}
	if f.Difficulty != "" {
		d := model.Difficulty(f.Difficulty)
		if !d.Valid() {
			return nil, apperr.Validation("difficulty must be easy, medium or hard")
		}
		q.Difficulty = d
	}
	if q.Sort == "" {
		q.Sort = repository.SortNewest
	}
	if !q.Sort.Valid() {
		return nil, apperr.Validation("sort must be new, old, priceAsc or priceDesc")
	}
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = DefaultPageLimit
	}
	if q.Page < 1 {
		return nil, apperr.Validation("page must be >= 1")
	}
	if q.Limit < 1 || q.Limit > MaxPageLimit {
		return nil, apperr.Validation("limit must be between 1 and 100")
	}

	rooms, total, err := s.rooms.Search(ctx, q)
	if err != nil {
		return nil, apperr.Internal("search rooms", err)
	}
	return &RoomPage{
		Page:  q.Page,
		Limit: q.Limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(q.Limit))),
		Rooms: rooms,
	}, nil
}

// GetRoom returns an active room.  Inactive rooms are NotFound.
func (s *CatalogService) GetRoom(ctx context.Context, id uint64) (*model.EscapeRoom, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "room not found", "load room")
	}
	if !room.IsActive {
		return nil, apperr.NotFound("room not found")
	}
	return room, nil
}

// CreateRoom adds a room to a venue the caller owns (any venue for admins).
func (s *CatalogService) CreateRoom(ctx context.Context, actor authz.Identity, in RoomInput) (*model.EscapeRoom, error) {
	if in.LocalID == 0 || strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" ||
		strings.TrimSpace(in.City) == "" || in.Difficulty == "" ||
		in.DurationMin == nil || in.PlayersMin == nil || in.PlayersMax == nil || in.PriceFrom == nil {
		return nil, apperr.Validation("missing required fields")
	}
	room := &model.EscapeRoom{
		LocalID:          in.LocalID,
		Title:            strings.TrimSpace(in.Title),
		Description:      strings.TrimSpace(in.Description),
		City:             strings.TrimSpace(in.City),
		Themes:           cleanSet(in.Themes),
		Difficulty:       model.Difficulty(in.Difficulty),
		DurationMin:      *in.DurationMin,
		PlayersMin:       *in.PlayersMin,
		PlayersMax:       *in.PlayersMax,
		PriceFrom:        *in.PriceFrom,
		CoverImageURL:    blankToNil(in.CoverImageURL),
		GalleryImageURLs: cleanList(in.GalleryImageURLs),
		IsActive:         true,
	}
	if err := validateRoom(room); err != nil {
		return nil, err
	}

	local, err := s.locals.GetByID(ctx, in.LocalID)
	if err != nil {
		return nil, notFoundOr(err, "local not found", "load local")
	}
	if !canManage(actor, local.OwnerID) {
		return nil, apperr.Forbidden("you cannot add rooms to a local you do not own")
	}

	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, apperr.Internal("create room", err)
	}
	return room, nil
}

// UpdateRoom applies patch.  The merged room is validated as a whole and
// the owning venue cannot change.
func (s *CatalogService) UpdateRoom(ctx context.Context, actor authz.Identity, id uint64, patch RoomPatch) (*model.EscapeRoom, error) {
	room, err := s.manageableRoom(ctx, actor, id, "you cannot edit rooms you do not own")
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		room.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		room.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.City != nil {
		room.City = strings.TrimSpace(*patch.City)
	}
	if patch.Themes != nil {
		room.Themes = cleanSet(*patch.Themes)
	}
	if patch.Difficulty != nil {
		room.Difficulty = model.Difficulty(*patch.Difficulty)
	}
	if patch.DurationMin != nil {
		room.DurationMin = *patch.DurationMin
	}
	if patch.PlayersMin != nil {
		room.PlayersMin = *patch.PlayersMin
	}
	if patch.PlayersMax != nil {
		room.PlayersMax = *patch.PlayersMax
	}
	if patch.PriceFrom != nil {
		room.PriceFrom = *patch.PriceFrom
	}
	if patch.CoverImageURL != nil {
		room.CoverImageURL = blankToNil(patch.CoverImageURL)
	}
	if patch.GalleryImageURLs != nil {
		room.GalleryImageURLs = cleanList(*patch.GalleryImageURLs)
	}
	if patch.IsActive != nil {
		room.IsActive = *patch.IsActive
	}
	if room.Title == "" || room.Description == "" || room.City == "" {
		return nil, apperr.Validation("title, description and city cannot be empty")
	}
	if err := validateRoom(room); err != nil {
		return nil, err
	}

	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, apperr.Internal("update room", err)
	}
	return room, nil
}

// DeleteRoom soft-deletes a room.
func (s *CatalogService) DeleteRoom(ctx context.Context, actor authz.Identity, id uint64) error {
	if _, err := s.manageableRoom(ctx, actor, id, "you cannot delete rooms you do not own"); err != nil {
		return err
	}
	if err := s.rooms.Deactivate(ctx, id); err != nil {
		return notFoundOr(err, "room not found", "deactivate room")
	}
	return nil
}

// manageableRoom loads a room and checks that actor may change it,
// following room -> local -> owner.
func (s *CatalogService) manageableRoom(ctx context.Context, actor authz.Identity, id uint64, denied string) (*model.EscapeRoom, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "room not found", "load room")
	}
	local, err := s.locals.GetByID(ctx, room.LocalID)
	if err != nil {
		return nil, notFoundOr(err, "local not found", "load local")
	}
	if !canManage(actor, local.OwnerID) {
		return nil, apperr.Forbidden(denied)
	}
	return room, nil
}

func validateRoom(r *model.EscapeRoom) error {
	switch {
	case !r.Difficulty.Valid():
		return apperr.Validation("difficulty must be easy, medium or hard")
	case r.DurationMin < 1:
		return apperr.Validation("durationMin must be >= 1")
	case r.PlayersMin < 1:
		return apperr.Validation("playersMin must be >= 1")
	case r.PlayersMax < r.PlayersMin:
		return apperr.Validation("playersMax must be >= playersMin")
	case r.PriceFrom < 0 || math.IsNaN(r.PriceFrom) || math.IsInf(r.PriceFrom, 0):
		return apperr.Validation("priceFrom must be >= 0")
	}
	return nil
}

// canManage is the venue ownership rule: admins manage everything, owners
// their own venues.
func canManage(actor authz.Identity, ownerID uint64) bool {
	return actor.IsAdmin() || actor.ID == ownerID
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// cleanSet is cleanList without repeats; first occurrence wins.
func cleanSet(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range cleanList(in) {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
