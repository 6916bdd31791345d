package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/escape-room-booking/internal/apperr"
	"github.com/iliyamo/escape-room-booking/internal/middleware"
	"github.com/iliyamo/escape-room-booking/internal/service"
)

// RoomHandler serves /api/rooms: public browsing plus owner management.
type RoomHandler struct {
	Catalog Catalog
	Reviews Reviews
}

func NewRoomHandler(catalog Catalog, reviews Reviews) *RoomHandler {
	return &RoomHandler{Catalog: catalog, Reviews: reviews}
}

type roomReq struct {
	LocalID          uint64   `json:"localId"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	City             string   `json:"city"`
	Themes           []string `json:"themes"`
	Difficulty       string   `json:"difficulty"`
	DurationMin      *int     `json:"durationMin"`
	PlayersMin       *int     `json:"playersMin"`
	PlayersMax       *int     `json:"playersMax"`
	PriceFrom        *float64 `json:"priceFrom"`
	CoverImageURL    *string  `json:"coverImageUrl"`
	GalleryImageURLs []string `json:"galleryImageUrls"`
}

type roomPatchReq struct {
	Title            *string   `json:"title"`
	Description      *string   `json:"description"`
	City             *string   `json:"city"`
	Themes           *[]string `json:"themes"`
	Difficulty       *string   `json:"difficulty"`
	DurationMin      *int      `json:"durationMin"`
	PlayersMin       *int      `json:"playersMin"`
	PlayersMax       *int      `json:"playersMax"`
	PriceFrom        *float64  `json:"priceFrom"`
	CoverImageURL    *string   `json:"coverImageUrl"`
	GalleryImageURLs *[]string `json:"galleryImageUrls"`
	IsActive         *bool     `json:"isActive"`
}

// List serves GET /api/rooms?city=&difficulty=&theme=&sort=&page=&limit=.
func (h *RoomHandler) List(c echo.Context) error {
	page, err := queryInt(c, "page")
	if err != nil {
		return respondError(c, err)
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	res, err := h.Catalog.ListRooms(ctx, service.RoomFilter{
		City:       c.QueryParam("city"),
		Difficulty: c.QueryParam("difficulty"),
		Theme:      c.QueryParam("theme"),
		Sort:       c.QueryParam("sort"),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"ok":    true,
		"page":  res.Page,
		"limit": res.Limit,
		"total": res.Total,
		"pages": res.Pages,
		"rooms": res.Rooms,
	})
}

// Get serves GET /api/rooms/:id.
func (h *RoomHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	room, err := h.Catalog.GetRoom(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "room": room})
}

// ListReviews serves GET /api/rooms/:id/reviews.
func (h *RoomHandler) ListReviews(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	reviews, err := h.Reviews.ListByRoom(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "reviews": reviews})
}

// Create serves POST /api/rooms.
func (h *RoomHandler) Create(c echo.Context) error {
	actor, err := middleware.MustIdentity(c)
	if err != nil {
		return respondError(c, err)
	}
	var req roomReq
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	room, err := h.Catalog.CreateRoom(ctx, actor, service.RoomInput{
		LocalID:          req.LocalID,
		Title:            req.Title,
		Description:      req.Description,
		City:             req.City,
		Themes:           req.Themes,
		Difficulty:       req.Difficulty,
		DurationMin:      req.DurationMin,
		PlayersMin:       req.PlayersMin,
		PlayersMax:       req.PlayersMax,
		PriceFrom:        req.PriceFrom,
		CoverImageURL:    req.CoverImageURL,
		GalleryImageURLs: req.GalleryImageURLs,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"ok": true, "room": room})
}

// Update serves PUT /api/rooms/:id.  Absent fields are left unchanged.
func (h *RoomHandler) Update(c echo.Context) error {
	actor, err := middleware.MustIdentity(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req roomPatchReq
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	room, err := h.Catalog.UpdateRoom(ctx, actor, id, service.RoomPatch(req))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "room": room})
}

// Delete serves DELETE /api/rooms/:id.  Rooms are deactivated, never
// removed.
func (h *RoomHandler) Delete(c echo.Context) error {
	actor, err := middleware.MustIdentity(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	if err := h.Catalog.DeleteRoom(ctx, actor, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "message": "room deleted"})
}

func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation(name + " must be an integer")
	}
	return n, nil
}
