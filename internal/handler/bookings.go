package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/escape-room-booking/internal/authz"
	"github.com/iliyamo/escape-room-booking/internal/middleware"
	"github.com/iliyamo/escape-room-booking/internal/model"
	"github.com/iliyamo/escape-room-booking/internal/service"
)

// BookingHandler serves /api/bookings for customers and
// /api/owner/bookings for venue owners.
type BookingHandler struct {
	Bookings Bookings
}

func NewBookingHandler(b Bookings) *BookingHandler {
	return &BookingHandler{Bookings: b}
}

type createBookingReq struct {
	RoomID      uint64 `json:"roomId"`
	ScheduledAt string `json:"scheduledAt"`
	Players     int    `json:"players"`
}

// Create books a room slot in status pending.
func (h *BookingHandler) Create(c echo.Context) error {
	actor, err := middleware.MustIdentity(c)
	if err != nil {
		return respondError(c, err)
	}
	var req createBookingReq
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	b, err := h.Bookings.Create(ctx, actor, service.CreateBookingInput(req))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"ok": true, "booking": b})
}

// ListMine returns the caller's bookings, newest slot first.
func (h *BookingHandler) ListMine(c echo.Context) error {
	actor, err := middleware.MustIdentity(c)
	if err != nil {
		return respondError(c, err)
	}
	list, err := h.Bookings.ListMine(c.Request().Context(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "bookings": list})
}

// Cancel lets a customer cancel their own pending booking.
func (h *BookingHandler) Cancel(c echo.Context) error {
	return h.transition(c, h.Bookings.CancelByUser)
}

// OwnerList returns bookings of the caller's rooms, optionally filtered
// by ?status=.  Admins see every venue.
func (h *BookingHandler) OwnerList(c echo.Context) error {
	actor, err := middleware.MustIdentity(c)
	if err != nil {
		return respondError(c, err)
	}
	list, err := h.Bookings.ListForOwner(c.Request().Context(), actor, c.QueryParam("status"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "bookings": list})
}

// Confirm moves pending -> confirmed.
func (h *BookingHandler) Confirm(c echo.Context) error {
	return h.transition(c, h.Bookings.Confirm)
}

// Complete moves confirmed -> completed.
func (h *BookingHandler) Complete(c echo.Context) error {
	return h.transition(c, h.Bookings.Complete)
}

// OwnerCancel cancels a pending or confirmed booking of the caller's room.
func (h *BookingHandler) OwnerCancel(c echo.Context) error {
	return h.transition(c, h.Bookings.CancelByOwner)
}

type transitionFunc func(ctx context.Context, actor authz.Identity, id uint64) (*model.Booking, error)

func (h *BookingHandler) transition(c echo.Context, fn transitionFunc) error {
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

	b, err := fn(ctx, actor, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "booking": b})
}
