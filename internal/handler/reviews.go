package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/escape-room-booking/internal/middleware"
	"github.com/iliyamo/escape-room-booking/internal/service"
)

// ReviewHandler serves /api/reviews.
type ReviewHandler struct {
	Reviews Reviews
}

func NewReviewHandler(r Reviews) *ReviewHandler {
	return &ReviewHandler{Reviews: r}
}

type createReviewReq struct {
	BookingID uint64 `json:"bookingId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// Create reviews a completed booking of the caller.
func (h *ReviewHandler) Create(c echo.Context) error {
	actor, err := middleware.MustIdentity(c)
	if err != nil {
		return respondError(c, err)
	}
	var req createReviewReq
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	r, err := h.Reviews.Create(c.Request().Context(), actor, service.CreateReviewInput(req))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"ok": true, "review": r})
}

// ListMine returns the caller's reviews.
func (h *ReviewHandler) ListMine(c echo.Context) error {
	actor, err := middleware.MustIdentity(c)
	if err != nil {
		return respondError(c, err)
	}
	list, err := h.Reviews.ListMine(c.Request().Context(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "reviews": list})
}
