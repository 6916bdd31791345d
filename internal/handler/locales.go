package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/escape-room-booking/internal/middleware"
	"github.com/iliyamo/escape-room-booking/internal/service"
)

// LocalHandler serves /api/locales.
type LocalHandler struct {
	Catalog Catalog
}

func NewLocalHandler(catalog Catalog) *LocalHandler {
	return &LocalHandler{Catalog: catalog}
}

type localReq struct {
	Name    string `json:"name"`
	City    string `json:"city"`
	Address string `json:"address"`
}

// Create registers a venue owned by the caller.
func (h *LocalHandler) Create(c echo.Context) error {
	actor, err := middleware.MustIdentity(c)
	if err != nil {
		return respondError(c, err)
	}
	var req localReq
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	local, err := h.Catalog.CreateLocal(c.Request().Context(), actor, service.LocalInput(req))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"ok": true, "local": local})
}

// ListMine returns the caller's venues.
func (h *LocalHandler) ListMine(c echo.Context) error {
	actor, err := middleware.MustIdentity(c)
	if err != nil {
		return respondError(c, err)
	}
	locales, err := h.Catalog.ListMyLocales(c.Request().Context(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "locales": locales})
}
