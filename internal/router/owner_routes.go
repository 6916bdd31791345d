package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/escape-room-booking/internal/authz"
	"github.com/iliyamo/escape-room-booking/internal/config"
	"github.com/iliyamo/escape-room-booking/internal/handler"
	"github.com/iliyamo/escape-room-booking/internal/middleware"
)

// RegisterOwner registers venue management endpoints.  All routes require
// a valid JWT and the owner or admin role; whether the caller owns the
// venue is decided by the services.  Room writes invalidate the public
// room cache.
func RegisterOwner(e *echo.Echo, r *handler.RoomHandler, l *handler.LocalHandler, b *handler.BookingHandler, gate *authz.Gate, cache config.CacheConfig, rdb Redis) {
	g := e.Group("/api")
	jwt := middleware.JWTAuth(gate)
	invalidate := middleware.NewCacheInvalidator(cache, cacheStore(rdb))

	g.POST("/locales", l.Create, jwt, middleware.Require(authz.OpCreateLocal))
	g.GET("/locales/mine", l.ListMine, jwt, middleware.Require(authz.OpListMyLocales))

	g.POST("/rooms", r.Create, jwt, middleware.Require(authz.OpCreateRoom), invalidate)
	g.PUT("/rooms/:id", r.Update, jwt, middleware.Require(authz.OpUpdateRoom), invalidate)
	g.DELETE("/rooms/:id", r.Delete, jwt, middleware.Require(authz.OpDeleteRoom), invalidate)

	g.GET("/owner/bookings", b.OwnerList, jwt, middleware.Require(authz.OpListOwnerBookings))
	g.PATCH("/owner/bookings/:id/confirm", b.Confirm, jwt, middleware.Require(authz.OpConfirmBooking))
	g.PATCH("/owner/bookings/:id/complete", b.Complete, jwt, middleware.Require(authz.OpCompleteBooking))
	g.PATCH("/owner/bookings/:id/cancel", b.OwnerCancel, jwt, middleware.Require(authz.OpCancelBookingAsOwner))
}
