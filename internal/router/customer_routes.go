package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/escape-room-booking/internal/authz"
	"github.com/iliyamo/escape-room-booking/internal/handler"
	"github.com/iliyamo/escape-room-booking/internal/middleware"
)

// RegisterCustomer registers endpoints any signed-in user may call:
// booking a room, listing and cancelling their bookings, and reviewing
// completed sessions.
func RegisterCustomer(e *echo.Echo, b *handler.BookingHandler, v *handler.ReviewHandler, gate *authz.Gate) {
	g := e.Group("/api")
	jwt := middleware.JWTAuth(gate)

	g.POST("/bookings", b.Create, jwt, middleware.Require(authz.OpCreateBooking))
	g.GET("/bookings/mine", b.ListMine, jwt, middleware.Require(authz.OpListMyBookings))
	g.PATCH("/bookings/:id/cancel", b.Cancel, jwt, middleware.Require(authz.OpCancelMyBooking))

	g.POST("/reviews", v.Create, jwt, middleware.Require(authz.OpCreateReview))
	g.GET("/reviews/mine", v.ListMine, jwt, middleware.Require(authz.OpListMyReviews))
}
