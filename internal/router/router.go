package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/escape-room-booking/internal/authz"
	"github.com/iliyamo/escape-room-booking/internal/config"
	"github.com/iliyamo/escape-room-booking/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/escape-room-booking/internal/metrics"    // prometheus scrape endpoint
	"github.com/iliyamo/escape-room-booking/internal/middleware" // JWT authentication, role policy, limiter
)

// RegisterRoutes registers the operational endpoints: a health check that
// pings the database and the Prometheus scrape handler.
func RegisterRoutes(e *echo.Echo, db handler.Pinger, m *metrics.Metrics) {
	e.GET("/health", handler.Health(db))
	if m != nil {
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}
}

// RegisterAuth registers the credential endpoints under /api/auth.  The
// unauthenticated ones share the stricter limiter since they are the
// targets of credential stuffing and reset-mail flooding.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, gate *authz.Gate, limit config.RateLimitConfig, rdb Redis) {
	g := e.Group("/api/auth")
	strict := middleware.NewTokenBucket(limit, scripter(rdb))

	g.POST("/register", a.Register, strict)
	g.POST("/login", a.Login, strict)
	g.POST("/forgot-password", a.ForgotPassword, strict)
	g.POST("/reset-password", a.ResetPassword, strict)

	g.GET("/me", a.Me, middleware.JWTAuth(gate), middleware.Require(authz.OpMe))
}

// RegisterPublic registers unauthenticated browse endpoints.  Room reads
// go through the Redis response cache.
func RegisterPublic(e *echo.Echo, r *handler.RoomHandler, cache config.CacheConfig, rdb Redis) {
	cached := middleware.NewRedisCache(cache, cacheStore(rdb))

	e.GET("/api/rooms", r.List, cached)
	e.GET("/api/rooms/:id", r.Get, cached)
	e.GET("/api/rooms/:id/reviews", r.ListReviews)
}
