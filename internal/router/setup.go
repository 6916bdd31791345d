package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/iliyamo/escape-room-booking/internal/config"
	"github.com/iliyamo/escape-room-booking/internal/handler"
	"github.com/iliyamo/escape-room-booking/internal/metrics"
	"github.com/iliyamo/escape-room-booking/internal/middleware"
)

// Global holds the cross-cutting settings applied to every route.
type Global struct {
	Logger      zerolog.Logger
	CORSOrigins []string
	Metrics     *metrics.Metrics
	RateLimit   config.RateLimitConfig
	Redis       Redis
}

// Configure installs the error handler and the global middleware chain:
// request logging, panic recovery, CORS, request metrics and the general
// rate limiter, in that order.
func Configure(e *echo.Echo, g Global) {
	e.HideBanner = true
	e.HTTPErrorHandler = handler.ErrorHandler

	e.Use(middleware.RequestLogger(g.Logger))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: corsOrigins(g.CORSOrigins),
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderXRequestID},
	}))
	if g.Metrics != nil {
		e.Use(g.Metrics.Middleware())
	}
	e.Use(middleware.NewTokenBucket(g.RateLimit, scripter(g.Redis)))
}

func corsOrigins(in []string) []string {
	if len(in) == 0 {
		return []string{"*"}
	}
	return in
}
