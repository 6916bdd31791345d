package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/escape-room-booking/internal/logging"
)

// RequestLogger assigns a request id (honouring an incoming X-Request-ID),
// attaches a child of base carrying it to the request context, and logs
// one line per request once the handler chain returns.
func RequestLogger(base zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			rid := req.Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, rid)

			l := base.With().Str("request_id", rid).Logger()
			c.SetRequest(req.WithContext(logging.WithContext(req.Context(), l)))

			err := next(c)
			if err != nil {
				// let the error handler write the response so status is final
				c.Error(err)
			}

			status := c.Response().Status
			ev := l.Info()
			switch {
			case status >= 500:
				ev = l.Error()
			case status >= 400:
				ev = l.Warn()
			}
			ev.Str("method", req.Method).
				Str("path", c.Path()).
				Int("status", status).
				Int64("bytes", c.Response().Size).
				Dur("latency", time.Since(start)).
				Str("ip", c.RealIP()).
				Str("user", userID(c)).
				Msg("request")
			return nil
		}
	}
}
