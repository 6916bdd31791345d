package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"strings" // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/iliyamo/escape-room-booking/internal/apperr"
	"github.com/iliyamo/escape-room-booking/internal/authz"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// with gate and stores the resulting authz.Identity in the request
// context.  Handlers read it back with IdentityFrom.  Every failure is
// reported as UNAUTHENTICATED so clients cannot tell a bad signature from
// an expired token.
func JWTAuth(gate *authz.Gate) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c)
			if !ok {
				return apperr.Unauthenticated("missing bearer token")
			}
			id, err := gate.Verify(raw)
			if err != nil {
				return err
			}
			setIdentity(c, id)
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, bool) {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	return raw, raw != ""
}
