package middleware // middleware provides shared request processing for handlers

import (
	"github.com/labstack/echo/v4" // echo provides middleware chaining and context

	"github.com/iliyamo/escape-room-booking/internal/authz"
)

// Require enforces the role policy of op for the authenticated caller.
// It must run after JWTAuth.  Ownership of the target resource is checked
// later by the service.
func Require(op authz.Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := MustIdentity(c)
			if err != nil {
				return err
			}
			if err := authz.Authorize(id, op); err != nil {
				return err
			}
			return next(c)
		}
	}
}
