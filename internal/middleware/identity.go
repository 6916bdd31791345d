package middleware

// identity.go holds the context plumbing shared by the auth, role and
// rate limit middleware.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/escape-room-booking/internal/apperr"
	"github.com/iliyamo/escape-room-booking/internal/authz"
)

const identityKey = "identity"

func setIdentity(c echo.Context, id authz.Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the caller stored by JWTAuth.  ok is false on
// anonymous requests.
func IdentityFrom(c echo.Context) (authz.Identity, bool) {
	id, ok := c.Get(identityKey).(authz.Identity)
	return id, ok
}

// MustIdentity is IdentityFrom for routes behind JWTAuth.  A missing
// identity means the route was registered without auth and is reported
// as UNAUTHENTICATED.
func MustIdentity(c echo.Context) (authz.Identity, error) {
	id, ok := IdentityFrom(c)
	if !ok {
		return authz.Identity{}, apperr.Unauthenticated("authentication required")
	}
	return id, nil
}

// userID returns the caller's id for keying, or "anon".
func userID(c echo.Context) string {
	if id, ok := IdentityFrom(c); ok {
		return strconv.FormatUint(id.ID, 10)
	}
	return "anon"
}
