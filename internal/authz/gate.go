// Package authz verifies bearer credentials and decides which roles may
// run which operations.  It holds no state beyond the signing secret.
package authz

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/escape-room-booking/internal/apperr"
	"github.com/iliyamo/escape-room-booking/internal/model"
)

// DefaultTTL is the lifetime of an access token when none is configured.
const DefaultTTL = 7 * 24 * time.Hour

// Identity is the verified caller of an authenticated operation.
type Identity struct {
	ID   uint64
	Role model.Role
}

// IsAdmin reports whether the caller has the admin role.
func (i Identity) IsAdmin() bool { return i.Role == model.RoleAdmin }

// Token is a signed access token together with its expiry.
type Token struct {
	Token string
	Exp   time.Time
}

// Gate issues and verifies HS256 access tokens.
type Gate struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewGate builds a Gate.  A non-positive ttl means DefaultTTL.
func NewGate(secret string, ttl time.Duration) *Gate {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Gate{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for the user.  Claims: sub (decimal user id), role,
// iat and exp.
func (g *Gate) Issue(userID uint64, role model.Role) (Token, error) {
	now := g.now().UTC()
	exp := now.Add(g.ttl)
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(userID, 10),
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign access token: %w", err)
	}
	return Token{Token: signed, Exp: exp}, nil
}

// Verify checks signature, algorithm and expiry of raw and returns the
// identity it carries.  Every failure is Unauthenticated.
func (g *Gate) Verify(raw string) (Identity, error) {
	if raw == "" {
		return Identity{}, apperr.Unauthenticated("missing token")
	}
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return g.secret, nil
	}, jwt.WithTimeFunc(g.now), jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return Identity{}, apperr.Unauthenticated("invalid or expired token")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, apperr.Unauthenticated("invalid claims")
	}

	id, err := subjectID(claims["sub"])
	if err != nil {
		return Identity{}, apperr.Unauthenticated("invalid subject")
	}
	roleStr, _ := claims["role"].(string)
	role := model.Role(roleStr)
	if !role.Valid() {
		return Identity{}, apperr.Unauthenticated("invalid role")
	}
	return Identity{ID: id, Role: role}, nil
}

// subjectID accepts both string and numeric sub claims; JSON numbers
// decode as float64.
func subjectID(v interface{}) (uint64, error) {
	switch t := v.(type) {
	case string:
		return strconv.ParseUint(t, 10, 64)
	case float64:
		if t <= 0 {
			return 0, errors.New("non-positive subject")
		}
		return uint64(t), nil
	}
	return 0, errors.New("missing subject")
}
