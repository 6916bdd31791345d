package router

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/escape-room-booking/internal/authz"
	"github.com/iliyamo/escape-room-booking/internal/config"
	"github.com/iliyamo/escape-room-booking/internal/handler"
	"github.com/iliyamo/escape-room-booking/internal/metrics"
	"github.com/iliyamo/escape-room-booking/internal/model"
)

func build(t *testing.T) (*echo.Echo, *authz.Gate) {
	t.Helper()
	e := echo.New()
	gate := authz.NewGate("router-secret", time.Hour)
	m := metrics.New("router_test")

	Configure(e, Global{Logger: zerolog.Nop(), Metrics: m})
	RegisterRoutes(e, nil, m)
	RegisterAuth(e, handler.NewAuthHandler(nil, nil), gate, config.RateLimitConfig{}, nil)
	rooms := handler.NewRoomHandler(nil, nil)
	bookings := handler.NewBookingHandler(nil)
	RegisterPublic(e, rooms, config.CacheConfig{}, nil)
	RegisterCustomer(e, bookings, handler.NewReviewHandler(nil), gate)
	RegisterOwner(e, rooms, handler.NewLocalHandler(nil), bookings, gate, config.CacheConfig{}, nil)
	return e, gate
}

func TestRoutesRegistered(t *testing.T) {
	e, _ := build(t)

	var got []string
	for _, r := range e.Routes() {
		got = append(got, r.Method+" "+r.Path)
	}
	sort.Strings(got)

	want := []string{
		"GET /health",
		"GET /metrics",
		"POST /api/auth/register",
		"POST /api/auth/login",
		"GET /api/auth/me",
		"POST /api/auth/forgot-password",
		"POST /api/auth/reset-password",
		"GET /api/rooms",
		"GET /api/rooms/:id",
		"GET /api/rooms/:id/reviews",
		"POST /api/rooms",
		"PUT /api/rooms/:id",
		"DELETE /api/rooms/:id",
		"POST /api/locales",
		"GET /api/locales/mine",
		"POST /api/bookings",
		"GET /api/bookings/mine",
		"PATCH /api/bookings/:id/cancel",
		"GET /api/owner/bookings",
		"PATCH /api/owner/bookings/:id/confirm",
		"PATCH /api/owner/bookings/:id/complete",
		"PATCH /api/owner/bookings/:id/cancel",
		"POST /api/reviews",
		"GET /api/reviews/mine",
	}
	for _, w := range want {
		assert.Contains(t, got, w)
	}
}

// The role policy rejects before any handler dependency is touched, so nil
// services are fine here.
func TestPolicyEnforcedByRoutes(t *testing.T) {
	e, gate := build(t)

	call := func(method, path string, role model.Role) int {
		req := httptest.NewRequest(method, path, nil)
		if role != "" {
			tok, err := gate.Issue(1, role)
			require.NoError(t, err)
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok.Token)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, call(http.MethodPost, "/api/bookings", ""))
	assert.Equal(t, http.StatusUnauthorized, call(http.MethodGet, "/api/owner/bookings", ""))
	assert.Equal(t, http.StatusForbidden, call(http.MethodGet, "/api/owner/bookings", model.RoleUser))
	assert.Equal(t, http.StatusForbidden, call(http.MethodPost, "/api/rooms", model.RoleUser))
	assert.Equal(t, http.StatusForbidden, call(http.MethodDelete, "/api/rooms/1", model.RoleUser))
	assert.Equal(t, http.StatusForbidden, call(http.MethodPatch, "/api/owner/bookings/1/confirm", model.RoleUser))
	assert.Equal(t, http.StatusNotFound, call(http.MethodGet, "/api/unknown", ""))
}

func TestHealthAndMetrics(t *testing.T) {
	e, _ := build(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "router_test_http_request_duration_seconds")
}
