package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/escape-room-booking/internal/apperr"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Transition("pending")
		m.Conflict()
		m.ReviewCreated()
		m.ResetRequested()
		m.ResetConsumed()
		m.MailFailed()
	})
}

func TestCountersAndHandler(t *testing.T) {
	m := New("escapedia")
	m.Transition("confirmed")
	m.Transition("confirmed")
	m.Conflict()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BookingTransitions.WithLabelValues("confirmed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingConflicts))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "escapedia_booking_transitions_total")
}

func TestMiddlewareObservesRoute(t *testing.T) {
	m := New("escapedia")
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/rooms/:id", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/rooms/7", nil))

	assert.Equal(t, 1, testutil.CollectAndCount(m.HTTPDuration))
}

func TestMiddlewareLabelsErrorStatus(t *testing.T) {
	m := New("escapedia")
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/missing", func(c echo.Context) error { return apperr.NotFound("room not found") })
	e.GET("/broken", func(c echo.Context) error { return errors.New("boom") })

	for _, p := range []string{"/missing", "/broken"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `route="/missing",status="404"`)
	assert.Contains(t, body, `route="/broken",status="500"`)
}
