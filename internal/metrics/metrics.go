// Package metrics exposes Prometheus instruments for the booking API.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/escape-room-booking/internal/apperr"
)

// Metrics groups every instrument.  A nil *Metrics is valid and records
// nothing, which keeps service tests free of registry setup.
type Metrics struct {
	registry *prometheus.Registry

	BookingTransitions *prometheus.CounterVec
	BookingConflicts   prometheus.Counter
	ReviewsCreated     prometheus.Counter
	ResetRequests      prometheus.Counter
	ResetsConsumed     prometheus.Counter
	MailFailures       prometheus.Counter
	HTTPDuration       *prometheus.HistogramVec
}

// New registers all instruments on a fresh registry under namespace.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		BookingTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_transitions_total",
			Help:      "Bookings entering each status",
		}, []string{"status"}),
		BookingConflicts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_conflicts_total",
			Help:      "Booking attempts rejected because the slot was taken",
		}),
		ReviewsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviews_created_total",
			Help:      "Reviews stored",
		}),
		ResetRequests: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "password_reset_requests_total",
			Help:      "Reset tokens issued for existing users",
		}),
		ResetsConsumed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "password_resets_total",
			Help:      "Reset tokens consumed successfully",
		}),
		MailFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mail_failures_total",
			Help:      "Reset mails that could not be delivered",
		}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// Transition counts a booking entering status.
func (m *Metrics) Transition(status string) {
	if m == nil {
		return
	}
	m.BookingTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) Conflict() {
	if m != nil {
		m.BookingConflicts.Inc()
	}
}

func (m *Metrics) ReviewCreated() {
	if m != nil {
		m.ReviewsCreated.Inc()
	}
}

func (m *Metrics) ResetRequested() {
	if m != nil {
		m.ResetRequests.Inc()
	}
}

func (m *Metrics) ResetConsumed() {
	if m != nil {
		m.ResetsConsumed.Inc()
	}
}

func (m *Metrics) MailFailed() {
	if m != nil {
		m.MailFailures.Inc()
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request latency labelled by route template.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			status := c.Response().Status
			var he *echo.HTTPError
			switch {
			case errors.As(err, &he):
				status = he.Code
			case err != nil:
				status = apperr.HTTPStatus(apperr.KindOf(err))
			}
			m.HTTPDuration.WithLabelValues(c.Request().Method, c.Path(), strconv.Itoa(status)).
				Observe(time.Since(start).Seconds())
			return err
		}
	}
}
