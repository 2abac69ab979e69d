// Package metrics exposes Prometheus instrumentation for the API.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Business metrics
	LeadsCreated       prometheus.Counter
	FollowUpsScheduled *prometheus.CounterVec
	QuotationsCreated  prometheus.Counter
	ProformasCreated   prometheus.Counter
	ExportsCreated     *prometheus.CounterVec
	LoginAttempts      *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		LeadsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "leads_created_total",
			Help: "Total number of leads created",
		}),
		FollowUpsScheduled: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "followups_scheduled_total",
				Help: "Total number of follow-ups scheduled",
			},
			[]string{"parent"}, // lead, inquiry
		),
		QuotationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "quotations_created_total",
			Help: "Total number of quotations created",
		}),
		ProformasCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "proforma_invoices_created_total",
			Help: "Total number of proforma invoices created",
		}),
		ExportsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "exports_created_total",
				Help: "Total number of lead exports created",
			},
			[]string{"format"}, // csv, excel
		),
		LoginAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "login_attempts_total",
				Help: "Total number of login attempts",
			},
			[]string{"status"}, // success, failed
		),
	}
}

// Middleware creates an Echo middleware for Prometheus metrics
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			path := c.Path() // route pattern, not actual path

			err := next(c)

			status := strconv.Itoa(c.Response().Status)
			m.HTTPRequestsTotal.WithLabelValues(req.Method, path, status).Inc()
			m.HTTPRequestDuration.WithLabelValues(req.Method, path, status).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// RecordLeadCreated increments the lead counter
func (m *Metrics) RecordLeadCreated() {
	m.LeadsCreated.Inc()
}

// RecordFollowUpScheduled increments the follow-up counter for a parent kind
func (m *Metrics) RecordFollowUpScheduled(parent string) {
	m.FollowUpsScheduled.WithLabelValues(parent).Inc()
}

// RecordQuotationCreated increments the quotation counter
func (m *Metrics) RecordQuotationCreated() {
	m.QuotationsCreated.Inc()
}

// RecordProformaCreated increments the proforma invoice counter
func (m *Metrics) RecordProformaCreated() {
	m.ProformasCreated.Inc()
}

// RecordExportCreated increments the export counter for a format
func (m *Metrics) RecordExportCreated(format string) {
	m.ExportsCreated.WithLabelValues(format).Inc()
}

// RecordLoginAttempt increments login attempts counter
func (m *Metrics) RecordLoginAttempt(success bool) {
	status := "failed"
	if success {
		status = "success"
	}
	m.LoginAttempts.WithLabelValues(status).Inc()
}
