package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the service collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	authDenialsTotal    *prometheus.CounterVec
	loginAttemptsTotal  *prometheus.CounterVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests processed",
		}, []string{"method", "path", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		authDenialsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_denials_total",
			Help: "Requests rejected by the authorization guard",
		}, []string{"reason"}), // missing|expired|invalid|forbidden
		loginAttemptsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_login_attempts_total",
			Help: "Login attempts by outcome",
		}, []string{"result"}), // success|failure|throttled
	}
	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.authDenialsTotal,
		m.loginAttemptsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records request count and latency, labelled by route template.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil {
				return next(c)
			}
			start := time.Now()
			defer func() {
				if r := recover(); r != nil {
					m.observe(c, start, http.StatusInternalServerError)
					panic(r)
				}
			}()

			if err := next(c); err != nil {
				// commit the error response so the final status is observable
				c.Error(err)
			}
			m.observe(c, start, c.Response().Status)
			return nil
		}
	}
}

func (m *Metrics) observe(c echo.Context, start time.Time, status int) {
	path := c.Path()
	if path == "" {
		path = "unmatched"
	}
	m.httpRequestsTotal.WithLabelValues(c.Request().Method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(c.Request().Method, path).Observe(time.Since(start).Seconds())
}

// AuthDenied counts a guard rejection.
func (m *Metrics) AuthDenied(reason string) {
	if m == nil {
		return
	}
	m.authDenialsTotal.WithLabelValues(reason).Inc()
}

// LoginAttempt counts a login outcome.
func (m *Metrics) LoginAttempt(result string) {
	if m == nil {
		return
	}
	m.loginAttemptsTotal.WithLabelValues(result).Inc()
}
