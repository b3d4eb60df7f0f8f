package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "schoolerp"

var (
	// HTTPRequestsTotal counts requests by route and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration records request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// AccessDenied counts role policy denials
	AccessDenied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_denied_total",
			Help:      "Requests rejected by the role policy",
		},
		[]string{"resource", "verb", "role"},
	)

	// TransitionsRejected counts illegal status changes
	TransitionsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_transitions_rejected_total",
			Help:      "Status changes rejected by the lifecycle engine",
		},
		[]string{"kind"},
	)

	// TransitionsApplied counts accepted status changes
	TransitionsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_transitions_total",
			Help:      "Status changes applied by the lifecycle engine",
		},
		[]string{"kind", "to"},
	)

	// AuthFailures counts rejected bearer tokens and logins
	AuthFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_failures_total",
			Help:      "Rejected logins and bearer tokens",
		},
		[]string{"stage"},
	)

	// EnquiriesByStatus is refreshed by the background job
	EnquiriesByStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "enquiries",
			Help:      "Admission enquiries per status across all schools",
		},
		[]string{"status"},
	)
)

// RecordDenied increments the policy denial counter.
func RecordDenied(resource, verb, role string) {
	AccessDenied.WithLabelValues(resource, verb, role).Inc()
}

// RecordTransition counts an accepted or rejected status change.
func RecordTransition(kind, to string, err error) {
	if err != nil {
		TransitionsRejected.WithLabelValues(kind).Inc()
		return
	}
	TransitionsApplied.WithLabelValues(kind, to).Inc()
}

// Middleware records request counters and latency per route.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			status := strconv.Itoa(c.Response().Status)
			HTTPRequestsTotal.WithLabelValues(c.Request().Method, path, status).Inc()
			HTTPRequestDuration.WithLabelValues(c.Request().Method, path, status).Observe(time.Since(start).Seconds())

			return nil
		}
	}
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
