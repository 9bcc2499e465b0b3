// Package metrics provides the Prometheus metrics of the portal gateway
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"strconv"
	"time"
)

// Registry holds all application metrics
type Registry struct {
	registry *prometheus.Registry

	HTTPRequests     *prometheus.CounterVec
	BackendRequests  *prometheus.CounterVec
	BackendDuration  *prometheus.HistogramVec
	SessionsCreated  prometheus.Counter
	SessionsExpired  prometheus.Counter
	GuardRedirects   *prometheus.CounterVec
	RateLimitedCalls prometheus.Counter
}

// New creates a new metrics registry with all application metrics registered
func New() *Registry {
	reg := &Registry{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Name:      "http_requests_total",
			Help:      "Inbound HTTP requests by route pattern, method and status code.",
		}, []string{"route", "method", "code"}),
		BackendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Name:      "backend_requests_total",
			Help:      "Outbound requests to the backend by method and status code (0 for transport failures).",
		}, []string{"method", "code"}),
		BackendDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "portal",
			Name:      "backend_request_duration_seconds",
			Help:      "Duration of outbound requests to the backend.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		SessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "portal",
			Name:      "sessions_created_total",
			Help:      "Sessions created by a successful login.",
		}),
		SessionsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "portal",
			Name:      "sessions_expired_total",
			Help:      "Expired sessions removed by the sweeping task.",
		}),
		GuardRedirects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Name:      "guard_redirects_total",
			Help:      "Page requests redirected by an access guard.",
		}, []string{"guard", "target"}),
		RateLimitedCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "portal",
			Name:      "rate_limited_requests_total",
			Help:      "Requests to public auth routes rejected by the rate limiter.",
		}),
	}
	reg.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		reg.HTTPRequests,
		reg.BackendRequests,
		reg.BackendDuration,
		reg.SessionsCreated,
		reg.SessionsExpired,
		reg.GuardRedirects,
		reg.RateLimitedCalls,
	)
	return reg
}

// Handler returns the HTTP handler exposing the metrics in the Prometheus text format
func (reg *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(reg.registry, promhttp.HandlerOpts{})
}

// ObserveBackendCall records a single outbound backend request.
// A nil registry is valid and records nothing.
func (reg *Registry) ObserveBackendCall(method string, status int, duration time.Duration) {
	if reg == nil {
		return
	}
	reg.BackendRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	reg.BackendDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// ObserveHTTPRequest records a single inbound request
func (reg *Registry) ObserveHTTPRequest(route, method string, status int) {
	if reg == nil {
		return
	}
	reg.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
}

// ObserveGuardRedirect records a page request redirected by an access guard
func (reg *Registry) ObserveGuardRedirect(guard, target string) {
	if reg == nil {
		return
	}
	reg.GuardRedirects.WithLabelValues(guard, target).Inc()
}
