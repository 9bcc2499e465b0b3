package portal

import (
	"github.com/skybi/portal-gateway/internal/api/schema"
	"github.com/skybi/portal-gateway/internal/hashmap"
	"github.com/skybi/portal-gateway/internal/metrics"
	"golang.org/x/time/rate"
	"net"
	"net/http"
	"time"
)

// limiterLifetime is the time a client's limiter is kept after its last request
const limiterLifetime = 10 * time.Minute

// rateLimiter limits the amount of requests per client IP using one token bucket per client
type rateLimiter struct {
	limiters *hashmap.ExpiringMap[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
	metrics  *metrics.Registry
}

// newRateLimiter creates a rate limiter allowing perMinute requests per client and minute.
// A non-positive amount disables rate limiting and results in a nil limiter.
func newRateLimiter(perMinute int, metrics *metrics.Registry) *rateLimiter {
	if perMinute <= 0 {
		return nil
	}
	limiters := hashmap.NewExpiring[string, *rate.Limiter](limiterLifetime)
	limiters.ScheduleCleanupTask(time.Minute)
	return &rateLimiter{
		limiters: limiters,
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		metrics:  metrics,
	}
}

// allow reports whether the client identified by key may perform another request
func (limiter *rateLimiter) allow(key string) bool {
	if limiter == nil {
		return true
	}
	bucket := limiter.limiters.LoadOrStore(key, func() *rate.Limiter {
		return rate.NewLimiter(limiter.limit, limiter.burst)
	})
	if bucket.Allow() {
		return true
	}
	if limiter.metrics != nil {
		limiter.metrics.RateLimitedCalls.Inc()
	}
	return false
}

func (limiter *rateLimiter) stop() {
	if limiter != nil {
		limiter.limiters.StopCleanupTask()
	}
}

func clientIP(request *http.Request) string {
	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}

// MiddlewareRateLimit rejects requests of clients exceeding the authentication rate limit
func (service *Service) MiddlewareRateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		if !service.rateLimiter.allow(clientIP(request)) {
			writer.Header().Set("Retry-After", "60")
			service.writer.WriteAuthErrors(writer, http.StatusTooManyRequests, schema.ErrTooManyRequests)
			return
		}
		next.ServeHTTP(writer, request)
	}
}
