package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"larpilot/backoffice/internal/common"
	"larpilot/backoffice/internal/metrics"
)

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	rps     rate.Limit
	burst   int
	metrics *metrics.MetricsRegistry

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	// whitelisted IPs skip limiting (local tooling)
	whitelist map[string]bool
}

func NewRateLimiter(rps float64, burst int, metricsReg *metrics.MetricsRegistry, whitelist ...string) *RateLimiter {
	rl := &RateLimiter{
		rps:       rate.Limit(rps),
		burst:     burst,
		metrics:   metricsReg,
		limiters:  make(map[string]*rate.Limiter),
		whitelist: make(map[string]bool, len(whitelist)),
	}
	for _, ip := range whitelist {
		rl.whitelist[ip] = true
	}
	return rl
}

func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, exists := rl.limiters[ip]; exists {
		return limiter
	}
	limiter := rate.NewLimiter(rl.rps, rl.burst)
	rl.limiters[ip] = limiter
	return limiter
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if rl.whitelist[ip] {
			next.ServeHTTP(w, r)
			return
		}

		if !rl.getLimiter(ip).Allow() {
			if rl.metrics != nil {
				rl.metrics.RateLimitedTotal.Inc()
			}
			common.RespondError(w, time.Now(), "Too many requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
