package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"adventure_hunt/internal/common"

	"golang.org/x/time/rate"
)

type ipRateLimiter struct {
	ips    map[string]*limiterWithTime
	mu     sync.Mutex
	rate   rate.Limit
	burst  int
	expiry time.Duration
}

type limiterWithTime struct {
	limiter   *rate.Limiter
	lastUsage time.Time
}

func newIPRateLimiter(r rate.Limit, b int) *ipRateLimiter {
	i := &ipRateLimiter{
		ips:    make(map[string]*limiterWithTime),
		rate:   r,
		burst:  b,
		expiry: time.Hour, // Clean up unused limiters after 1 hour
	}

	go i.cleanupRoutine()
	return i
}

func (i *ipRateLimiter) cleanupRoutine() {
	ticker := time.NewTicker(time.Minute)
	for range ticker.C {
		i.mu.Lock()
		for ip, wrapper := range i.ips {
			if time.Since(wrapper.lastUsage) > i.expiry {
				delete(i.ips, ip)
			}
		}
		i.mu.Unlock()
	}
}

func (i *ipRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	wrapper, exists := i.ips[ip]
	if !exists {
		wrapper = &limiterWithTime{
			limiter:   rate.NewLimiter(i.rate, i.burst),
			lastUsage: time.Now(),
		}
		i.ips[ip] = wrapper
	} else {
		wrapper.lastUsage = time.Now()
	}

	return wrapper.limiter
}

// RateLimit applies a per-client-IP token bucket to everything below it.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	limiter := newIPRateLimiter(rate.Limit(rps), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.getLimiter(ClientIP(r)).Allow() {
				common.RespondWithError(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP strips the port from RemoteAddr; chi's RealIP middleware has
// already folded X-Forwarded-For into it.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
