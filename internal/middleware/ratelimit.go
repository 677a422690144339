package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// limiter tracks fixed-window request counts per client IP. Expired windows
// are pruned lazily on access so the map does not grow without bound.
type limiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	buckets map[string]*windowBucket
}

type windowBucket struct {
	count   int
	resetAt time.Time
}

func (l *limiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[ip]
	if !ok || now.After(b.resetAt) {
		b = &windowBucket{resetAt: now.Add(l.window)}
		l.buckets[ip] = b
	}
	if b.count >= l.limit {
		return false
	}
	b.count++

	if len(l.buckets) > 4096 {
		for key, bucket := range l.buckets {
			if now.After(bucket.resetAt) {
				delete(l.buckets, key)
			}
		}
	}
	return true
}

// RateLimit rejects clients exceeding limit requests per window with a 429.
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	l := &limiter{
		limit:   limit,
		window:  window,
		buckets: make(map[string]*windowBucket),
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(rateLimitIP(r), time.Now()) {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func rateLimitIP(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		for _, part := range strings.Split(xf, ",") {
			ip := strings.TrimSpace(part)
			if ip != "" && net.ParseIP(ip) != nil {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && net.ParseIP(host) != nil {
		return host
	}
	return r.RemoteAddr
}
