package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
)

const rateWindow = time.Minute

// RateLimiter counts requests per client and bucket in fixed one-minute
// windows kept in an expiring cache.
type RateLimiter struct {
	counts *cache.Cache
	now    func() time.Time
}

// NewRateLimiter creates a limiter whose expired windows are purged every
// cleanupInterval.
func NewRateLimiter(cleanupInterval time.Duration) *RateLimiter {
	return &RateLimiter{
		counts: cache.New(rateWindow, cleanupInterval),
		now:    time.Now,
	}
}

// Limit allows maxPerMinute requests per client IP in bucket. A
// non-positive limit disables limiting.
func (rl *RateLimiter) Limit(bucket string, maxPerMinute int) Middleware {
	return func(next http.Handler) http.Handler {
		if maxPerMinute <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := bucket + "|" + clientIP(r)

			allowed, retryAfter := rl.take(key, maxPerMinute)
			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// take reports whether key may proceed and, if not, how many seconds remain
// in its window.
func (rl *RateLimiter) take(key string, limit int) (bool, int) {
	if err := rl.counts.Add(key, 1, rateWindow); err == nil {
		return true, 0
	}

	n, err := rl.counts.IncrementInt(key, 1)
	if err != nil {
		// Window expired between Add and IncrementInt.
		rl.counts.Set(key, 1, rateWindow)
		return true, 0
	}
	if n <= limit {
		return true, 0
	}

	retry := 1
	if _, exp, ok := rl.counts.GetWithExpiration(key); ok {
		retry = max(1, int(math.Ceil(exp.Sub(rl.now()).Seconds())))
	}
	return false, retry
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
