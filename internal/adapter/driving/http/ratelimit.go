package httphandler

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/ericfisherdev/textenhance/internal/domain/model"
)

// RateLimiter is a per-client token bucket. Each client may spend its whole
// per-minute budget at once and then refills continuously.
type RateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*rateClient
	limit    rate.Limit
	burst    int
	perMin   int
	disabled bool
}

type rateClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing requestsPerMin per client. A
// non-positive value disables limiting. Stale clients are evicted until ctx
// is canceled.
func NewRateLimiter(ctx context.Context, requestsPerMin int) *RateLimiter {
	rl := &RateLimiter{
		clients:  make(map[string]*rateClient),
		limit:    rate.Limit(float64(requestsPerMin) / 60.0),
		burst:    requestsPerMin,
		perMin:   requestsPerMin,
		disabled: requestsPerMin <= 0,
	}
	if !rl.disabled {
		go rl.cleanup(ctx)
	}
	return rl
}

func (rl *RateLimiter) cleanup(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.mu.Lock()
			for ip, c := range rl.clients {
				if time.Since(c.lastSeen) > 3*time.Minute {
					delete(rl.clients, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Allow reports whether a request from clientIP may proceed.
func (rl *RateLimiter) Allow(clientIP string) bool {
	if rl == nil || rl.disabled {
		return true
	}

	rl.mu.Lock()
	c, ok := rl.clients[clientIP]
	if !ok {
		c = &rateClient{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[clientIP] = c
	}
	c.lastSeen = time.Now()
	limiter := c.limiter
	rl.mu.Unlock()

	return limiter.Allow()
}

// Middleware rejects requests over the limit with 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientIP(r)) {
			w.Header().Set("Retry-After", strconv.Itoa(rl.retryAfterSeconds()))
			writeJSON(w, http.StatusTooManyRequests, EnhanceResponse{
				Error:     "Rate limit exceeded. Please try again later.",
				ErrorKind: string(model.ErrorRateLimited),
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) retryAfterSeconds() int {
	if rl.perMin <= 0 {
		return 60
	}
	return (60 + rl.perMin - 1) / rl.perMin
}

// clientIP returns the direct peer address. Proxy headers are not trusted.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
