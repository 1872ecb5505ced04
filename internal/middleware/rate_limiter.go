package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/muanproworks-spec/hf-frozen-food-pos/internal/apierror"
)

// ── Per-IP token bucket ───────────────────────────────────────────────────────

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter hands each client IP its own token bucket.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     rate.Limit
	burst    int
}

// NewRateLimiter allows rps requests per second per IP with the given burst.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiter(c.ClientIP()).Allow() {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("too many requests, try again shortly"))
			return
		}
		c.Next()
	}
}

// ── Purge goroutine ───────────────────────────────────────────────────────────
// Removes buckets of IPs idle longer than ttl so the map does not grow forever.

const purgeInterval = 5 * time.Minute

// StartPurge runs until ctx is cancelled.
func (rl *RateLimiter) StartPurge(ctx context.Context, ttl time.Duration) {
	go func() {
		ticker := time.NewTicker(purgeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := rl.purge(time.Now(), ttl); n > 0 {
					log.Debug().Int("purged", n).Msg("rate limiter buckets purged")
				}
			}
		}
	}()
}

func (rl *RateLimiter) purge(now time.Time, ttl time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	purged := 0
	for ip, v := range rl.visitors {
		if now.Sub(v.lastSeen) > ttl {
			delete(rl.visitors, ip)
			purged++
		}
	}
	return purged
}
