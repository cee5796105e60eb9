package api

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Per-IP token bucket for the analyze endpoint. An upload triggers an
// exhaustive graph search, so requests are far more expensive than their
// byte size suggests. Empty buckets get HTTP 429 with a Retry-After hint.
//
// Buckets idle longer than cleanupIdleDuration are dropped by a
// background sweep so transient IPs do not accumulate forever.

const cleanupIdleDuration = 10 * time.Minute

type ipBucket struct {
	tokens   float64
	lastSeen time.Time
	mu       sync.Mutex
}

// RateLimiter holds per-IP bucket state.
type RateLimiter struct {
	rate    float64 // tokens added per second
	burst   float64 // max bucket capacity
	mu      sync.Mutex
	buckets map[string]*ipBucket
}

// NewRateLimiter allows ratePerMin requests per minute per IP with the
// given burst capacity.
func NewRateLimiter(ratePerMin, burst int) *RateLimiter {
	rl := &RateLimiter{
		rate:    float64(ratePerMin) / 60.0,
		burst:   float64(burst),
		buckets: make(map[string]*ipBucket),
	}
	go rl.cleanupLoop()
	return rl
}

// Middleware returns the gin handler enforcing the limit.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		rl.mu.Lock()
		bucket, ok := rl.buckets[ip]
		if !ok {
			bucket = &ipBucket{tokens: rl.burst, lastSeen: time.Now()}
			rl.buckets[ip] = bucket
		}
		rl.mu.Unlock()

		bucket.mu.Lock()
		now := time.Now()
		elapsed := now.Sub(bucket.lastSeen).Seconds()
		bucket.tokens += elapsed * rl.rate
		if bucket.tokens > rl.burst {
			bucket.tokens = rl.burst
		}
		bucket.lastSeen = now

		if bucket.tokens < 1 {
			retryAfter := int((1 - bucket.tokens) / rl.rate)
			if retryAfter < 1 {
				retryAfter = 1
			}
			bucket.mu.Unlock()
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many analysis requests. Slow down.",
			})
			return
		}
		bucket.tokens--
		bucket.mu.Unlock()

		c.Next()
	}
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupIdleDuration)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-cleanupIdleDuration)
		rl.mu.Lock()
		for ip, bucket := range rl.buckets {
			if bucket.lastSeen.Before(cutoff) {
				delete(rl.buckets, ip)
			}
		}
		rl.mu.Unlock()
	}
}
