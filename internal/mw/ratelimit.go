package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// clientIdleTTL is how long a client's bucket survives without requests.
const clientIdleTTL = 10 * time.Minute

// ClientLimiter hands out one token bucket per client address.
type ClientLimiter struct {
	mu      sync.Mutex
	buckets *cache.Cache
	limit   rate.Limit
	burst   int
}

// NewClientLimiter creates a limiter allowing limit requests per second with the given burst.
func NewClientLimiter(limit rate.Limit, burst int) *ClientLimiter {
	return &ClientLimiter{
		buckets: cache.New(clientIdleTTL, 2*clientIdleTTL),
		limit:   limit,
		burst:   burst,
	}
}

// Bucket returns the bucket for client, creating it on first use and
// extending its lifetime on every call.
func (l *ClientLimiter) Bucket(client string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets.Get(client)
	if !ok {
		b = rate.NewLimiter(l.limit, l.burst)
	}
	l.buckets.SetDefault(client, b)
	return b.(*rate.Limiter)
}

// retryAfter is the whole number of seconds until one token is available.
func (l *ClientLimiter) retryAfter() int {
	if l.limit <= 0 {
		return 1
	}
	return int(math.Ceil(1 / float64(l.limit)))
}

// RateLimiter rejects requests from clients that exceed their bucket with 429.
func RateLimiter(limit rate.Limit, burst int) gin.HandlerFunc {
	l := NewClientLimiter(limit, burst)
	return func(c *gin.Context) {
		if l.Bucket(c.ClientIP()).Allow() {
			c.Next()
			return
		}
		c.Header("Retry-After", strconv.Itoa(l.retryAfter()))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
	}
}
