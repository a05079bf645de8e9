package mw

import (
	"bytes"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"designer-dashboard-backend/internal/metrics"
)

type cachedResponse struct {
	status  int
	headers http.Header
	body    []byte
}

// recordingWriter tees the response body so it can be stored after the handler ran.
type recordingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *recordingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// ResponseCache keeps successful GET responses for a short time. Any write
// flushes it, so a list never outlives the mutation that changed it.
type ResponseCache struct {
	entries *cache.Cache
	ttl     time.Duration

	// gen counts flushes; a miss only stores its response if no flush
	// happened while the handler ran.
	mu  sync.Mutex
	gen uint64
}

// NewResponseCache creates a cache whose entries live for ttl.
func NewResponseCache(ttl time.Duration) *ResponseCache {
	return &ResponseCache{entries: cache.New(ttl, 2*ttl), ttl: ttl}
}

// Flush drops every cached response.
func (rc *ResponseCache) Flush() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.gen++
	rc.entries.Flush()
}

func (rc *ResponseCache) generation() uint64 {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.gen
}

// store caches resp unless the cache was flushed after generation gen.
func (rc *ResponseCache) store(key string, gen uint64, resp cachedResponse) bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.gen != gen {
		return false
	}
	rc.entries.Set(key, resp, rc.ttl)
	return true
}

// Len reports the number of cached responses.
func (rc *ResponseCache) Len() int {
	return rc.entries.ItemCount()
}

// Serve answers GET requests from the cache, keyed by request URI, and
// stores 2xx responses on a miss.
func (rc *ResponseCache) Serve() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.RequestURI
		if v, found := rc.entries.Get(key); found {
			metrics.ResponseCache.WithLabelValues("hit").Inc()
			hit := v.(cachedResponse)
			header := c.Writer.Header()
			for k, vals := range hit.headers {
				header[k] = vals
			}
			header.Set("X-Cache", "HIT")
			c.Writer.WriteHeader(hit.status)
			_, _ = c.Writer.Write(hit.body)
			c.Abort()
			return
		}
		metrics.ResponseCache.WithLabelValues("miss").Inc()

		gen := rc.generation()
		rec := &recordingWriter{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		if status := rec.Status(); status >= 200 && status < 300 {
			rc.store(key, gen, cachedResponse{
				status:  status,
				headers: rec.Header().Clone(),
				body:    rec.body.Bytes(),
			})
		}
	}
}

// Invalidate flushes the cache after every successful request that is not a GET.
func (rc *ResponseCache) Invalidate() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == http.MethodGet {
			return
		}
		if status := c.Writer.Status(); status >= 200 && status < 300 {
			rc.Flush()
		}
	}
}
