package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func do(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestCache_ServesUntilInvalidated(t *testing.T) {
	rc := NewResponseCache(time.Minute)
	hits := 0

	r := gin.New()
	r.Use(rc.Invalidate())
	r.GET("/items", rc.Serve(), func(c *gin.Context) {
		hits++
		c.JSON(http.StatusOK, gin.H{"hits": hits})
	})
	r.POST("/items", func(c *gin.Context) { c.Status(http.StatusCreated) })
	r.POST("/fail", func(c *gin.Context) { c.Status(http.StatusBadRequest) })

	first := do(r, http.MethodGet, "/items")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.JSONEq(t, `{"hits":1}`, first.Body.String())

	second := do(r, http.MethodGet, "/items")
	assert.JSONEq(t, `{"hits":1}`, second.Body.String())
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, "application/json; charset=utf-8", second.Header().Get("Content-Type"))
	assert.Equal(t, 1, rc.Len())

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/fail").Code)
	assert.JSONEq(t, `{"hits":1}`, do(r, http.MethodGet, "/items").Body.String(), "failed writes keep the cache")

	assert.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/items").Code)
	assert.JSONEq(t, `{"hits":2}`, do(r, http.MethodGet, "/items").Body.String())
}

func TestCache_SkipsErrors(t *testing.T) {
	rc := NewResponseCache(time.Minute)
	calls := 0

	r := gin.New()
	r.GET("/boom", rc.Serve(), func(c *gin.Context) {
		calls++
		c.Status(http.StatusInternalServerError)
	})

	do(r, http.MethodGet, "/boom")
	do(r, http.MethodGet, "/boom")
	assert.Equal(t, 2, calls)
	assert.Zero(t, rc.Len())
}

func TestCache_FlushDuringMissIsNotOverwritten(t *testing.T) {
	rc := NewResponseCache(time.Minute)
	version := 1

	r := gin.New()
	r.GET("/items", rc.Serve(), func(c *gin.Context) {
		body := gin.H{"version": version}
		// A write lands and flushes while this read is still being served.
		version++
		rc.Flush()
		c.JSON(http.StatusOK, body)
	})

	assert.JSONEq(t, `{"version":1}`, do(r, http.MethodGet, "/items").Body.String())
	assert.Zero(t, rc.Len(), "a response read before the flush is not cached")

	second := do(r, http.MethodGet, "/items")
	assert.JSONEq(t, `{"version":2}`, second.Body.String())
	assert.Empty(t, second.Header().Get("X-Cache"))
}

func TestRateLimiter(t *testing.T) {
	r := gin.New()
	r.Use(RateLimiter(rate.Limit(1), 2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/").Code)
	w := do(r, http.MethodGet, "/")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"error":"too many requests"}`, w.Body.String())
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestClientLimiter_PerClient(t *testing.T) {
	l := NewClientLimiter(rate.Limit(1), 1)

	a := l.Bucket("10.0.0.1")
	assert.Same(t, a, l.Bucket("10.0.0.1"))
	assert.NotSame(t, a, l.Bucket("10.0.0.2"))

	assert.True(t, a.Allow())
	assert.False(t, a.Allow())
	assert.True(t, l.Bucket("10.0.0.2").Allow())
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
