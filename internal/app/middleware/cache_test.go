package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheMiddlewareHit(t *testing.T) {
	PurgeCache()

	var hits int64
	r := gin.New()
	r.GET("/list", Cache(CacheConfig{Expiration: time.Minute}), func(c *gin.Context) {
		atomic.AddInt64(&hits, 1)
		c.JSON(http.StatusOK, gin.H{"n": atomic.LoadInt64(&hits)})
	})

	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, httptest.NewRequest(http.MethodGet, "/list", nil))
	require.Equal(t, http.StatusOK, w1.Code)

	// 第二次命中缓存，处理函数不再执行，响应体一致
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/list", nil))
	require.Equal(t, http.StatusOK, w2.Code)
	assert.Equal(t, w1.Body.String(), w2.Body.String())
	assert.Equal(t, int64(1), atomic.LoadInt64(&hits))

	// 查询参数不同是另一个缓存键
	w3 := httptest.NewRecorder()
	r.ServeHTTP(w3, httptest.NewRequest(http.MethodGet, "/list?page=2", nil))
	require.Equal(t, http.StatusOK, w3.Code)
	assert.Equal(t, int64(2), atomic.LoadInt64(&hits))
}

func TestCacheMiddlewareSkipsNonGet(t *testing.T) {
	PurgeCache()

	var hits int64
	r := gin.New()
	r.POST("/submit", Cache(CacheConfig{Expiration: time.Minute}), func(c *gin.Context) {
		atomic.AddInt64(&hits, 1)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/submit", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, int64(2), atomic.LoadInt64(&hits))
}

func TestCacheMiddlewareSkipsErrors(t *testing.T) {
	PurgeCache()

	var hits int64
	r := gin.New()
	r.GET("/missing", Cache(CacheConfig{Expiration: time.Minute}), func(c *gin.Context) {
		atomic.AddInt64(&hits, 1)
		c.JSON(http.StatusNotFound, gin.H{"ok": false})
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
		require.Equal(t, http.StatusNotFound, w.Code)
	}
	assert.Equal(t, int64(2), atomic.LoadInt64(&hits))
}

func TestCacheStatsAndPurge(t *testing.T) {
	PurgeCache()

	r := gin.New()
	r.GET("/list", Cache(CacheConfig{Expiration: time.Minute}), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/list", nil))
	require.Equal(t, http.StatusOK, w.Code)

	stats := CacheStats()
	assert.Equal(t, 1, stats["total_items"])

	PurgeCache()
	stats = CacheStats()
	assert.Equal(t, 0, stats["total_items"])
}
