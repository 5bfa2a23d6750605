package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const (
	responseMetaKey = "response_meta"
	cacheHitKey     = "cache_hit"
	processingKey   = "processing_time_ms"
)

// WithResponseMeta gives every request an empty metadata map that handlers fill in
// before rendering the envelope.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(responseMetaKey, map[string]interface{}{})
		c.Next()
	}
}

// SetCacheHit records whether a derived view was served from cache.
func SetCacheHit(c *gin.Context, hit bool) {
	Meta(c)[cacheHitKey] = hit
}

// SetProcessingTime records the time spent since start.
func SetProcessingTime(c *gin.Context, start time.Time) {
	Meta(c)[processingKey] = time.Since(start).Milliseconds()
}

// Meta returns the request's metadata map, creating it when the middleware is absent.
func Meta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return map[string]interface{}{}
	}
	if meta, exists := c.Get(responseMetaKey); exists {
		if typed, ok := meta.(map[string]interface{}); ok {
			return typed
		}
	}
	meta := make(map[string]interface{})
	c.Set(responseMetaKey, meta)
	return meta
}
