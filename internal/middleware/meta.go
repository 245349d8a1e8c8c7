package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/thesis-workflow-api/pkg/middleware/requestid"
)

const (
	metaKey      = "workflow_meta"
	metaStartKey = "workflow_meta_start"
)

// WithResponseMeta stamps the request start time and an empty meta map that
// handlers fill before rendering.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(metaStartKey, time.Now())
		c.Set(metaKey, map[string]interface{}{})
		c.Next()
	}
}

// SetCacheHit marks whether the payload was served from the report cache.
func SetCacheHit(c *gin.Context, hit bool) {
	meta(c)["cache_hit"] = hit
}

// ResponseMeta returns the collected meta with request id and elapsed time
// filled in at call time.
func ResponseMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return map[string]interface{}{}
	}
	out := meta(c)
	if start, ok := c.Get(metaStartKey); ok {
		if t, ok := start.(time.Time); ok {
			out["processing_time_ms"] = time.Since(t).Milliseconds()
		}
	}
	if id := requestid.Value(c); id != "" {
		out["request_id"] = id
	}
	return out
}

func meta(c *gin.Context) map[string]interface{} {
	if v, ok := c.Get(metaKey); ok {
		if m, ok := v.(map[string]interface{}); ok {
			return m
		}
	}
	m := map[string]interface{}{}
	c.Set(metaKey, m)
	return m
}
