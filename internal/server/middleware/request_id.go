package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/georgem7154/once-upon-a-prompt/internal/pkg/id"
)

const requestIDHeader = "X-Request-ID"

// RequestID attaches a request id to every request, reusing the
// client-supplied header when present.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = id.New()
		}
		c.Set("request_id", rid)
		c.Header(requestIDHeader, rid)
		c.Next()
	}
}
