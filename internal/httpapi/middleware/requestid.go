package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/chatflow/internal/common"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags every request with a ULID, reusing the caller's id when
// one is supplied.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			if generated, err := common.NewULID(); err == nil {
				id = generated
			}
		}
		if id != "" {
			c.Header(requestIDHeader, id)
			c.Set("requestID", id)
		}
		c.Next()
	}
}
