package rest

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oshokin/minecraft-switchboard/internal/logger"
)

// requestIDHeader carries the request id in responses and onward calls.
const requestIDHeader = "X-Request-Id"

// RequestID attaches a request id to the request context logger and echoes
// it in the response. An incoming id is reused so retries stay correlated.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Header(requestIDHeader, id)
		c.Request = c.Request.WithContext(
			logger.WithKV(c.Request.Context(), "request_id", id),
		)

		c.Next()
	}
}

// AccessLog emits one structured line per handled request.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.InfoKV(c.Request.Context(), "Request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}
