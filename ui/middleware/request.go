package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"popdash/domain/core"
	"popdash/internal"
)

// RequestIDHeader carries the request ID in both directions
const RequestIDHeader = "X-Request-ID"

// requestIDKey is the gin context key holding the request ID
const requestIDKey = "request_id"

// RequestID reuses a well-formed incoming X-Request-ID or mints a new one
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := core.ParseRequestID(c.GetHeader(RequestIDHeader))
		if err != nil {
			id = core.NewRequestID()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id.String())
		c.Next()
	}
}

// GetRequestID returns the request ID set by RequestID, or "" outside it
func GetRequestID(c *gin.Context) string {
	if v, ok := c.Get(requestIDKey); ok {
		if id, ok := v.(core.RequestID); ok {
			return id.String()
		}
	}
	return ""
}

// RequestLogger logs one line per request after it completes
func RequestLogger(logger *internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"request_id", GetRequestID(c),
		}
		if len(c.Errors) > 0 {
			logger.ErrorFields(c.Errors.Last(), "request failed", fields...)
			return
		}
		logger.InfoFields("request", fields...)
	}
}
