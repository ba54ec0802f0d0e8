package middleware

import (
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	loggerKey       = "logger"
)

// RequestLogger tags every request with an ID and logs its outcome.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(RequestIDHeader, requestID)

		entry := log.WithFields(log.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"client_ip":  c.ClientIP(),
		})
		c.Set(loggerKey, entry)

		c.Next()

		entry = entry.WithFields(log.Fields{
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
		})
		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("request.completed")
		case status >= 400:
			entry.Warn("request.completed")
		default:
			entry.Info("request.completed")
		}
	}
}

// Logger returns the request-scoped log entry, falling back to the default.
func Logger(c *gin.Context) log.Interface {
	if v, ok := c.Get(loggerKey); ok {
		if entry, ok := v.(*log.Entry); ok {
			return entry
		}
	}
	return log.Log
}
