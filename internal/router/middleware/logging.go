package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/ginext"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// LoggingMiddleware stores a request-scoped logger under the "logger" key and
// logs each finished request. An incoming X-Request-ID is reused, otherwise
// a new one is generated and echoed back.
func LoggingMiddleware(log *zap.Logger) func(*ginext.Context) {
	return func(c *ginext.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(requestIDHeader, requestID)

		reqLog := log.With(zap.String("request_id", requestID))
		c.Set("logger", reqLog)

		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if c.Writer.Status() >= 500 {
			reqLog.Warn("Request failed", fields...)
			return
		}
		reqLog.Info("Request handled", fields...)
	}
}
