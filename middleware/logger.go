package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LoggerKey is the gin context key of the request-scoped logger.
const LoggerKey = "logger"

// LoggerMiddleware attaches a request-scoped zap logger under LoggerKey and
// logs every completed request.
func LoggerMiddleware(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)

		logger := base.With(zap.String("request_id", requestID))
		if visitor := VisitorID(c); visitor != "" {
			logger = logger.With(zap.String("visitor", visitor))
		}
		c.Set(LoggerKey, logger)

		c.Next()

		logger.Info("Request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", ClientIP(c)))
	}
}
