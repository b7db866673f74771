package handlers

import (
	"sanket/middleware"
	"sanket/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger returns the request logger installed by LoggerMiddleware. Routes
// mounted without it log through the process logger, tagged with the request
// line so entries can still be traced.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get(middleware.LoggerKey); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return utils.GetLogger().With(
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path))
}
