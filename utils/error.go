package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the JSON body of a failed non-page request.
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

const panicPage = `<!DOCTYPE html><html><body><h1>Something went wrong</h1><p>Please <a href="/">reload the page</a>.</p></body></html>`

// ErrorHandler recovers from handler panics. Browsers get a small HTML page
// linking back to the app; everything else gets an ErrorResponse.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				requestLogger(c).Error("Unhandled panic",
					zap.Any("error", err),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path))

				if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEHTML {
					c.Data(http.StatusInternalServerError, "text/html; charset=utf-8", []byte(panicPage))
				} else {
					c.JSON(http.StatusInternalServerError, ErrorResponse{
						Message: "Internal Server Error",
						Details: "An unexpected error occurred. Please try again later.",
					})
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError logs and sends an ErrorResponse.
func JSONError(c *gin.Context, status int, message string, details string) {
	requestLogger(c).Warn(message, zap.Int("status", status), zap.String("details", details))
	c.AbortWithStatusJSON(status, ErrorResponse{Message: message, Details: details})
}

func requestLogger(c *gin.Context) *zap.Logger {
	if l, ok := c.Get("logger"); ok {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return GetLogger()
}
