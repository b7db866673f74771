package utils

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLoggerLevel(t *testing.T) {
	logger, err := NewLogger(true, "warn")
	assert.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	logger, err = NewLogger(false, "loud")
	assert.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func panicRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	Logger = zap.NewNop()
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })
	return r
}

func TestErrorHandlerServesHTMLToBrowsers(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	panicRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `href="/"`)
}

func TestErrorHandlerServesJSON(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("Accept", "application/json")
	panicRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Internal Server Error","details":"An unexpected error occurred. Please try again later."}`, w.Body.String())
}

func TestCheckHealth(t *testing.T) {
	status := CheckHealth(context.Background(), nil, func(context.Context) error { return nil })
	assert.True(t, status.Backend)
	assert.Nil(t, status.Redis)
	assert.Equal(t, status, GetHealthStatus())

	status = CheckHealth(context.Background(), nil, func(context.Context) error { return errors.New("down") })
	assert.False(t, status.Backend)
}
