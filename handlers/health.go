package handlers

import (
	"net/http"

	"sanket/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the last health check of the backend and redis.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Backend || (status.Redis != nil && !*status.Redis) {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":    http.StatusText(code),
		"backend":   status.Backend,
		"redis":     status.Redis,
		"checkedAt": status.CheckedAt,
	})
}
