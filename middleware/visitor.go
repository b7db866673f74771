package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	VisitorCookie = "sanket_visitor"
	visitorKey    = "visitorID"
	visitorMaxAge = 60 * 60 * 24 * 365
)

// VisitorMiddleware makes sure every browser carries a visitor id cookie
// and exposes it to handlers through VisitorID.
func VisitorMiddleware(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(VisitorCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(VisitorCookie, id, visitorMaxAge, "/", "", secure, true)
		}
		c.Set(visitorKey, id)
		c.Next()
	}
}

// VisitorID returns the id set by VisitorMiddleware.
func VisitorID(c *gin.Context) string {
	return c.GetString(visitorKey)
}
