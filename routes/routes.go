package routes

import (
	"net/http"
	"time"

	"sanket/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterPageRoutes registers the page and one POST route per workflow.
func RegisterPageRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/", hb.ShowPage)
	r.POST("/analyze", hb.AnalyzeHandler)
	r.POST("/compare", hb.CompareHandler)
	r.POST("/chat", hb.ChatHandler)
	r.POST("/history/:id/restore", hb.RestoreHistoryHandler)

	profile := r.Group("/profile")
	{
		profile.POST("", hb.SaveProfileHandler)
		profile.POST("/fields", hb.ProfileFieldsHandler)
	}
}

// RegisterAuthRoutes registers login, signup and logout.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/login", hb.LoginHandler)
	r.POST("/signup", hb.SignupHandler)
	r.POST("/logout", hb.LogoutHandler)
}

// RegisterHealthRoute registers the health and metrics endpoints.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
	if hb.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(hb.MetricsHandler))
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, allowedOrigins []string) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: !allowsAnyOrigin(allowedOrigins),
		MaxAge:           12 * time.Hour,
	}))

	RegisterPageRoutes(r, hb)
	RegisterAuthRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}

// allowsAnyOrigin reports a "*" entry; cors rejects credentials with it.
func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
