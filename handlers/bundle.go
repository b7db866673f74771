package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the endpoint handlers registered by routes.
type HandlerBundle struct {
	// Page and form submissions.
	ShowPage              gin.HandlerFunc
	AnalyzeHandler        gin.HandlerFunc
	CompareHandler        gin.HandlerFunc
	ChatHandler           gin.HandlerFunc
	SaveProfileHandler    gin.HandlerFunc
	ProfileFieldsHandler  gin.HandlerFunc
	RestoreHistoryHandler gin.HandlerFunc

	// Auth.
	LoginHandler  gin.HandlerFunc
	SignupHandler gin.HandlerFunc
	LogoutHandler gin.HandlerFunc

	// Operations.
	HealthHandler  gin.HandlerFunc
	MetricsHandler http.Handler
}

// NewHandlerBundle wires every page handler method into a bundle.
func NewHandlerBundle(page *PageHandler, metrics http.Handler) *HandlerBundle {
	return &HandlerBundle{
		ShowPage:              page.ShowPage,
		AnalyzeHandler:        page.AnalyzeHandler,
		CompareHandler:        page.CompareHandler,
		ChatHandler:           page.ChatHandler,
		SaveProfileHandler:    page.SaveProfileHandler,
		ProfileFieldsHandler:  page.ProfileFieldsHandler,
		RestoreHistoryHandler: page.RestoreHistoryHandler,
		LoginHandler:          page.LoginHandler,
		SignupHandler:         page.SignupHandler,
		LogoutHandler:         page.LogoutHandler,
		HealthHandler:         HealthHandler,
		MetricsHandler:        metrics,
	}
}
