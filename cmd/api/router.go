package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to Sales Cold Email Generator"})
	})

	if h.metrics != nil {
		r.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Email generation, guarded per client IP against floods
		generate := api.Group("/email")
		if h.burstGuard != nil {
			generate.Use(h.burstGuard.Middleware())
		}
		{
			generate.POST("/generate", h.emailHandler.GenerateEmail)
		}

		emails := api.Group("/emails")
		{
			emails.GET("/saved", h.emailHandler.GetSavedEmails)
			emails.DELETE("/:email_id", h.emailHandler.DeleteEmail)
		}

		api.GET("/analytics", h.emailHandler.GetAnalytics)
		api.GET("/ratelimit/usage", h.rateLimitHandler.GetUsage)

		// Read-only runtime settings
		settings := api.Group("/settings")
		{
			settings.GET("", h.settingsHandler.GetSettings)
			settings.POST("/ai/test", h.settingsHandler.TestAIConnection)
		}
	}
}
