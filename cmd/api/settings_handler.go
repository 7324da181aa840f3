package api

import (
	"context"
	"net/http"
	"time"

	"coldmail-backend/pkg/ai"
	"coldmail-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

// SettingsHandler reports the effective configuration. Secrets are never returned.
type SettingsHandler struct {
	config    *config.Config
	generator ai.TextGenerator
}

func NewSettingsHandler(cfg *config.Config, generator ai.TextGenerator) *SettingsHandler {
	return &SettingsHandler{config: cfg, generator: generator}
}

// SettingsResponse is the body of GET /api/settings
type SettingsResponse struct {
	AIProvider           string `json:"ai_provider"`
	AIModel              string `json:"ai_model"`
	RateLimitStore       string `json:"rate_limit_store"`
	DailyLimit           int    `json:"daily_limit"`
	HourlyLimit          int    `json:"hourly_limit"`
	AnonymousSessionMode string `json:"anonymous_session_mode"`
}

// GET /api/settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, SettingsResponse{
		AIProvider:           h.config.AIProvider,
		AIModel:              h.config.Model(),
		RateLimitStore:       h.config.RateLimitStore,
		DailyLimit:           h.config.DailyLimit,
		HourlyLimit:          h.config.HourlyLimit,
		AnonymousSessionMode: h.config.AnonymousSessionMode,
	})
}

// TestAIConnection checks whether the configured provider is reachable
// POST /api/settings/ai/test
func (h *SettingsHandler) TestAIConnection(c *gin.Context) {
	pinger, ok := h.generator.(ai.Pinger)
	if !ok {
		c.JSON(http.StatusNotImplemented, gin.H{
			"detail":   "connection test not supported for this provider",
			"provider": h.generator.Provider(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := pinger.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"connected": false,
			"provider":  h.generator.Provider(),
			"error":     err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"connected": true,
		"provider":  h.generator.Provider(),
	})
}
