package delivery

import (
	"net/http"

	"coldmail-backend/internal/ratelimit/usecase"

	"github.com/gin-gonic/gin"
)

// RateLimitHandler exposes quota usage.
type RateLimitHandler struct {
	rateLimitUsecase usecase.RateLimitUsecase
	sessions         *SessionResolver
}

// NewRateLimitHandler creates a new RateLimitHandler
func NewRateLimitHandler(rateLimitUsecase usecase.RateLimitUsecase, sessions *SessionResolver) *RateLimitHandler {
	return &RateLimitHandler{
		rateLimitUsecase: rateLimitUsecase,
		sessions:         sessions,
	}
}

// GET /api/ratelimit/usage?session_id=
func (h *RateLimitHandler) GetUsage(c *gin.Context) {
	sessionID := h.sessions.Resolve(c, c.Query("session_id"))
	c.JSON(http.StatusOK, h.rateLimitUsecase.Usage(c.Request.Context(), sessionID))
}
