package delivery

import (
	"strings"

	"coldmail-backend/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionResolver picks the rate-limit key for a request.
type SessionResolver struct {
	mode string
}

// NewSessionResolver creates a resolver for the anonymous session mode
// ("ip" or "random").
func NewSessionResolver(mode string) *SessionResolver {
	return &SessionResolver{mode: mode}
}

// Resolve returns the caller-supplied session id when present. Otherwise it
// keys on the client IP, or in random mode mints a fresh id per request.
func (r *SessionResolver) Resolve(c *gin.Context, provided string) string {
	if id := strings.TrimSpace(provided); id != "" {
		return id
	}
	if r.mode == config.SessionModeRandom {
		return uuid.NewString()
	}
	return "ip:" + c.ClientIP()
}
