package ai

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strings"
)

// FallbackService routes a prompt to the primary provider and, only when the primary is
// unreachable or out of quota, hands the same prompt once to a different secondary provider.
// It never calls the same provider twice.
type FallbackService struct {
	primary   TextGenerator
	secondary TextGenerator
}

// NewFallbackService creates a new fallback service with both providers
func NewFallbackService(primary, secondary TextGenerator) *FallbackService {
	return &FallbackService{
		primary:   primary,
		secondary: secondary,
	}
}

func (f *FallbackService) Provider() ProviderType {
	return ProviderAuto
}

// isConnectionError checks if the error is a network/connection error
func isConnectionError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	connectionIndicators := []string{
		"connection refused",
		"no such host",
		"network is unreachable",
		"connection reset",
		"timeout",
		"dial tcp",
		"eof",
	}

	for _, indicator := range connectionIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}

	return false
}

// isQuotaError checks if the error indicates API quota exhaustion (429)
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}

	var ge *GenerationError
	if errors.As(err, &ge) && ge.StatusCode == 429 {
		return true
	}

	errStr := strings.ToLower(err.Error())
	quotaIndicators := []string{
		"quota",
		"rate limit",
		"too many requests",
		"resource exhausted",
		"resource_exhausted",
	}

	for _, indicator := range quotaIndicators {
		if strings.Contains(errStr, indicator) {
			return true
		}
	}

	return false
}

// Generate tries the primary provider, then the secondary on connection or quota errors.
// The secondary always runs with its own default model.
func (f *FallbackService) Generate(ctx context.Context, p Prompt) (string, error) {
	text, err := f.primary.Generate(ctx, p)
	if err == nil {
		return text, nil
	}

	if f.secondary == nil || !(isConnectionError(err) || isQuotaError(err)) {
		return "", err
	}

	slog.Warn("[AI] primary provider failed, falling back",
		"primary", f.primary.Provider(),
		"secondary", f.secondary.Provider(),
		"error", err)

	fallback := p
	fallback.Model = ""
	return f.secondary.Generate(ctx, fallback)
}
