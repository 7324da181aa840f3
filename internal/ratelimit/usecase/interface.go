package usecase

import (
	"context"

	"coldmail-backend/internal/ratelimit/domain"
)

// RateLimitUsecase enforces the per-session daily and hourly quotas.
type RateLimitUsecase interface {
	// Check prunes stale buckets, persists the pruned tables and reports whether
	// the session may make another request. It does not count the request.
	Check(ctx context.Context, sessionID string) domain.Decision

	// Increment counts one request in the current daily and hourly buckets.
	Increment(ctx context.Context, sessionID string) error

	// Acquire checks and, when allowed, increments in one critical section.
	Acquire(ctx context.Context, sessionID string) domain.Decision

	// Prune drops stale buckets from the store and returns how many were removed.
	Prune(ctx context.Context) (int, error)

	// Usage reports the session's counts without modifying anything.
	Usage(ctx context.Context, sessionID string) domain.Usage
}
