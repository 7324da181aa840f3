package domain

import (
	"errors"
	"time"
)

const (
	DailyLimitMessage  = "Request limit exceeded. Please try again tomorrow."
	HourlyLimitMessage = "Request limit exceeded. Please try again later."
)

// ErrRateLimitExceeded is wrapped by every RateLimitError.
var ErrRateLimitExceeded = errors.New("rate limit exceeded")

// Policy holds the per-session quotas.
type Policy struct {
	DailyLimit  int
	HourlyLimit int
}

// DefaultPolicy is 15 requests per calendar day and 5 per clock hour.
func DefaultPolicy() Policy {
	return Policy{DailyLimit: 15, HourlyLimit: 5}
}

// Decision is the outcome of a quota check.
type Decision struct {
	Allowed bool
	// Reason is empty when allowed.
	Reason string
	// Window is the exhausted window when not allowed.
	Window Window
	// RetryAfter is the time until the exhausted bucket rolls over.
	RetryAfter  time.Duration
	DailyCount  int
	HourlyCount int
}

// Usage reports a session's counts in the current buckets.
type Usage struct {
	SessionID       string `json:"session_id"`
	DailyCount      int    `json:"daily_count"`
	DailyLimit      int    `json:"daily_limit"`
	DailyRemaining  int    `json:"daily_remaining"`
	HourlyCount     int    `json:"hourly_count"`
	HourlyLimit     int    `json:"hourly_limit"`
	HourlyRemaining int    `json:"hourly_remaining"`
}

// Decide applies the policy to the session's counts in the buckets containing now.
// The tables must already be pruned. The daily limit is checked first, so a session
// over both limits gets the daily message.
func (p Policy) Decide(t *Tables, sessionID string, now time.Time) Decision {
	daily := t.Daily.Count(WindowDaily.Label(now), sessionID)
	hourly := t.Hourly.Count(WindowHourly.Label(now), sessionID)

	d := Decision{Allowed: true, DailyCount: daily, HourlyCount: hourly}
	switch {
	case daily >= p.DailyLimit:
		d.Allowed = false
		d.Reason = DailyLimitMessage
		d.Window = WindowDaily
		d.RetryAfter = WindowDaily.Start(now).AddDate(0, 0, 1).Sub(now)
	case hourly >= p.HourlyLimit:
		d.Allowed = false
		d.Reason = HourlyLimitMessage
		d.Window = WindowHourly
		d.RetryAfter = WindowHourly.Start(now).Add(time.Hour).Sub(now)
	}
	return d
}

// Usage summarises the session's counts against the policy.
func (p Policy) Usage(t *Tables, sessionID string, now time.Time) Usage {
	daily := t.Daily.Count(WindowDaily.Label(now), sessionID)
	hourly := t.Hourly.Count(WindowHourly.Label(now), sessionID)
	return Usage{
		SessionID:       sessionID,
		DailyCount:      daily,
		DailyLimit:      p.DailyLimit,
		DailyRemaining:  max(p.DailyLimit-daily, 0),
		HourlyCount:     hourly,
		HourlyLimit:     p.HourlyLimit,
		HourlyRemaining: max(p.HourlyLimit-hourly, 0),
	}
}

// RateLimitError is returned when a session has exhausted a quota.
type RateLimitError struct {
	Decision Decision
}

func (e *RateLimitError) Error() string {
	if e.Decision.Reason != "" {
		return e.Decision.Reason
	}
	return ErrRateLimitExceeded.Error()
}

func (e *RateLimitError) Unwrap() error {
	return ErrRateLimitExceeded
}

// NewRateLimitError creates a RateLimitError from a denied decision.
func NewRateLimitError(d Decision) *RateLimitError {
	return &RateLimitError{Decision: d}
}
