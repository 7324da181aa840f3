package repository

import (
	"context"

	"coldmail-backend/internal/ratelimit/domain"
)

// Store persists the daily and hourly counter tables as one document.
// Callers serialise Load/Save pairs; a Store only needs to be safe for
// sequential use.
type Store interface {
	// Load returns the stored tables, or empty tables when nothing is stored yet.
	Load(ctx context.Context) (*domain.Tables, error)

	// Save replaces the stored tables.
	Save(ctx context.Context, tables *domain.Tables) error

	// Close releases connections held by the store.
	Close() error
}
