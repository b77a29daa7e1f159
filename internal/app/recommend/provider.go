// Package recommend provides automatic track recommendation strategies.
package recommend

import (
	"context"

	"github.com/osa030/jamroom/internal/domain/song"
)

// Context carries the room listening context given to providers.
type Context struct {
	// Current is the track playing now, if any.
	Current *song.Song
	// Recent holds recently played tracks, most recent first.
	Recent []song.Song
	// Genres are optional style hints from configuration.
	Genres []string
}

// Provider is the interface for recommendation query providers.
// Different implementations can produce search queries through various
// strategies (e.g., generative models, static fallback lists).
type Provider interface {
	// Queries produces up to count search queries for the given context.
	Queries(ctx context.Context, rctx Context, count int) ([]string, error)

	// Name returns the provider name (used in config).
	Name() string
}
