// Package filter provides the filter chain that validates enqueue requests.
package filter

import (
	"context"
	"sort"

	"github.com/osa030/jamroom/internal/domain/room"
	"github.com/osa030/jamroom/internal/domain/song"
)

// Origin identifies who produced an enqueue request.
type Origin string

const (
	OriginUser Origin = "USER" // A participant's own request
	OriginAuto Origin = "AUTO" // The auto-recommendation pipeline
)

// Result represents the result of a filter check.
type Result struct {
	Accepted bool
	Code     string // e.g. "duplicate_track", "queue_full"
}

// Accept returns an accepted result.
func Accept() Result {
	return Result{Accepted: true}
}

// Reject returns a rejected result with the given code.
func Reject(code string) Result {
	return Result{Accepted: false, Code: code}
}

// Filter is the interface for enqueue request filters.
type Filter interface {
	// Name returns the filter name (used in config).
	Name() string
	// Description returns a human-readable description.
	Description() string
	// ReturnCodes returns the codes this filter can return.
	ReturnCodes() []string
	// ValidateConfig validates and applies the filter configuration.
	ValidateConfig(settings map[string]any) error
	// AppliesTo returns true if this filter should be applied to requests
	// from the given origin.
	AppliesTo(origin Origin) bool
	// Check inspects the requested song against a room snapshot.
	Check(ctx context.Context, in song.Input, r *room.Room) Result
}

// registry holds registered filter factories.
var registry = make(map[string]func() Filter)

// Register registers a filter factory.
func Register(name string, factory func() Filter) {
	registry[name] = factory
}

// GetRegistered returns all registered filter factories.
func GetRegistered() map[string]func() Filter {
	return registry
}

// Names returns the registered filter names in sorted order, so chains
// built from the registry check filters in a stable order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
