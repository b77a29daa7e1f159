package filter

import (
	"context"

	"github.com/osa030/jamroom/internal/domain/room"
	"github.com/osa030/jamroom/internal/domain/song"
)

// Chain executes filters in sequence.
type Chain struct {
	filters []Filter
}

// NewChain creates a new filter chain.
func NewChain() *Chain {
	return &Chain{
		filters: make([]Filter, 0),
	}
}

// Add adds a filter to the chain.
func (c *Chain) Add(f Filter) {
	c.filters = append(c.filters, f)
}

// Execute runs all filters in sequence and returns on the first rejection.
// Filters that declare they do not apply to the origin are skipped.
func (c *Chain) Execute(ctx context.Context, in song.Input, r *room.Room, origin Origin) Result {
	for _, f := range c.filters {
		if !f.AppliesTo(origin) {
			continue
		}

		result := f.Check(ctx, in, r)
		if !result.Accepted {
			return result
		}
	}
	return Accept()
}

// Filters returns all filters in the chain.
func (c *Chain) Filters() []Filter {
	return c.filters
}
