package recommend

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// ProviderWithMetadata wraps a provider with its metadata.
type ProviderWithMetadata struct {
	Provider    Provider
	DisplayName string
}

// ProviderChain tries providers in order and uses the first one that
// produces queries.
type ProviderChain struct {
	providers []ProviderWithMetadata
}

// NewProviderChain creates a new provider chain.
func NewProviderChain(providers []ProviderWithMetadata) *ProviderChain {
	return &ProviderChain{
		providers: providers,
	}
}

// Queries returns queries from the first provider that succeeds.
func (c *ProviderChain) Queries(ctx context.Context, rctx Context, count int) ([]string, error) {
	for i, pm := range c.providers {
		zlog.Debug().Msgf("trying provider: index=%d total=%d name=%s provider_type=%s",
			i+1, len(c.providers), pm.DisplayName, pm.Provider.Name())

		queries, err := pm.Provider.Queries(ctx, rctx, count)
		if err != nil {
			zlog.Warn().Msgf("provider failed, trying next: provider=%s error=%v", pm.DisplayName, err)
			continue
		}
		if len(queries) == 0 {
			zlog.Debug().Msgf("provider returned no queries: provider=%s", pm.DisplayName)
			continue
		}

		zlog.Info().Msgf("provider returned queries: provider=%s count=%d", pm.DisplayName, len(queries))
		return queries, nil
	}

	return nil, errors.New("all providers failed to return queries")
}

// Name returns the chain name.
func (c *ProviderChain) Name() string {
	return "provider_chain"
}
