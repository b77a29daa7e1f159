package recommend

import (
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/jamroom/internal/infra/config"
)

// NewProviderChainFromConfig creates a provider chain from configuration.
func NewProviderChainFromConfig(cfg *config.Config) (*ProviderChain, error) {
	if len(cfg.Recommend.Providers) == 0 {
		return nil, errors.New("no recommendation providers configured")
	}

	var providers []ProviderWithMetadata

	for i, pcfg := range cfg.Recommend.Providers {
		var provider Provider
		var err error
		zlog.Debug().Msgf("creating recommendation provider: index=%d type=%s", i+1, pcfg.Type)
		switch pcfg.Type {
		case "gemini":
			provider, err = NewGeminiProvider(pcfg.Settings)

		case "static":
			provider, err = NewStaticProvider(pcfg.Settings)

		default:
			return nil, errors.Newf("unsupported provider type: %s (provider index %d)", pcfg.Type, i)
		}

		if err != nil {
			return nil, errors.Wrapf(err, "failed to create provider (index %d, type %s)", i, pcfg.Type)
		}

		providers = append(providers, ProviderWithMetadata{
			Provider:    provider,
			DisplayName: pcfg.DisplayName,
		})

		zlog.Info().Msgf("registered recommendation provider: index=%d type=%s display_name=%s", i+1, pcfg.Type, pcfg.DisplayName)
	}

	return NewProviderChain(providers), nil
}
