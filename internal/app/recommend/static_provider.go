package recommend

import (
	"context"
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

type StaticProviderConfig struct {
	Queries []string `yaml:"queries" mapstructure:"queries" validate:"required,min=1"`
}

// StaticProvider serves queries from a fixed list. It is the fallback
// at the end of the chain when generative providers are unavailable.
type StaticProvider struct {
	config *StaticProviderConfig
}

// DefaultQueries are used when a static provider is configured without
// an explicit query list.
var DefaultQueries = []string{
	"popular korean music 2024",
	"trending pop songs",
	"chill music playlist",
}

// NewStaticProvider creates a new StaticProvider.
func NewStaticProvider(settings map[string]any) (*StaticProvider, error) {
	var config StaticProviderConfig
	if err := mapstructure.Decode(settings, &config); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	if len(config.Queries) == 0 {
		config.Queries = append([]string{}, DefaultQueries...)
	}
	if err := defaults.Set(&config); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(config); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}

	return &StaticProvider{config: &config}, nil
}

// Queries returns up to count queries picked at random from the list.
func (p *StaticProvider) Queries(_ context.Context, _ Context, count int) ([]string, error) {
	if count <= 0 {
		return []string{}, nil
	}

	pool := append([]string{}, p.config.Queries...)

	var cryptoSeed int64
	var buf [8]byte
	if _, err := cryptoRand.Read(buf[:]); err == nil {
		cryptoSeed = int64(binary.LittleEndian.Uint64(buf[:]))
	} else {
		cryptoSeed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(cryptoSeed))

	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	if count > len(pool) {
		count = len(pool)
	}
	return pool[:count], nil
}

// Name returns the provider name.
func (p *StaticProvider) Name() string {
	return "static"
}
