package filter

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/jamroom/internal/domain/room"
	"github.com/osa030/jamroom/internal/domain/song"
)

// QueueLimitConfig represents the configuration for QueueLimitFilter.
type QueueLimitConfig struct {
	MaxLength int `yaml:"max_length" mapstructure:"max_length" default:"50" validate:"gte=1"`
}

// QueueLimitFilter rejects requests when the room queue is full.
type QueueLimitFilter struct {
	config *QueueLimitConfig
}

// NewQueueLimitFilter creates a new queue limit filter.
func NewQueueLimitFilter() *QueueLimitFilter {
	return &QueueLimitFilter{}
}

func (f *QueueLimitFilter) Name() string {
	return "queue_limit"
}

func (f *QueueLimitFilter) Description() string {
	return "Rejects requests when the room queue is at its maximum length"
}

func (f *QueueLimitFilter) ReturnCodes() []string {
	return []string{"queue_full"}
}

func (f *QueueLimitFilter) ValidateConfig(settings map[string]any) error {
	var config QueueLimitConfig

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &config,
		TagName: "mapstructure",
	})
	if err != nil {
		return errors.Wrap(err, "failed to create decoder")
	}
	if err := decoder.Decode(settings); err != nil {
		return errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(&config); err != nil {
		return errors.Wrap(err, "failed to set defaults")
	}
	if err := validator.New().Struct(config); err != nil {
		return errors.Wrap(err, "validation failed")
	}

	f.config = &config
	zlog.Info().Msgf("queue limit filter config: %+v", config)
	return nil
}

func (f *QueueLimitFilter) AppliesTo(origin Origin) bool {
	// The queue cap protects the room from both users and the auto DJ.
	return true
}

func (f *QueueLimitFilter) Check(ctx context.Context, in song.Input, r *room.Room) Result {
	if f.config == nil {
		return Accept()
	}

	if len(r.Queue) >= f.config.MaxLength {
		return Reject("queue_full")
	}
	return Accept()
}

func init() {
	Register("queue_limit", func() Filter {
		return NewQueueLimitFilter()
	})
}
