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

// DurationLimitConfig represents the configuration for DurationLimitFilter.
type DurationLimitConfig struct {
	MinSeconds int `yaml:"min_seconds" mapstructure:"min_seconds" default:"0" validate:"gte=0"`
	MaxSeconds int `yaml:"max_seconds" mapstructure:"max_seconds" default:"600" validate:"gte=0"`
}

// DurationLimitFilter checks if a song's duration is within allowed limits.
// Songs with an unparseable duration are accepted.
type DurationLimitFilter struct {
	config *DurationLimitConfig
}

// NewDurationLimitFilter creates a new duration limit filter.
func NewDurationLimitFilter() *DurationLimitFilter {
	return &DurationLimitFilter{}
}

func (f *DurationLimitFilter) Name() string {
	return "duration_limit"
}

func (f *DurationLimitFilter) Description() string {
	return "Checks if song duration is within allowed limits"
}

func (f *DurationLimitFilter) ReturnCodes() []string {
	return []string{"duration_limit_exceeded"}
}

func (f *DurationLimitFilter) ValidateConfig(settings map[string]any) error {
	var config DurationLimitConfig

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
	if config.MaxSeconds > 0 && config.MinSeconds > config.MaxSeconds {
		return errors.New("min_seconds cannot be greater than max_seconds")
	}

	f.config = &config
	zlog.Info().Msgf("duration limit filter config: %+v", config)
	return nil
}

func (f *DurationLimitFilter) AppliesTo(origin Origin) bool {
	// Apply to user requests only
	return origin == OriginUser
}

func (f *DurationLimitFilter) Check(ctx context.Context, in song.Input, r *room.Room) Result {
	if f.config == nil {
		return Accept()
	}

	seconds := song.ParseDuration(in.Duration)
	if seconds == 0 {
		return Accept()
	}

	if seconds < f.config.MinSeconds {
		return Reject("duration_limit_exceeded")
	}
	if f.config.MaxSeconds > 0 && seconds > f.config.MaxSeconds {
		return Reject("duration_limit_exceeded")
	}

	return Accept()
}

func init() {
	Register("duration_limit", func() Filter {
		return NewDurationLimitFilter()
	})
}
