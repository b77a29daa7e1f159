// Package song provides the Song domain entity.
package song

import (
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// ErrInvalid indicates malformed song input. No mutation is performed
// when it is returned.
var ErrInvalid = errors.New("invalid song data")

// Song represents a playable item in a room. Immutable once created;
// it is only ever moved between the queue, the current-track slot and
// the recent history.
type Song struct {
	ID          string    `json:"id"`          // Internal UUID
	YoutubeID   string    `json:"youtubeId"`   // External source video ID
	Title       string    `json:"title"`       // Track title
	Artist      string    `json:"artist"`      // Artist / channel name
	Duration    string    `json:"duration"`    // Display duration ("3:45", "1:02:03")
	Thumbnail   string    `json:"thumbnail"`   // Thumbnail URL
	RequestedBy string    `json:"requestedBy"` // Display name of the requester
	RequestedAt time.Time `json:"requestedAt"` // Time the song was created
}

// Input holds the caller-supplied fields of a song to be created.
type Input struct {
	YoutubeID   string `json:"youtubeId" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Artist      string `json:"artist"`
	Duration    string `json:"duration"`
	Thumbnail   string `json:"thumbnail"`
	RequestedBy string `json:"requestedBy" binding:"required"`
}

// Validate checks the required fields.
func (in Input) Validate() error {
	switch {
	case strings.TrimSpace(in.YoutubeID) == "":
		return errors.Wrap(ErrInvalid, "youtubeId is required")
	case strings.TrimSpace(in.Title) == "":
		return errors.Wrap(ErrInvalid, "title is required")
	case strings.TrimSpace(in.RequestedBy) == "":
		return errors.Wrap(ErrInvalid, "requestedBy is required")
	}
	return nil
}

// New creates a Song from caller input, stamping identity and creation time.
func New(in Input) (Song, error) {
	if err := in.Validate(); err != nil {
		return Song{}, err
	}
	return Song{
		ID:          uuid.New().String(),
		YoutubeID:   in.YoutubeID,
		Title:       in.Title,
		Artist:      in.Artist,
		Duration:    in.Duration,
		Thumbnail:   in.Thumbnail,
		RequestedBy: in.RequestedBy,
		RequestedAt: time.Now(),
	}, nil
}

// DurationSeconds parses the display duration into seconds.
func (s Song) DurationSeconds() int {
	return ParseDuration(s.Duration)
}

// ParseDuration parses a display duration into seconds.
// Accepts "S", "M:SS" and "H:MM:SS"; malformed input yields 0.
func ParseDuration(d string) int {
	if d == "" {
		return 0
	}

	parts := strings.Split(d, ":")
	if len(parts) > 3 {
		return 0
	}

	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return 0
		}
		total = total*60 + n
	}
	return total
}
