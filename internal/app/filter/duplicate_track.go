package filter

import (
	"context"
	"regexp"
	"strings"

	"github.com/osa030/jamroom/internal/domain/room"
	"github.com/osa030/jamroom/internal/domain/song"
)

// DuplicateTrackFilter rejects songs already present in the room.
// Detects:
// - exact video ID matches against the current track or the queue
// - re-uploads of the same song (normalized title + same artist)
// Covers (same title, different artist) are allowed.
type DuplicateTrackFilter struct{}

// NewDuplicateTrackFilter creates a new duplicate track filter.
func NewDuplicateTrackFilter() *DuplicateTrackFilter {
	return &DuplicateTrackFilter{}
}

func (f *DuplicateTrackFilter) Name() string {
	return "duplicate_track"
}

func (f *DuplicateTrackFilter) Description() string {
	return "Rejects songs already playing or queued in the room"
}

func (f *DuplicateTrackFilter) ReturnCodes() []string {
	return []string{"duplicate_track"}
}

func (f *DuplicateTrackFilter) ValidateConfig(settings map[string]any) error {
	// No configuration needed
	return nil
}

func (f *DuplicateTrackFilter) AppliesTo(origin Origin) bool {
	// The recommendation pipeline deduplicates against the queue itself.
	return origin == OriginUser
}

func (f *DuplicateTrackFilter) Check(ctx context.Context, in song.Input, r *room.Room) Result {
	if r.ContainsVideo(in.YoutubeID) {
		return Reject("duplicate_track")
	}

	if r.CurrentTrack != nil && isSameSong(*r.CurrentTrack, in) {
		return Reject("duplicate_track")
	}
	for _, queued := range r.Queue {
		if isSameSong(queued, in) {
			return Reject("duplicate_track")
		}
	}

	return Accept()
}

// isSameSong reports whether the queued song and the request are the same
// recording under a different video ID.
func isSameSong(queued song.Song, in song.Input) bool {
	if normalizeTitle(queued.Title) != normalizeTitle(in.Title) {
		return false
	}
	// Same normalized title with a different artist is a cover, which is fine.
	return strings.EqualFold(strings.TrimSpace(queued.Artist), strings.TrimSpace(in.Artist))
}

var (
	qualifierPattern  = regexp.MustCompile(`\s*[(\[][^)\]]*(remaster|live|version|edit|video|audio|mv|lyrics)[^)\]]*[)\]]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// normalizeTitle strips common upload qualifiers so "Song (Official Video)"
// and "Song [Live]" compare equal to "Song".
func normalizeTitle(title string) string {
	normalized := strings.ToLower(title)
	normalized = qualifierPattern.ReplaceAllString(normalized, "")
	normalized = whitespacePattern.ReplaceAllString(normalized, " ")
	return strings.TrimSpace(normalized)
}

func init() {
	Register("duplicate_track", func() Filter {
		return NewDuplicateTrackFilter()
	})
}
