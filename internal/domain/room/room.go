// Package room provides the Room aggregate and Participant entity.
package room

import (
	"time"

	"github.com/google/uuid"

	"github.com/osa030/jamroom/internal/domain/song"
)

// Participant represents a member of a room.
type Participant struct {
	ID         string    `json:"id"`         // UUID
	Name       string    `json:"name"`       // Display name (unique within a room)
	Initials   string    `json:"initials"`   // Short label shown in the UI
	SongsAdded int       `json:"songsAdded"` // Number of songs this participant enqueued
	JoinedAt   time.Time `json:"joinedAt"`   // Join time
}

// NewParticipant creates a participant with a fresh identity.
func NewParticipant(name, initials string) Participant {
	return Participant{
		ID:       uuid.New().String(),
		Name:     name,
		Initials: initials,
		JoinedAt: time.Now(),
	}
}

// Room is the aggregate root for one collaborative session.
// A nil CurrentTrack means the room is idle; the invariant
// "idle implies not playing and offset zero" is maintained by the store.
type Room struct {
	ID            string        `json:"id"`
	Code          string        `json:"code"` // Human-entered join code, unique across rooms
	Name          string        `json:"name"`
	CurrentTrack  *song.Song    `json:"currentTrack"`
	Queue         []song.Song   `json:"queue"`
	Participants  []Participant `json:"participants"`
	IsPlaying     bool          `json:"isPlaying"`
	CurrentTime   float64       `json:"currentTime"` // Playback offset in seconds
	AutoSelection bool          `json:"autoSelection"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// New creates an idle room.
func New(code, name string) *Room {
	return &Room{
		ID:           uuid.New().String(),
		Code:         code,
		Name:         name,
		Queue:        make([]song.Song, 0),
		Participants: make([]Participant, 0),
		CreatedAt:    time.Now(),
	}
}

// Clone returns a deep copy of the room so callers can hand out
// snapshots without exposing the store's internal state.
func (r *Room) Clone() *Room {
	c := *r
	if r.CurrentTrack != nil {
		ct := *r.CurrentTrack
		c.CurrentTrack = &ct
	}
	c.Queue = make([]song.Song, len(r.Queue))
	copy(c.Queue, r.Queue)
	c.Participants = make([]Participant, len(r.Participants))
	copy(c.Participants, r.Participants)
	return &c
}

// FindParticipant returns the participant with the given display name.
func (r *Room) FindParticipant(name string) (*Participant, bool) {
	for i := range r.Participants {
		if r.Participants[i].Name == name {
			return &r.Participants[i], true
		}
	}
	return nil, false
}

// HasQueuedSong reports whether a song with the given ID is in the queue.
func (r *Room) HasQueuedSong(songID string) bool {
	for _, s := range r.Queue {
		if s.ID == songID {
			return true
		}
	}
	return false
}

// ContainsVideo reports whether the given external video ID is the current
// track or anywhere in the queue.
func (r *Room) ContainsVideo(youtubeID string) bool {
	if r.CurrentTrack != nil && r.CurrentTrack.YoutubeID == youtubeID {
		return true
	}
	for _, s := range r.Queue {
		if s.YoutubeID == youtubeID {
			return true
		}
	}
	return false
}
