// Package store provides the room store, the single source of truth for
// all mutable room state.
package store

import (
	"github.com/cockroachdb/errors"

	"github.com/osa030/jamroom/internal/domain/room"
	"github.com/osa030/jamroom/internal/domain/song"
)

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrDuplicateCode = errors.New("room code already in use")
)

// Store owns room state. Every mutation is atomic with respect to other
// operations on the same room, and every returned *room.Room is a snapshot
// that callers may inspect or serialize freely.
type Store interface {
	// CreateRoom creates an idle room. An empty code means the store
	// generates one; a duplicate code fails with ErrDuplicateCode.
	CreateRoom(code, name string) (*room.Room, error)

	GetRoom(roomID string) (*room.Room, error)
	GetRoomByCode(code string) (*room.Room, error)

	// AddParticipant is idempotent by display name: joining again with the
	// same name returns the existing participant.
	AddParticipant(roomID, name, initials string) (room.Participant, *room.Room, error)
	RemoveParticipant(roomID, participantID string) (*room.Room, error)

	// AddSong appends a new song to the queue and bumps the requester's
	// counter. If the room was idle with an empty queue the song instead
	// becomes the current track immediately (auto-start).
	AddSong(roomID string, in song.Input) (song.Song, *room.Room, error)

	// RemoveFromQueue removes a song by ID. A missing song is a no-op
	// success; only a missing room is an error.
	RemoveFromQueue(roomID, songID string) (*room.Room, error)
	ClearQueue(roomID string) (*room.Room, error)

	// SetCurrentTrack replaces the current track and resets the offset to
	// zero. The playing flag is left for callers to decide.
	SetCurrentTrack(roomID string, s *song.Song) (*room.Room, error)

	// UpdatePlaybackState sets the playing flag and offset together as one
	// atomic pair. The offset is clamped to [0, track duration].
	UpdatePlaybackState(roomID string, playing bool, seconds float64) (*room.Room, error)

	// PopNextTrack promotes the queue head to current track (playing, offset
	// zero), or idles the room when the queue is empty.
	PopNextTrack(roomID string) (*room.Room, error)

	// ToggleAutoSelection flips the toggle and returns the new value.
	ToggleAutoSelection(roomID string) (bool, *room.Room, error)

	// GetRecentTracks returns recently played songs, most recent first.
	GetRecentTracks(roomID string, limit int) ([]song.Song, error)
}
