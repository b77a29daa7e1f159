// Package playback orchestrates room operations: queueing, the playback
// state machine, and event fanout.
package playback

import "github.com/osa030/jamroom/internal/domain/room"

// State is the playback state of a room.
type State int

const (
	// StateIdle means no current track.
	StateIdle State = iota
	// StatePlaying means the current track is advancing.
	StatePlaying
	// StatePaused means a current track exists but is stopped.
	StatePaused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// StateOf derives the playback state from a room snapshot.
func StateOf(r *room.Room) State {
	switch {
	case r.CurrentTrack == nil:
		return StateIdle
	case r.IsPlaying:
		return StatePlaying
	default:
		return StatePaused
	}
}
