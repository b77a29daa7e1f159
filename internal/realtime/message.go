// Package realtime provides WebSocket fanout of room events.
package realtime

import "encoding/json"

// Server event kinds pushed to subscribers.
const (
	EventRoomState            = "room_state"
	EventQueueUpdated         = "queue_updated"
	EventParticipantsUpdated  = "participants_updated"
	EventTrackChanged         = "track_changed"
	EventPlaybackStateChanged = "playback_state_changed"
	EventAutoSelectionToggled = "auto_selection_toggled"
)

// Client message types.
const (
	TypeJoinRoom = "join_room"
)

// ClientMessage represents a message received from a client.
type ClientMessage struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId,omitempty"`
}

// ServerMessage represents an event pushed to clients.
type ServerMessage struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// PlaybackState is the payload of a playback_state_changed event.
type PlaybackState struct {
	IsPlaying   bool    `json:"isPlaying"`
	CurrentTime float64 `json:"currentTime"`
}

// AutoSelectionState is the payload of an auto_selection_toggled event.
type AutoSelectionState struct {
	AutoSelection bool `json:"autoSelection"`
}

// Encode marshals the message for the wire.
func (m ServerMessage) Encode() ([]byte, error) {
	return json.Marshal(m)
}
