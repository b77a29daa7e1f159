package playback

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/jamroom/internal/app/filter"
	"github.com/osa030/jamroom/internal/domain/room"
	"github.com/osa030/jamroom/internal/domain/song"
	"github.com/osa030/jamroom/internal/realtime"
	"github.com/osa030/jamroom/internal/store"
)

// ErrNoTrack is returned by playback operations on an idle room.
var ErrNoTrack = errors.New("no current track")

// RejectedError is returned when an enqueue filter rejects a song.
type RejectedError struct {
	Code string
}

func (e *RejectedError) Error() string {
	return "song rejected: " + e.Code
}

// Publisher defines the event fanout operations needed by the controller.
type Publisher interface {
	Publish(roomID string, msg realtime.ServerMessage)
}

// Trigger defines the auto-selection operations needed by the controller.
type Trigger interface {
	// MaybeRun refills the room in the background if it needs it.
	MaybeRun(roomID string)
	// Run performs one refill pass unconditionally.
	Run(ctx context.Context, roomID string) error
}

// Controller coordinates the store, enqueue filters, event fanout, and
// auto-selection. All mutations go through here so every change reaches
// subscribers.
type Controller struct {
	store    store.Store
	filters  *filter.Chain
	hub      Publisher
	selector Trigger
}

// NewController creates a new Controller.
func NewController(st store.Store, filters *filter.Chain, hub Publisher, selector Trigger) *Controller {
	return &Controller{
		store:    st,
		filters:  filters,
		hub:      hub,
		selector: selector,
	}
}

// CreateRoom creates a room. An empty code means one is generated.
func (c *Controller) CreateRoom(code, name string) (*room.Room, error) {
	r, err := c.store.CreateRoom(code, name)
	if err != nil {
		return nil, err
	}
	zlog.Info().Msgf("room created: id=%s code=%s name=%s", r.ID, r.Code, r.Name)
	return r, nil
}

// GetRoom returns a room snapshot by ID.
func (c *Controller) GetRoom(roomID string) (*room.Room, error) {
	return c.store.GetRoom(roomID)
}

// GetRoomByCode returns a room snapshot by join code.
func (c *Controller) GetRoomByCode(code string) (*room.Room, error) {
	return c.store.GetRoomByCode(code)
}

// Join adds a participant. Joining again with the same name returns the
// existing participant. Empty initials are derived from the name.
func (c *Controller) Join(roomID, name, initials string) (room.Participant, error) {
	if initials == "" {
		initials = deriveInitials(name)
	}

	p, snap, err := c.store.AddParticipant(roomID, name, initials)
	if err != nil {
		return room.Participant{}, err
	}

	c.hub.Publish(roomID, realtime.ServerMessage{Type: realtime.EventParticipantsUpdated, Data: snap})
	return p, nil
}

// Leave removes a participant.
func (c *Controller) Leave(roomID, participantID string) error {
	snap, err := c.store.RemoveParticipant(roomID, participantID)
	if err != nil {
		return err
	}

	c.hub.Publish(roomID, realtime.ServerMessage{Type: realtime.EventParticipantsUpdated, Data: snap})
	return nil
}

// AddSong runs the enqueue filters and appends the song to the queue.
// On an idle room the song starts playing immediately.
func (c *Controller) AddSong(ctx context.Context, roomID string, in song.Input) (song.Song, error) {
	r, err := c.store.GetRoom(roomID)
	if err != nil {
		return song.Song{}, err
	}

	if result := c.filters.Execute(ctx, in, r, filter.OriginUser); !result.Accepted {
		zlog.Debug().Msgf("song rejected by filter: room=%s video=%s code=%s", roomID, in.YoutubeID, result.Code)
		return song.Song{}, &RejectedError{Code: result.Code}
	}

	s, snap, err := c.store.AddSong(roomID, in)
	if err != nil {
		return song.Song{}, err
	}

	if snap.CurrentTrack != nil && snap.CurrentTrack.ID == s.ID {
		// Auto-start: the song went straight to playback.
		c.hub.Publish(roomID, realtime.ServerMessage{Type: realtime.EventTrackChanged, Data: snap})
		c.publishPlayback(roomID, snap)
	} else {
		c.hub.Publish(roomID, realtime.ServerMessage{Type: realtime.EventQueueUpdated, Data: snap})
	}

	return s, nil
}

// RemoveSong removes a song from the queue. A song that is not there is
// a no-op success.
func (c *Controller) RemoveSong(roomID, songID string) error {
	snap, err := c.store.RemoveFromQueue(roomID, songID)
	if err != nil {
		return err
	}

	c.hub.Publish(roomID, realtime.ServerMessage{Type: realtime.EventQueueUpdated, Data: snap})
	return nil
}

// ClearQueue empties the queue. The current track keeps playing.
func (c *Controller) ClearQueue(roomID string) error {
	snap, err := c.store.ClearQueue(roomID)
	if err != nil {
		return err
	}

	c.hub.Publish(roomID, realtime.ServerMessage{Type: realtime.EventQueueUpdated, Data: snap})
	return nil
}

// Play resumes playback at the client-reported position.
func (c *Controller) Play(roomID string, seconds float64) error {
	return c.setPlaying(roomID, true, seconds)
}

// Pause stops playback at the client-reported position.
func (c *Controller) Pause(roomID string, seconds float64) error {
	return c.setPlaying(roomID, false, seconds)
}

func (c *Controller) setPlaying(roomID string, playing bool, seconds float64) error {
	r, err := c.store.GetRoom(roomID)
	if err != nil {
		return err
	}
	if r.CurrentTrack == nil {
		return ErrNoTrack
	}

	snap, err := c.store.UpdatePlaybackState(roomID, playing, seconds)
	if err != nil {
		return err
	}

	c.publishPlayback(roomID, snap)
	return nil
}

// Sync records a client-reported playback position without changing
// the playing flag. Position reports are frequent and advisory, so no
// event is broadcast.
func (c *Controller) Sync(roomID string, seconds float64) error {
	r, err := c.store.GetRoom(roomID)
	if err != nil {
		return err
	}
	_, err = c.store.UpdatePlaybackState(roomID, r.IsPlaying, seconds)
	return err
}

// Advance moves to the next queued track, or idles the room when the
// queue is empty. The queue may need refilling afterwards.
func (c *Controller) Advance(roomID string) (*room.Room, error) {
	r, err := c.store.GetRoom(roomID)
	if err != nil {
		return nil, err
	}
	if r.CurrentTrack == nil {
		return nil, ErrNoTrack
	}

	snap, err := c.store.PopNextTrack(roomID)
	if err != nil {
		return nil, err
	}

	c.hub.Publish(roomID, realtime.ServerMessage{Type: realtime.EventTrackChanged, Data: snap})
	c.publishPlayback(roomID, snap)

	c.selector.MaybeRun(roomID)
	return snap, nil
}

// Restart replays the current track from the beginning.
func (c *Controller) Restart(roomID string) error {
	r, err := c.store.GetRoom(roomID)
	if err != nil {
		return err
	}
	if r.CurrentTrack == nil {
		return ErrNoTrack
	}

	snap, err := c.store.UpdatePlaybackState(roomID, true, 0)
	if err != nil {
		return err
	}

	c.publishPlayback(roomID, snap)
	return nil
}

// ToggleAutoSelection flips the auto-selection toggle. Turning it on
// may refill the queue right away.
func (c *Controller) ToggleAutoSelection(roomID string) (bool, error) {
	on, snap, err := c.store.ToggleAutoSelection(roomID)
	if err != nil {
		return false, err
	}

	c.hub.Publish(roomID, realtime.ServerMessage{
		Type: realtime.EventAutoSelectionToggled,
		Data: realtime.AutoSelectionState{AutoSelection: snap.AutoSelection},
	})

	if on {
		c.selector.MaybeRun(roomID)
	}
	return on, nil
}

// Recommend forces one auto-selection pass regardless of queue depth.
func (c *Controller) Recommend(ctx context.Context, roomID string) error {
	if _, err := c.store.GetRoom(roomID); err != nil {
		return err
	}
	return c.selector.Run(ctx, roomID)
}

func (c *Controller) publishPlayback(roomID string, snap *room.Room) {
	c.hub.Publish(roomID, realtime.ServerMessage{
		Type: realtime.EventPlaybackStateChanged,
		Data: realtime.PlaybackState{IsPlaying: snap.IsPlaying, CurrentTime: snap.CurrentTime},
	})
}

// deriveInitials builds participant initials from a display name: the
// first letter of up to two words, uppercased.
func deriveInitials(name string) string {
	words := strings.Fields(name)
	var b strings.Builder
	for i, w := range words {
		if i == 2 {
			break
		}
		runes := []rune(w)
		b.WriteString(strings.ToUpper(string(runes[0])))
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}
