package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/jamroom/internal/domain/room"
	"github.com/osa030/jamroom/internal/domain/song"
)

func songInput(videoID, title, requestedBy string) song.Input {
	return song.Input{
		YoutubeID:   videoID,
		Title:       title,
		Artist:      "Artist",
		Duration:    "3:00",
		Thumbnail:   "https://img.example/t.jpg",
		RequestedBy: requestedBy,
	}
}

// assertIdleInvariant checks that a room with no current track is never
// playing and always sits at offset zero.
func assertIdleInvariant(t *testing.T, r *room.Room) {
	t.Helper()
	if r.CurrentTrack == nil {
		assert.False(t, r.IsPlaying)
		assert.Zero(t, r.CurrentTime)
	}
	assert.GreaterOrEqual(t, r.CurrentTime, 0.0)
}

func TestCreateRoom(t *testing.T) {
	s := NewMemoryStore()

	r, err := s.CreateRoom("ABCD", "Test")
	require.NoError(t, err)
	assert.Equal(t, "ABCD", r.Code)
	assert.Equal(t, "Test", r.Name)
	assert.Nil(t, r.CurrentTrack)
	assert.Empty(t, r.Queue)
	assert.Empty(t, r.Participants)
	assert.False(t, r.IsPlaying)
	assert.Zero(t, r.CurrentTime)
	assert.False(t, r.AutoSelection)

	// Duplicate code is a conflict.
	_, err = s.CreateRoom("ABCD", "Other")
	assert.ErrorIs(t, err, ErrDuplicateCode)

	// Codes are case-insensitive.
	_, err = s.CreateRoom("abcd", "Other")
	assert.ErrorIs(t, err, ErrDuplicateCode)
}

func TestCreateRoom_GeneratedCode(t *testing.T) {
	s := NewMemoryStore()

	r, err := s.CreateRoom("", "Test")
	require.NoError(t, err)
	assert.Len(t, r.Code, codeLength)

	got, err := s.GetRoomByCode(r.Code)
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)
}

func TestGetRoom(t *testing.T) {
	s := NewMemoryStore()
	created, err := s.CreateRoom("ABCD", "Test")
	require.NoError(t, err)

	r, err := s.GetRoom(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, r.ID)

	_, err = s.GetRoom("missing")
	assert.ErrorIs(t, err, ErrRoomNotFound)

	byCode, err := s.GetRoomByCode("abcd")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byCode.ID)

	_, err = s.GetRoomByCode("ZZZZ")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestAddParticipant_IdempotentJoin(t *testing.T) {
	s := NewMemoryStore()
	r, err := s.CreateRoom("ABCD", "Test")
	require.NoError(t, err)

	p1, snap, err := s.AddParticipant(r.ID, "Alice", "AL")
	require.NoError(t, err)
	assert.Len(t, snap.Participants, 1)

	// Same name joins again: same identity, no duplicate entry.
	p2, snap, err := s.AddParticipant(r.ID, "Alice", "AL")
	require.NoError(t, err)
	assert.Equal(t, p1.ID, p2.ID)
	assert.Len(t, snap.Participants, 1)

	_, _, err = s.AddParticipant("missing", "Bob", "BO")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRemoveParticipant(t *testing.T) {
	s := NewMemoryStore()
	r, err := s.CreateRoom("ABCD", "Test")
	require.NoError(t, err)

	p, _, err := s.AddParticipant(r.ID, "Alice", "AL")
	require.NoError(t, err)

	snap, err := s.RemoveParticipant(r.ID, p.ID)
	require.NoError(t, err)
	assert.Empty(t, snap.Participants)

	// Removing an unknown participant is a no-op success.
	snap, err = s.RemoveParticipant(r.ID, "missing")
	require.NoError(t, err)
	assert.Empty(t, snap.Participants)
}

func TestAddSong_AutoStart(t *testing.T) {
	s := NewMemoryStore()
	r, err := s.CreateRoom("ABCD", "Test")
	require.NoError(t, err)
	_, _, err = s.AddParticipant(r.ID, "Alice", "AL")
	require.NoError(t, err)

	// First song into an idle room becomes the current track immediately.
	t1, snap, err := s.AddSong(r.ID, songInput("v1", "T1", "Alice"))
	require.NoError(t, err)
	require.NotNil(t, snap.CurrentTrack)
	assert.Equal(t, t1.ID, snap.CurrentTrack.ID)
	assert.Empty(t, snap.Queue)
	assert.True(t, snap.IsPlaying)
	assert.Zero(t, snap.CurrentTime)
	assert.Equal(t, 1, snap.Participants[0].SongsAdded)
	assertIdleInvariant(t, snap)
}

func TestAddSong_AppendsWhilePlaying(t *testing.T) {
	s := NewMemoryStore()
	r, err := s.CreateRoom("ABCD", "Test")
	require.NoError(t, err)

	t1, _, err := s.AddSong(r.ID, songInput("v1", "T1", "Alice"))
	require.NoError(t, err)
	t2, _, err := s.AddSong(r.ID, songInput("v2", "T2", "Alice"))
	require.NoError(t, err)
	t3, snap, err := s.AddSong(r.ID, songInput("v3", "T3", "Bob"))
	require.NoError(t, err)

	// Current track unchanged, queue preserves insertion order.
	require.NotNil(t, snap.CurrentTrack)
	assert.Equal(t, t1.ID, snap.CurrentTrack.ID)
	require.Len(t, snap.Queue, 2)
	assert.Equal(t, t2.ID, snap.Queue[0].ID)
	assert.Equal(t, t3.ID, snap.Queue[1].ID)
}

func TestAddSong_Invalid(t *testing.T) {
	s := NewMemoryStore()
	r, err := s.CreateRoom("ABCD", "Test")
	require.NoError(t, err)

	_, _, err = s.AddSong(r.ID, song.Input{Title: "no video id", RequestedBy: "Alice"})
	assert.ErrorIs(t, err, song.ErrInvalid)

	// No mutation was performed.
	snap, err := s.GetRoom(r.ID)
	require.NoError(t, err)
	assert.Nil(t, snap.CurrentTrack)
	assert.Empty(t, snap.Queue)

	_, _, err = s.AddSong("missing", songInput("v1", "T1", "Alice"))
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRemoveFromQueue(t *testing.T) {
	s := NewMemoryStore()
	r, err := s.CreateRoom("ABCD", "Test")
	require.NoError(t, err)

	_, _, err = s.AddSong(r.ID, songInput("v1", "T1", "Alice"))
	require.NoError(t, err)
	t2, _, err := s.AddSong(r.ID, songInput("v2", "T2", "Alice"))
	require.NoError(t, err)

	snap, err := s.RemoveFromQueue(r.ID, t2.ID)
	require.NoError(t, err)
	assert.False(t, snap.HasQueuedSong(t2.ID))

	// Removing a song that is not there still succeeds.
	snap, err = s.RemoveFromQueue(r.ID, "missing")
	require.NoError(t, err)
	assert.Empty(t, snap.Queue)

	_, err = s.RemoveFromQueue("missing", t2.ID)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestClearQueue(t *testing.T) {
	s := NewMemoryStore()
	r, err := s.CreateRoom("ABCD", "Test")
	require.NoError(t, err)

	t1, _, err := s.AddSong(r.ID, songInput("v1", "T1", "Alice"))
	require.NoError(t, err)
	_, _, err = s.AddSong(r.ID, songInput("v2", "T2", "Alice"))
	require.NoError(t, err)

	snap, err := s.ClearQueue(r.ID)
	require.NoError(t, err)
	assert.Empty(t, snap.Queue)

	// Current track is untouched.
	require.NotNil(t, snap.CurrentTrack)
	assert.Equal(t, t1.ID, snap.CurrentTrack.ID)
}

func TestPopNextTrack(t *testing.T) {
	s := NewMemoryStore()
	r, err := s.CreateRoom("ABCD", "Test")
	require.NoError(t, err)

	_, _, err = s.AddSong(r.ID, songInput("v1", "T1", "Alice"))
	require.NoError(t, err)
	t2, _, err := s.AddSong(r.ID, songInput("v2", "T2", "Alice"))
	require.NoError(t, err)
	t3, _, err := s.AddSong(r.ID, songInput("v3", "T3", "Alice"))
	require.NoError(t, err)

	// Head of the queue becomes the current track.
	snap, err := s.PopNextTrack(r.ID)
	require.NoError(t, err)
	require.NotNil(t, snap.CurrentTrack)
	assert.Equal(t, t2.ID, snap.CurrentTrack.ID)
	require.Len(t, snap.Queue, 1)
	assert.Equal(t, t3.ID, snap.Queue[0].ID)
	assert.True(t, snap.IsPlaying)
	assert.Zero(t, snap.CurrentTime)

	snap, err = s.PopNextTrack(r.ID)
	require.NoError(t, err)
	assert.Equal(t, t3.ID, snap.CurrentTrack.ID)
	assert.Empty(t, snap.Queue)

	// Advancing with an empty queue idles the room.
	snap, err = s.PopNextTrack(r.ID)
	require.NoError(t, err)
	assert.Nil(t, snap.CurrentTrack)
	assert.False(t, snap.IsPlaying)
	assert.Zero(t, snap.CurrentTime)
	assertIdleInvariant(t, snap)
}

func TestUpdatePlaybackState(t *testing.T) {
	s := NewMemoryStore()
	r, err := s.CreateRoom("ABCD", "Test")
	require.NoError(t, err)

	_, _, err = s.AddSong(r.ID, songInput("v1", "T1", "Alice")) // 3:00 = 180s
	require.NoError(t, err)

	snap, err := s.UpdatePlaybackState(r.ID, false, 42.5)
	require.NoError(t, err)
	assert.False(t, snap.IsPlaying)
	assert.Equal(t, 42.5, snap.CurrentTime)

	// Offset is clamped to the track duration, negatives to zero.
	snap, err = s.UpdatePlaybackState(r.ID, true, 9999)
	require.NoError(t, err)
	assert.Equal(t, 180.0, snap.CurrentTime)

	snap, err = s.UpdatePlaybackState(r.ID, true, -5)
	require.NoError(t, err)
	assert.Zero(t, snap.CurrentTime)

	_, err = s.UpdatePlaybackState("missing", true, 0)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestUpdatePlaybackState_IdleRoomStaysIdle(t *testing.T) {
	s := NewMemoryStore()
	r, err := s.CreateRoom("ABCD", "Test")
	require.NoError(t, err)

	snap, err := s.UpdatePlaybackState(r.ID, true, 10)
	require.NoError(t, err)
	assertIdleInvariant(t, snap)
}

func TestSetCurrentTrack(t *testing.T) {
	s := NewMemoryStore()
	r, err := s.CreateRoom("ABCD", "Test")
	require.NoError(t, err)

	_, _, err = s.AddSong(r.ID, songInput("v1", "T1", "Alice"))
	require.NoError(t, err)
	_, err = s.UpdatePlaybackState(r.ID, true, 50)
	require.NoError(t, err)

	next := song.Song{ID: "manual", YoutubeID: "v9", Title: "Manual"}
	snap, err := s.SetCurrentTrack(r.ID, &next)
	require.NoError(t, err)
	assert.Equal(t, "manual", snap.CurrentTrack.ID)
	assert.Zero(t, snap.CurrentTime)
	// Playing flag is the caller's business.
	assert.True(t, snap.IsPlaying)

	snap, err = s.SetCurrentTrack(r.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, snap.CurrentTrack)
	assertIdleInvariant(t, snap)
}

func TestToggleAutoSelection(t *testing.T) {
	s := NewMemoryStore()
	r, err := s.CreateRoom("ABCD", "Test")
	require.NoError(t, err)

	on, snap, err := s.ToggleAutoSelection(r.ID)
	require.NoError(t, err)
	assert.True(t, on)
	assert.True(t, snap.AutoSelection)

	on, snap, err = s.ToggleAutoSelection(r.ID)
	require.NoError(t, err)
	assert.False(t, on)
	assert.False(t, snap.AutoSelection)

	_, _, err = s.ToggleAutoSelection("missing")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestGetRecentTracks(t *testing.T) {
	s := NewMemoryStore()
	r, err := s.CreateRoom("ABCD", "Test")
	require.NoError(t, err)

	t1, _, err := s.AddSong(r.ID, songInput("v1", "T1", "Alice")) // auto-starts
	require.NoError(t, err)
	t2, _, err := s.AddSong(r.ID, songInput("v2", "T2", "Alice"))
	require.NoError(t, err)

	recent, err := s.GetRecentTracks(r.ID, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, t1.ID, recent[0].ID)

	_, err = s.PopNextTrack(r.ID)
	require.NoError(t, err)

	// Most recent first.
	recent, err = s.GetRecentTracks(r.ID, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, t2.ID, recent[0].ID)
	assert.Equal(t, t1.ID, recent[1].ID)

	recent, err = s.GetRecentTracks(r.ID, 1)
	require.NoError(t, err)
	assert.Len(t, recent, 1)

	_, err = s.GetRecentTracks("missing", 5)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestGetRecentTracks_Bounded(t *testing.T) {
	s := NewMemoryStore()
	r, err := s.CreateRoom("ABCD", "Test")
	require.NoError(t, err)

	for i := 0; i < 15; i++ {
		_, _, err = s.AddSong(r.ID, songInput("v", "T", "Alice"))
		require.NoError(t, err)
		_, err = s.PopNextTrack(r.ID)
		require.NoError(t, err)
	}

	recent, err := s.GetRecentTracks(r.ID, 0)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(recent), defaultRecentLimit)
}

// Create room -> join -> first enqueue auto-starts.
func TestScenario_FreshRoomStartsPlaying(t *testing.T) {
	s := NewMemoryStore()

	r, err := s.CreateRoom("ABCD", "Test")
	require.NoError(t, err)

	_, _, err = s.AddParticipant(r.ID, "Alice", "AL")
	require.NoError(t, err)

	t1, snap, err := s.AddSong(r.ID, songInput("v1", "T1", "Alice"))
	require.NoError(t, err)

	require.NotNil(t, snap.CurrentTrack)
	assert.Equal(t, t1.ID, snap.CurrentTrack.ID)
	assert.Empty(t, snap.Queue)
	assert.True(t, snap.IsPlaying)
	assert.Zero(t, snap.CurrentTime)
}

func TestSnapshotIsolation(t *testing.T) {
	s := NewMemoryStore()
	r, err := s.CreateRoom("ABCD", "Test")
	require.NoError(t, err)

	_, _, err = s.AddSong(r.ID, songInput("v1", "T1", "Alice"))
	require.NoError(t, err)
	_, snap, err := s.AddSong(r.ID, songInput("v2", "T2", "Alice"))
	require.NoError(t, err)

	// Mutating a snapshot must not touch the store.
	snap.CurrentTrack.Title = "hacked"
	snap.Queue[0].Title = "hacked"

	fresh, err := s.GetRoom(r.ID)
	require.NoError(t, err)
	assert.Equal(t, "T1", fresh.CurrentTrack.Title)
	assert.Equal(t, "T2", fresh.Queue[0].Title)
}
