package store

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/osa030/jamroom/internal/domain/room"
	"github.com/osa030/jamroom/internal/domain/song"
)

const (
	codeLength = 6

	// defaultRecentLimit bounds the per-room history of played tracks.
	defaultRecentLimit = 10
)

// roomState bundles a room with bookkeeping that is not part of the
// broadcast snapshot.
type roomState struct {
	room *room.Room

	// recent holds previously started tracks, most recent first.
	recent []song.Song
}

// MemoryStore is the in-memory Store implementation. State lives for the
// duration of the process only.
type MemoryStore struct {
	mu          sync.RWMutex
	rooms       map[string]*roomState // keyed by room ID
	byCode      map[string]string     // join code -> room ID
	recentLimit int
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rooms:       make(map[string]*roomState),
		byCode:      make(map[string]string),
		recentLimit: defaultRecentLimit,
	}
}

func (s *MemoryStore) CreateRoom(code, name string) (*room.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = s.generateCodeLocked()
	} else if _, exists := s.byCode[code]; exists {
		return nil, ErrDuplicateCode
	}

	r := room.New(code, name)
	s.rooms[r.ID] = &roomState{room: r}
	s.byCode[code] = r.ID

	return r.Clone(), nil
}

func (s *MemoryStore) GetRoom(roomID string) (*room.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return st.room.Clone(), nil
}

func (s *MemoryStore) GetRoomByCode(code string) (*room.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byCode[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return s.rooms[id].room.Clone(), nil
}

func (s *MemoryStore) AddParticipant(roomID, name, initials string) (room.Participant, *room.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.rooms[roomID]
	if !ok {
		return room.Participant{}, nil, ErrRoomNotFound
	}

	if existing, found := st.room.FindParticipant(name); found {
		return *existing, st.room.Clone(), nil
	}

	p := room.NewParticipant(name, initials)
	st.room.Participants = append(st.room.Participants, p)
	return p, st.room.Clone(), nil
}

func (s *MemoryStore) RemoveParticipant(roomID, participantID string) (*room.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}

	kept := st.room.Participants[:0]
	for _, p := range st.room.Participants {
		if p.ID != participantID {
			kept = append(kept, p)
		}
	}
	st.room.Participants = kept
	return st.room.Clone(), nil
}

func (s *MemoryStore) AddSong(roomID string, in song.Input) (song.Song, *room.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.rooms[roomID]
	if !ok {
		return song.Song{}, nil, ErrRoomNotFound
	}

	ns, err := song.New(in)
	if err != nil {
		return song.Song{}, nil, err
	}

	r := st.room
	if r.CurrentTrack == nil && len(r.Queue) == 0 {
		// Auto-start: the first song into an idle room starts playing
		// immediately instead of sitting in the queue.
		r.CurrentTrack = &ns
		r.IsPlaying = true
		r.CurrentTime = 0
		s.pushRecentLocked(st, ns)
	} else {
		r.Queue = append(r.Queue, ns)
	}

	if p, found := r.FindParticipant(ns.RequestedBy); found {
		p.SongsAdded++
	}

	return ns, r.Clone(), nil
}

func (s *MemoryStore) RemoveFromQueue(roomID, songID string) (*room.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}

	kept := st.room.Queue[:0]
	for _, t := range st.room.Queue {
		if t.ID != songID {
			kept = append(kept, t)
		}
	}
	st.room.Queue = kept
	return st.room.Clone(), nil
}

func (s *MemoryStore) ClearQueue(roomID string) (*room.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}

	st.room.Queue = st.room.Queue[:0]
	return st.room.Clone(), nil
}

func (s *MemoryStore) SetCurrentTrack(roomID string, track *song.Song) (*room.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}

	st.room.CurrentTrack = track
	st.room.CurrentTime = 0
	if track != nil {
		s.pushRecentLocked(st, *track)
	} else {
		// Idle rooms are never "playing".
		st.room.IsPlaying = false
	}
	return st.room.Clone(), nil
}

func (s *MemoryStore) UpdatePlaybackState(roomID string, playing bool, seconds float64) (*room.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}

	r := st.room
	if r.CurrentTrack == nil {
		// Idle invariant: no track means not playing at offset zero.
		r.IsPlaying = false
		r.CurrentTime = 0
		return r.Clone(), nil
	}

	if seconds < 0 {
		seconds = 0
	}
	if max := r.CurrentTrack.DurationSeconds(); max > 0 && seconds > float64(max) {
		seconds = float64(max)
	}

	r.IsPlaying = playing
	r.CurrentTime = seconds
	return r.Clone(), nil
}

func (s *MemoryStore) PopNextTrack(roomID string) (*room.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}

	r := st.room
	if len(r.Queue) == 0 {
		r.CurrentTrack = nil
		r.IsPlaying = false
		r.CurrentTime = 0
		return r.Clone(), nil
	}

	next := r.Queue[0]
	r.Queue = append(r.Queue[:0], r.Queue[1:]...)
	r.CurrentTrack = &next
	r.IsPlaying = true
	r.CurrentTime = 0
	s.pushRecentLocked(st, next)

	return r.Clone(), nil
}

func (s *MemoryStore) ToggleAutoSelection(roomID string) (bool, *room.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.rooms[roomID]
	if !ok {
		return false, nil, ErrRoomNotFound
	}

	st.room.AutoSelection = !st.room.AutoSelection
	return st.room.AutoSelection, st.room.Clone(), nil
}

func (s *MemoryStore) GetRecentTracks(roomID string, limit int) ([]song.Song, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}

	if limit <= 0 || limit > len(st.recent) {
		limit = len(st.recent)
	}
	out := make([]song.Song, limit)
	copy(out, st.recent[:limit])
	return out, nil
}

// pushRecentLocked records a song that just became the current track.
// Must be called with the lock held.
func (s *MemoryStore) pushRecentLocked(st *roomState, t song.Song) {
	st.recent = append([]song.Song{t}, st.recent...)
	if len(st.recent) > s.recentLimit {
		st.recent = st.recent[:s.recentLimit]
	}
}

// generateCodeLocked produces an unused join code.
// Must be called with the lock held.
func (s *MemoryStore) generateCodeLocked() string {
	for {
		raw := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
		code := raw[:codeLength]
		if _, exists := s.byCode[code]; !exists {
			return code
		}
	}
}
