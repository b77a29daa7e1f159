package recommend

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/jamroom/internal/app/filter"
	"github.com/osa030/jamroom/internal/domain/room"
	"github.com/osa030/jamroom/internal/domain/song"
	"github.com/osa030/jamroom/internal/infra/config"
	"github.com/osa030/jamroom/internal/infra/youtube"
	"github.com/osa030/jamroom/internal/realtime"
)

// RequestedByAuto is the requester name stamped on auto-selected tracks.
const RequestedByAuto = "AI DJ"

// Store defines the room store operations needed by the selector.
type Store interface {
	GetRoom(roomID string) (*room.Room, error)
	GetRecentTracks(roomID string, limit int) ([]song.Song, error)
	AddSong(roomID string, in song.Input) (song.Song, *room.Room, error)
}

// Searcher defines the track search operations needed by the selector.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]youtube.Result, error)
}

// Publisher defines the event fanout operations needed by the selector.
type Publisher interface {
	Publish(roomID string, msg realtime.ServerMessage)
}

// Selector refills a room's queue with auto-selected tracks when it
// runs low.
type Selector struct {
	store    Store
	search   Searcher
	hub      Publisher
	provider Provider
	filters  *filter.Chain
	cfg      config.RecommendConfig

	mu       sync.Mutex
	inflight map[string]bool
}

// NewSelector creates a new Selector.
func NewSelector(store Store, search Searcher, hub Publisher, provider Provider, filters *filter.Chain, cfg config.RecommendConfig) *Selector {
	return &Selector{
		store:    store,
		search:   search,
		hub:      hub,
		provider: provider,
		filters:  filters,
		cfg:      cfg,
		inflight: make(map[string]bool),
	}
}

// ShouldTrigger reports whether the room needs an automatic refill:
// auto-selection is on, something is playing, and at most one track
// waits in the queue.
func (s *Selector) ShouldTrigger(r *room.Room) bool {
	return r.AutoSelection && r.CurrentTrack != nil && len(r.Queue) <= 1
}

// MaybeRun refills the room in the background if the trigger condition
// holds. At most one refill per room runs at a time.
func (s *Selector) MaybeRun(roomID string) {
	r, err := s.store.GetRoom(roomID)
	if err != nil {
		return
	}
	if !s.ShouldTrigger(r) {
		return
	}

	s.mu.Lock()
	if s.inflight[roomID] {
		s.mu.Unlock()
		return
	}
	s.inflight[roomID] = true
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.inflight, roomID)
			s.mu.Unlock()
		}()

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.TimeoutSec)*time.Second)
		defer cancel()

		if err := s.Run(ctx, roomID); err != nil {
			zlog.Warn().Msgf("auto-selection failed: room=%s error=%v", roomID, err)
		}
	}()
}

// Run performs one refill pass: ask the provider for queries, search
// each one, and enqueue the first acceptable result per query. Failed
// queries are skipped; the pass succeeds if any track lands.
func (s *Selector) Run(ctx context.Context, roomID string) error {
	r, err := s.store.GetRoom(roomID)
	if err != nil {
		return err
	}

	recent, err := s.store.GetRecentTracks(roomID, s.cfg.HistoryLimit)
	if err != nil {
		return err
	}

	rctx := Context{
		Current: r.CurrentTrack,
		Recent:  recent,
		Genres:  s.cfg.GenreHints,
	}

	queries, err := s.provider.Queries(ctx, rctx, s.cfg.QueryCount)
	if err != nil {
		return errors.Wrap(err, "failed to get queries")
	}

	wasIdle := r.CurrentTrack == nil

	added := 0
	seen := make(map[string]bool)
	var snap *room.Room
	for _, query := range queries {
		results, err := s.search.Search(ctx, query, 5)
		if err != nil {
			zlog.Warn().Msgf("search failed for query: query=%q error=%v", query, err)
			if errors.Is(err, youtube.ErrQuotaExceeded) {
				break
			}
			continue
		}
		if len(results) == 0 {
			zlog.Debug().Msgf("no results for query: query=%q", query)
			continue
		}

		// Re-read for a fresh view; user adds may have landed meanwhile.
		fresh, err := s.store.GetRoom(roomID)
		if err != nil {
			return err
		}

		// Different queries can resolve to the same video, and a top
		// result may already be playing or queued. Take the first result
		// the room does not have yet.
		for _, pick := range results {
			if seen[pick.ID] || fresh.ContainsVideo(pick.ID) {
				zlog.Debug().Msgf("candidate already in room: query=%q video=%s", query, pick.ID)
				continue
			}

			in := song.Input{
				YoutubeID:   pick.ID,
				Title:       pick.Title,
				Artist:      pick.Artist,
				Duration:    pick.Duration,
				Thumbnail:   pick.Thumbnail,
				RequestedBy: RequestedByAuto,
			}

			if result := s.filters.Execute(ctx, in, fresh, filter.OriginAuto); !result.Accepted {
				zlog.Debug().Msgf("candidate rejected: query=%q code=%s", query, result.Code)
				continue
			}

			_, after, err := s.store.AddSong(roomID, in)
			if err != nil {
				zlog.Warn().Msgf("failed to enqueue candidate: query=%q error=%v", query, err)
				continue
			}
			seen[pick.ID] = true
			added++
			snap = after
			break
		}
	}

	if added == 0 {
		return errors.New("no tracks could be added")
	}

	zlog.Info().Msgf("auto-selection added tracks: room=%s count=%d", roomID, added)

	s.hub.Publish(roomID, realtime.ServerMessage{Type: realtime.EventQueueUpdated, Data: snap})
	if wasIdle && snap.CurrentTrack != nil {
		s.hub.Publish(roomID, realtime.ServerMessage{Type: realtime.EventTrackChanged, Data: snap})
		s.hub.Publish(roomID, realtime.ServerMessage{Type: realtime.EventPlaybackStateChanged, Data: realtime.PlaybackState{
			IsPlaying:   snap.IsPlaying,
			CurrentTime: snap.CurrentTime,
		}})
	}

	return nil
}
