package realtime

import (
	"sync"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/jamroom/internal/domain/room"
)

// SnapshotSource provides the room snapshot sent to new subscribers.
type SnapshotSource interface {
	GetRoom(roomID string) (*room.Room, error)
}

// Subscription is a handle for one subscriber of one room.
type Subscription struct {
	roomID string
	sink   chan<- []byte
}

// Hub fans room events out to WebSocket subscribers. Each subscriber
// owns a buffered sink channel drained by a single writer goroutine,
// so events arrive in publish order per subscriber. A subscriber that
// cannot keep up loses events rather than blocking the rest.
type Hub struct {
	store SnapshotSource

	mu    sync.RWMutex
	rooms map[string]map[*Subscription]struct{}
}

// NewHub creates a new Hub.
func NewHub(store SnapshotSource) *Hub {
	return &Hub{
		store: store,
		rooms: make(map[string]map[*Subscription]struct{}),
	}
}

// Subscribe registers sink for the room's events and queues the current
// room snapshot as the first message.
func (h *Hub) Subscribe(roomID string, sink chan<- []byte) (*Subscription, error) {
	r, err := h.store.GetRoom(roomID)
	if err != nil {
		return nil, err
	}

	data, err := (ServerMessage{Type: EventRoomState, Data: r}).Encode()
	if err != nil {
		return nil, err
	}

	sub := &Subscription{roomID: roomID, sink: sink}

	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.rooms[roomID]
	if !ok {
		subs = make(map[*Subscription]struct{})
		h.rooms[roomID] = subs
	}
	subs[sub] = struct{}{}

	// Snapshot goes through the sink too, keeping it ordered before
	// any event published after this call.
	select {
	case sink <- data:
	default:
		zlog.Warn().Msgf("subscriber sink full, snapshot dropped: room=%s", roomID)
	}

	return sub, nil
}

// Unsubscribe removes the subscription. The sink is not closed; it
// belongs to the caller.
func (h *Hub) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.rooms[sub.roomID]
	if !ok {
		return
	}
	delete(subs, sub)
	if len(subs) == 0 {
		delete(h.rooms, sub.roomID)
	}
}

// Publish sends the event to every subscriber of the room. The message
// is marshalled once. Slow subscribers are skipped. Publishes hold the
// write lock so every subscriber observes concurrent publishes in the
// same relative order.
func (h *Hub) Publish(roomID string, msg ServerMessage) {
	data, err := msg.Encode()
	if err != nil {
		zlog.Error().Msgf("failed to encode event: type=%s error=%v", msg.Type, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.rooms[roomID] {
		select {
		case sub.sink <- data:
		default:
			zlog.Warn().Msgf("subscriber sink full, event dropped: room=%s type=%s", roomID, msg.Type)
		}
	}
}

// SubscriberCount returns the number of subscribers for a room.
func (h *Hub) SubscriberCount(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}
