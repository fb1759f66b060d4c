package realtime

import (
	"sync"
)

// EventType mirrors the database change kinds clients apply locally
type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// Event is one change notification. Version increases monotonically
// across the hub, so clients can drop stale or duplicate deliveries by
// comparing versions per record.
type Event struct {
	Table   string      `json:"table"`
	Type    EventType   `json:"type"`
	BoardID string      `json:"board_id,omitempty"`
	ID      string      `json:"id"`
	Version uint64      `json:"version"`
	Record  interface{} `json:"record,omitempty"`
}

// Subscription is one client's event stream
type Subscription struct {
	hub     *Hub
	boardID string // "" subscribes to every board
	ch      chan Event
	once    sync.Once
}

// Events is the receive side of the stream; closed on Close
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Close detaches the subscription and closes its channel
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.unsubscribe(s)
	})
}

// Hub fans database change events out to subscribed clients
type Hub struct {
	mu      sync.RWMutex
	subs    map[*Subscription]struct{}
	version uint64
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		subs: make(map[*Subscription]struct{}),
	}
}

// subscriberBuffer bounds queued events per client; a client that falls
// further behind loses events and must refetch.
const subscriberBuffer = 64

// Subscribe registers a stream. boardID scopes board-local tables
// (projects, workflow_steps); pass "" to receive everything.
func (h *Hub) Subscribe(boardID string) *Subscription {
	sub := &Subscription{
		hub:     h,
		boardID: boardID,
		ch:      make(chan Event, subscriberBuffer),
	}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

func (h *Hub) unsubscribe(sub *Subscription) {
	h.mu.Lock()
	delete(h.subs, sub)
	h.mu.Unlock()
	close(sub.ch)
}

// Publish stamps the event with the next version and delivers it to
// matching subscribers without blocking on slow ones.
func (h *Hub) Publish(event Event) uint64 {
	h.mu.Lock()
	h.version++
	event.Version = h.version
	subs := make([]*Subscription, 0, len(h.subs))
	for sub := range h.subs {
		if sub.matches(event) {
			subs = append(subs, sub)
		}
	}
	h.mu.Unlock()

	for _, sub := range subs {
		select {
		case sub.ch <- event:
		default:
			// Subscriber buffer full; drop rather than stall the hub
		}
	}
	return event.Version
}

// matches reports whether the event belongs on this stream.
// Global tables (boards, users, invitations) reach every subscriber;
// board-scoped tables only reach that board's subscribers.
func (s *Subscription) matches(event Event) bool {
	if s.boardID == "" || event.BoardID == "" {
		return true
	}
	return s.boardID == event.BoardID
}

// SubscriberCount reports attached streams, mostly for health output
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
