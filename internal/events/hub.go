// Package events implements the in-process fan-out of processing events to
// connected viewers. The hub is owned by the daemon and injected into
// whatever publishes or serves events; there is no package-level state.
package events

import (
	"log/slog"
	"sync"

	"streambox/internal/logging"
)

// TopicVideoProcessed names the event emitted when a video leaves pending.
const TopicVideoProcessed = "video_processed"

// ProcessingEvent is the immutable fact broadcast once per completed
// analysis.
type ProcessingEvent struct {
	VideoID     string `json:"videoId"`
	Status      string `json:"status"`
	Sensitivity string `json:"sensitivity"`
}

// Subscriber is a live connection registered with the hub. Events arrive on
// C in publish order until the subscriber is removed, after which C is
// closed.
type Subscriber struct {
	C  <-chan ProcessingEvent
	ch chan ProcessingEvent
}

// Hub holds the current set of live subscribers. All methods are safe for
// concurrent use.
type Hub struct {
	logger *slog.Logger
	buffer int
	mu     sync.Mutex
	subs   map[*Subscriber]struct{}
	closed bool
}

// NewHub constructs a hub whose subscribers each get a queue of the given
// depth. A subscriber that falls a full queue behind is dropped.
func NewHub(buffer int, logger *slog.Logger) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Hub{
		logger: logger.With(logging.Component("event-hub")),
		buffer: buffer,
		subs:   make(map[*Subscriber]struct{}),
	}
}

// Subscribe registers a new connection and returns its handle. Subscribing
// to a closed hub returns a subscriber whose channel is already closed.
func (h *Hub) Subscribe() *Subscriber {
	ch := make(chan ProcessingEvent, h.buffer)
	sub := &Subscriber{C: ch, ch: ch}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return sub
	}
	h.subs[sub] = struct{}{}
	return sub
}

// Unsubscribe removes a connection. It is idempotent and safe to call for
// subscribers the hub already dropped.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	if sub == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(sub)
}

// Publish delivers the event to every subscriber registered at the moment
// of the call. Delivery is best-effort: a subscriber whose queue is full is
// dropped so it can never stall delivery to the others. Within a single
// subscriber, events arrive in publish order.
func (h *Hub) Publish(event ProcessingEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for sub := range h.subs {
		select {
		case sub.ch <- event:
		default:
			h.logger.Warn("dropping unreachable subscriber",
				logging.VideoID(event.VideoID),
				logging.Int("queue_depth", h.buffer))
			h.removeLocked(sub)
		}
	}
}

// Close drops all subscribers and rejects future publishes. Called at
// daemon shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for sub := range h.subs {
		h.removeLocked(sub)
	}
}

// SubscriberCount reports the current number of live subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) removeLocked(sub *Subscriber) {
	if _, ok := h.subs[sub]; !ok {
		return
	}
	delete(h.subs, sub)
	close(sub.ch)
}
