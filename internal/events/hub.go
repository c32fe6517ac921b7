// Package events broadcasts completed enrichments to WebSocket
// subscribers for the back-office live view.
package events

import (
	"log"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/symbolica-app/symbolica/internal/enrich"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const subscriberBuffer = 16

// Hub fans enrichment events out to connected subscribers. It
// implements enrich.Notifier. Delivery is best-effort: a subscriber
// whose buffer is full is dropped rather than allowed to block the
// pipeline.
type Hub struct {
	mu          sync.Mutex
	subscribers map[chan enrich.Event]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subscribers: make(map[chan enrich.Event]struct{})}
}

// Publish delivers one event to every subscriber. Never blocks.
func (h *Hub) Publish(evt enrich.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subscribers {
		select {
		case ch <- evt:
		default:
			delete(h.subscribers, ch)
			close(ch)
		}
	}
}

func (h *Hub) subscribe() chan enrich.Event {
	ch := make(chan enrich.Event, subscriberBuffer)
	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *Hub) unsubscribe(ch chan enrich.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subscribers[ch]; ok {
		delete(h.subscribers, ch)
		close(ch)
	}
}

// SubscriberCount returns the number of connected subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// RegisterRoutes mounts the live event feed on the given router.
func RegisterRoutes(r chi.Router, hub *Hub) {
	r.Get("/api/events/ws", hub.handleWebSocket)
}

func (h *Hub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("events: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	ch := h.subscribe()
	defer h.unsubscribe(ch)

	// Drain the read side so close frames are processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case evt, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteJSON(evt); err != nil {
				log.Printf("events: websocket write: %v", err)
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
