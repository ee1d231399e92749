package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"loopline.app/server/common/logger"
)

// Hub tracks which connected clients are subscribed to which channels.
// It only fans out within this process; cross-instance delivery goes
// through the redis bridge.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]bool)}
}

func (h *Hub) Subscribe(channel string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[channel] == nil {
		h.rooms[channel] = make(map[*Client]bool)
	}
	h.rooms[channel][c] = true
}

func (h *Hub) Unsubscribe(channel string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if room := h.rooms[channel]; room != nil {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, channel)
		}
	}
}

// Detach removes the client from every channel it joined.
func (h *Hub) Detach(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for channel, room := range h.rooms {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, channel)
		}
	}
}

// Broadcast delivers an event to every local subscriber of its channel.
// Slow clients that cannot keep up are disconnected rather than allowed
// to block the fan-out.
func (h *Hub) Broadcast(ctx context.Context, event Event) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "loopline.realtime.hub",
		Channel:   &event.Channel,
	})

	data, err := json.Marshal(event)
	if err != nil {
		slog.ErrorContext(ctx, "failed to marshal event", "error", err)
		return
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.rooms[event.Channel]))
	for c := range h.rooms[event.Channel] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case <-c.done:
			// Already closing; the snapshot can race a disconnect.
		case c.send <- data:
		default:
			slog.WarnContext(ctx, "dropping slow realtime client", "user_id", c.userID)
			go c.Close()
		}
	}
}

// SubscriberCount reports how many clients are on a channel.
func (h *Hub) SubscriberCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[channel])
}
