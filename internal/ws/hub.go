package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"
)

// Hub fans staffing and rating events out to subscribed clients.
// Every map access happens on the Run goroutine except ClientCount.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}

	events     chan Event
	register   chan *Client
	unregister chan *Client
	logger     zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		events:     make(chan Event, 256),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		logger:     logger.With().Str("component", "ws").Logger(),
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				h.drop(c)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			if c == nil {
				continue
			}
			h.mu.Lock()
			h.clients[c] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			h.logger.Debug().Int("clients", n).Bool("hr", c.hr).Int("projects", len(c.projects)).Msg("ws subscribed")

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				h.drop(c)
			}
			h.mu.Unlock()

		case evt := <-h.events:
			h.deliver(evt)
		}
	}
}

// drop must be called with mu held.
func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) deliver(evt Event) {
	msg, err := json.Marshal(evt)
	if err != nil {
		h.logger.Error().Err(err).Str("type", evt.Type).Msg("ws event encode failed")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	sent := 0
	for c := range h.clients {
		if !c.wants(evt) {
			continue
		}
		select {
		case c.send <- msg:
			sent++
		default:
			// Slow reader; it reconnects and reloads state over HTTP.
			h.drop(c)
			h.logger.Warn().Str("type", evt.Type).Msg("ws client dropped")
		}
	}
	h.logger.Debug().Str("type", evt.Type).Int64("project_id", evt.ProjectID).Int("sent", sent).Msg("ws event")
}

func (h *Hub) Register(c *Client) {
	if h == nil {
		return
	}
	h.register <- c
}

func (h *Hub) Unregister(c *Client) {
	if h == nil {
		return
	}
	h.unregister <- c
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
