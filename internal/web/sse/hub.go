package sse

import (
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mcoot/draftboard/internal/model"
)

const (
	// historySize is how many recent events a reconnecting client can replay
	historySize = 128

	// EventResync tells a client its Last-Event-ID fell out of the replay
	// window and it should refetch the board
	EventResync = "resync"
)

// message is one numbered event on the session stream
type message struct {
	id   uint64
	name string
	data string
}

func (m message) bytes() []byte {
	return formatSSEMessage(m.id, m.name, m.data)
}

// Hub fans draft events out to the SSE clients watching one session.
// Events are numbered so a reconnecting client can resume with Last-Event-ID.
type Hub struct {
	sessionID model.SessionID
	logger    *slog.Logger

	mu      sync.RWMutex
	clients map[*Client]struct{}
	lastID  uint64

	// history is only touched by Run
	history []message

	register   chan *Client
	unregister chan *Client
	broadcast  chan message
	done       chan struct{}
	closeOnce  sync.Once
}

// NewHub creates a new Hub for a session
func NewHub(sessionID model.SessionID, logger *slog.Logger) *Hub {
	return &Hub{
		sessionID:  sessionID,
		clients:    make(map[*Client]struct{}),
		logger:     logger.With(slog.String("component", "sse"), slog.String("session_id", string(sessionID))),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	h.logger.Info("sse hub started")
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = struct{}{}
			clientCount := len(h.clients)
			h.mu.Unlock()
			replayed := h.replay(client)
			h.logger.Info("sse client registered",
				slog.String("client_id", client.id),
				slog.Int("replayed", replayed),
				slog.Int("total_clients", clientCount))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; !ok {
				h.mu.Unlock()
				continue
			}
			delete(h.clients, client)
			close(client.send)
			clientCount := len(h.clients)
			h.mu.Unlock()
			h.logger.Info("sse client unregistered",
				slog.String("client_id", client.id),
				slog.Duration("connection_duration", time.Since(client.connectedAt)),
				slog.Int("total_clients", clientCount))

		case msg := <-h.broadcast:
			h.publish(msg)

		case <-h.done:
			h.mu.Lock()
			clientCount := len(h.clients)
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.logger.Info("sse hub stopped", slog.Int("disconnected_clients", clientCount))
			return
		}
	}
}

func (h *Hub) publish(msg message) {
	h.mu.Lock()
	h.lastID++
	msg.id = h.lastID
	h.mu.Unlock()

	h.history = append(h.history, msg)
	if len(h.history) > historySize {
		h.history = h.history[len(h.history)-historySize:]
	}

	data := msg.bytes()
	h.mu.RLock()
	dropped := 0
	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			dropped++
		}
	}
	sent := len(h.clients) - dropped
	h.mu.RUnlock()
	if dropped > 0 {
		h.logger.Warn("sse broadcast partial failure",
			slog.Uint64("event_id", msg.id),
			slog.Int("sent", sent),
			slog.Int("dropped", dropped))
	}
}

// replay sends a resuming client the events it missed
func (h *Hub) replay(client *Client) int {
	if !client.resume || len(h.history) == 0 {
		return 0
	}
	if client.lastEventID+1 < h.history[0].id {
		client.send <- formatSSEMessage(0, EventResync, `{"reason":"history_expired"}`)
		return 0
	}
	n := 0
	for _, msg := range h.history {
		if msg.id <= client.lastEventID {
			continue
		}
		client.send <- msg.bytes()
		n++
	}
	return n
}

// Register adds a client to the hub. It reports false once the hub is closed.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// BroadcastEvent queues an event for every client
func (h *Hub) BroadcastEvent(eventName, data string) {
	select {
	case h.broadcast <- message{name: eventName, data: data}:
	default:
		h.logger.Warn("sse broadcast dropped - hub buffer full", slog.String("event", eventName))
	}
}

// Close shuts down the hub
func (h *Hub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// LastEventID returns the id of the most recent event
func (h *Hub) LastEventID() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastID
}

// formatSSEMessage formats an SSE message. A zero id is left off, and each
// line of data gets its own "data: " prefix.
func formatSSEMessage(id uint64, eventName, data string) []byte {
	var b strings.Builder
	if id > 0 {
		b.WriteString("id: ")
		b.WriteString(strconv.FormatUint(id, 10))
		b.WriteString("\n")
	}
	b.WriteString("event: ")
	b.WriteString(eventName)
	b.WriteString("\n")
	for _, line := range splitLines(data) {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return []byte(b.String())
}

// splitLines splits a string into lines, handling various line endings
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
