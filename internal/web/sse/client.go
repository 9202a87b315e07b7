package sse

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// Time between keepalive pings
	pingPeriod = 30 * time.Second

	// Buffer size for outgoing messages. Must exceed historySize so a replay
	// never blocks the hub.
	sendBufferSize = 256

	// LastEventIDHeader is sent by browsers when an EventSource reconnects
	LastEventIDHeader = "Last-Event-ID"
)

// Client represents a connected SSE client
type Client struct {
	hub         *Hub
	id          string
	send        chan []byte
	connectedAt time.Time

	// resume is set when the client reconnected after lastEventID
	resume      bool
	lastEventID uint64
}

// NewClient creates a new SSE client that starts from the next event
func NewClient(hub *Hub) *Client {
	return &Client{
		hub:         hub,
		id:          uuid.NewString(),
		send:        make(chan []byte, sendBufferSize),
		connectedAt: time.Now(),
	}
}

// Resuming marks the client as having already seen events up to lastEventID
func (c *Client) Resuming(lastEventID uint64) *Client {
	c.resume = true
	c.lastEventID = lastEventID
	return c
}

// ID returns the connection id used in logs
func (c *Client) ID() string {
	return c.id
}

// lastEventID reads the resume point from the header, or the query string
// for clients that cannot set headers
func lastEventID(r *http.Request) (uint64, bool) {
	raw := r.Header.Get(LastEventIDHeader)
	if raw == "" {
		raw = r.URL.Query().Get("last_event_id")
	}
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// ServeSSE streams hub events to a client until it disconnects or the hub closes
func ServeSSE(w http.ResponseWriter, r *http.Request, hub *Hub) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	client := NewClient(hub)
	if id, ok := lastEventID(r); ok {
		client.Resuming(id)
	}
	if !hub.Register(client) {
		http.Error(w, "Event stream closed", http.StatusServiceUnavailable)
		return
	}
	defer hub.Unregister(client)

	connected := `{"status":"connected","session_id":"` + string(hub.sessionID) +
		`","last_event_id":` + strconv.FormatUint(hub.LastEventID(), 10) + `}`
	_, _ = w.Write(formatSSEMessage(0, "connected", connected))
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				// Hub closed the channel
				return
			}
			if _, err := w.Write(message); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
