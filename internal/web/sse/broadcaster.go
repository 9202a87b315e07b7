package sse

import (
	"encoding/json"
	"log/slog"

	"github.com/mcoot/draftboard/internal/model"
)

// Broadcaster turns draft events into SSE messages
type Broadcaster struct {
	hub    *Hub
	logger *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hub:    hub,
		logger: logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// HandleEvent broadcasts evt named by its type with the event as JSON data
func (b *Broadcaster) HandleEvent(evt model.Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		b.logger.Error("sse failed to encode event",
			slog.String("type", string(evt.Type)),
			slog.Any("error", err))
		return
	}
	b.hub.BroadcastEvent(string(evt.Type), string(data))
}
