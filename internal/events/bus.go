// Package events fans draft events out to the parts of the server that react
// to them.
package events

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/mcoot/draftboard/internal/model"
)

// Handler receives published events. Handlers run on the publisher's
// goroutine and must not block.
type Handler func(model.Event)

// Bus delivers each event to every subscribed handler in subscription order
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
	logger   *slog.Logger
}

// NewBus creates an empty Bus
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{logger: logger.With(slog.String("component", "events"))}
}

// Subscribe registers h for all future events
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish delivers evt. A panicking handler is logged and skipped.
func (b *Bus) Publish(evt model.Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		b.deliver(h, evt)
	}
}

func (b *Bus) deliver(h Handler, evt model.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				slog.String("type", string(evt.Type)),
				slog.String("panic", fmt.Sprint(r)))
		}
	}()
	h(evt)
}
