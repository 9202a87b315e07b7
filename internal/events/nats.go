package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/mcoot/draftboard/internal/model"
)

// NATSConfig configures the NATS event sink
type NATSConfig struct {
	URL           string
	SubjectPrefix string
	MaxReconnects int
	ReconnectWait time.Duration
}

// DefaultNATSConfig returns the sink defaults
func DefaultNATSConfig() NATSConfig {
	return NATSConfig{
		URL:           nats.DefaultURL,
		SubjectPrefix: "draftboard.events",
		MaxReconnects: -1,
		ReconnectWait: 2 * time.Second,
	}
}

// Conn is the part of *nats.Conn the publisher uses
type Conn interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher forwards draft events to NATS subjects of the form
// <prefix>.<session>.<event type>
type NATSPublisher struct {
	conn      Conn
	nc        *nats.Conn
	prefix    string
	sessionID model.SessionID
	logger    *slog.Logger
}

// ConnectNATS dials the server in cfg and returns a publisher for sessionID
func ConnectNATS(cfg NATSConfig, sessionID model.SessionID, logger *slog.Logger) (*NATSPublisher, error) {
	logger = logger.With(slog.String("component", "nats"))
	opts := []nats.Option{
		nats.Name("draftboard"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", slog.Any("error", err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", slog.String("url", nc.ConnectedUrl()))
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	p := NewNATSPublisher(nc, cfg.SubjectPrefix, sessionID, logger)
	p.nc = nc
	return p, nil
}

// NewNATSPublisher wraps an existing connection
func NewNATSPublisher(conn Conn, prefix string, sessionID model.SessionID, logger *slog.Logger) *NATSPublisher {
	if prefix == "" {
		prefix = DefaultNATSConfig().SubjectPrefix
	}
	return &NATSPublisher{
		conn:      conn,
		prefix:    prefix,
		sessionID: sessionID,
		logger:    logger,
	}
}

// Subject returns the subject an event type is published on
func (p *NATSPublisher) Subject(t model.EventType) string {
	return strings.Join([]string{p.prefix, subjectToken(string(p.sessionID)), string(t)}, ".")
}

// subjectToken replaces characters NATS treats as separators or wildcards
func subjectToken(s string) string {
	return strings.NewReplacer(".", "_", "*", "_", ">", "_", " ", "_").Replace(s)
}

// HandleEvent publishes evt. Failures are logged; the draft never waits on NATS.
func (p *NATSPublisher) HandleEvent(evt model.Event) {
	data, err := json.Marshal(evt)
	if err != nil {
		p.logger.Error("failed to encode event", slog.String("type", string(evt.Type)), slog.Any("error", err))
		return
	}
	subject := p.Subject(evt.Type)
	if err := p.conn.Publish(subject, data); err != nil {
		p.logger.Warn("failed to publish event",
			slog.String("subject", subject),
			slog.Any("error", err))
	}
}

// Close drains the connection when the publisher owns one
func (p *NATSPublisher) Close() error {
	if p.nc == nil {
		return nil
	}
	return p.nc.Drain()
}
