package events_test

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/draftboard/internal/events"
	"github.com/mcoot/draftboard/internal/model"
	"github.com/mcoot/draftboard/internal/testutil"
)

func TestBusDeliversInOrder(t *testing.T) {
	bus := events.NewBus(testutil.NopLogger())
	var got []string
	bus.Subscribe(func(e model.Event) { got = append(got, "a:"+string(e.Type)) })
	bus.Subscribe(func(e model.Event) { got = append(got, "b:"+string(e.Type)) })

	bus.Publish(model.Event{Type: model.EventPlayerDrafted})
	bus.Publish(model.Event{Type: model.EventDraftUndone})

	assert.Equal(t, []string{
		"a:player_drafted", "b:player_drafted",
		"a:draft_undone", "b:draft_undone",
	}, got)
}

func TestBusSurvivesPanickingHandler(t *testing.T) {
	bus := events.NewBus(testutil.NopLogger())
	delivered := false
	bus.Subscribe(func(model.Event) { panic("boom") })
	bus.Subscribe(func(model.Event) { delivered = true })

	assert.NotPanics(t, func() { bus.Publish(model.Event{Type: model.EventDraftReset}) })
	assert.True(t, delivered)
}

type fakeConn struct {
	mu       sync.Mutex
	subjects []string
	payloads [][]byte
	err      error
}

func (f *fakeConn) Publish(subject string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.subjects = append(f.subjects, subject)
	f.payloads = append(f.payloads, data)
	return nil
}

func TestNATSPublisherSubjects(t *testing.T) {
	conn := &fakeConn{}
	p := events.NewNATSPublisher(conn, "", "league.one", testutil.NopLogger())

	assert.Equal(t, "draftboard.events.league_one.player_drafted", p.Subject(model.EventPlayerDrafted))

	p.HandleEvent(model.Event{Type: model.EventKeeperAdded, PlayerID: "p1", CurrentPick: 3})
	require.Len(t, conn.subjects, 1)
	assert.Equal(t, "draftboard.events.league_one.keeper_added", conn.subjects[0])

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(conn.payloads[0], &decoded))
	assert.Equal(t, "p1", decoded["player_id"])
	assert.Equal(t, float64(3), decoded["current_pick"])
}

func TestNATSPublisherSwallowsErrors(t *testing.T) {
	conn := &fakeConn{err: errors.New("nats: connection closed")}
	p := events.NewNATSPublisher(conn, "custom", "s", testutil.NopLogger())

	assert.NotPanics(t, func() { p.HandleEvent(model.Event{Type: model.EventDraftReset}) })
	assert.NoError(t, p.Close())
}
