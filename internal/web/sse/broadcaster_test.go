package sse

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/draftboard/internal/model"
	"github.com/mcoot/draftboard/internal/testutil"
)

func TestBroadcaster_HandleEvent(t *testing.T) {
	hub := newTestHub(t)
	client := NewClient(hub)
	require.True(t, hub.Register(client))

	b := NewBroadcaster(hub, testutil.NopLogger())
	b.HandleEvent(model.Event{
		Type:        model.EventPlayerDrafted,
		Timestamp:   time.Date(2026, 8, 30, 19, 0, 0, 0, time.UTC),
		CurrentPick: 2,
		PlayerID:    "p1",
	})

	msg := receive(t, client)
	assert.True(t, strings.HasPrefix(msg, "id: 1\nevent: player_drafted\ndata: {"), msg)
	assert.Contains(t, msg, `"player_id":"p1"`)
	assert.Contains(t, msg, `"current_pick":2`)
}

func TestServeSSE(t *testing.T) {
	hub := newTestHub(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeSSE(w, r, hub)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: connected\n", line)
	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, line, `"session_id":"test"`)
	_, _ = reader.ReadString('\n')

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)
	hub.BroadcastEvent("draft_undone", "{}")

	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "id: 1\n", line)
	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: draft_undone\n", line)

	cancel()
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestServeSSE_ResumesFromLastEventID(t *testing.T) {
	hub := newTestHub(t)
	publishN(t, hub, 3)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeSSE(w, r, hub)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	req.Header.Set(LastEventIDHeader, "2")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	var lines []string
	for len(lines) < 6 {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		lines = append(lines, line)
	}
	assert.Equal(t, "event: connected\n", lines[0])
	assert.Contains(t, lines[1], `"last_event_id":3`)
	assert.Equal(t, "id: 3\n", lines[3])
	assert.Equal(t, "event: player_drafted\n", lines[4])
	assert.Equal(t, "data: 3\n", lines[5])
}
