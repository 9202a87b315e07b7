package api_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/draftboard/internal/api"
	"github.com/mcoot/draftboard/internal/testutil"
)

func TestServerStartAndShutdown(t *testing.T) {
	cfg := api.DefaultServerConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	cfg.ShutdownTimeout = time.Second

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})
	server := api.NewServer(handler, cfg, testutil.NopLogger())
	require.NoError(t, server.Listen())
	assert.NotEqual(t, "127.0.0.1:0", server.Addr())

	shutdownHooks := make(chan struct{})
	server.OnShutdown(func() { close(shutdownHooks) })

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	resp, err := http.Get("http://" + server.Addr())
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	require.NoError(t, server.Shutdown(context.Background()))
	require.NoError(t, <-errCh)
	select {
	case <-shutdownHooks:
	case <-time.After(time.Second):
		t.Fatal("shutdown hook did not run")
	}
}
