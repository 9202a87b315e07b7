package e2e_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/draftboard/internal/api"
	"github.com/mcoot/draftboard/internal/api/response"
	"github.com/mcoot/draftboard/internal/factory"
	"github.com/mcoot/draftboard/internal/model"
	"github.com/mcoot/draftboard/internal/services/auth"
	"github.com/mcoot/draftboard/internal/services/importer"
)

const adminPassword = "draft-night"

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "draftctl-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/draftctl")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	// Create temp token file
	tokenFile := filepath.Join(t.TempDir(), "token")

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  tokenFile,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	server   *http.Server
	app      *factory.App
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	hash, err := auth.HashPassword(adminPassword)
	require.NoError(t, err)

	// Create application
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := factory.New(factory.Config{
		SessionID:  "e2e",
		Settings:   factory.TestSettings(),
		Logger:     logger,
		AuthConfig: auth.Config{PasswordHash: hash},
	})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		AuthService: app.AuthService,
		Engine:      app.Engine,
		BotService:  app.BotService,
		Strategies:  app.Strategies,
		Predictor:   app.Predictor,
		Session:     app.Session,
		Saver:       app.Saver,
		Hub:         app.Hub,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		server: server,
		app:    app,
		addr:   serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
			_ = app.Close(ctx)
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

func writeRankings(t *testing.T) string {
	t.Helper()
	data, err := json.Marshal(factory.TestPlayers())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "rankings.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

// importedID is the id the server assigns to one of the test players
func importedID(name string, pos model.Position, team string) string {
	return string(importer.PlayerID(name, pos, team))
}

func parse[T any](t *testing.T, output string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(output), &v), "failed to parse: %s", output)
	return v
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, output)

	health := parse[response.Health](t, output)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "e2e", health.SessionID)
}

func TestCLI_MutationsRequireLogin(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("import", writeRankings(t))
	require.Error(t, err)
	assert.Contains(t, output, "UNAUTHORIZED")

	output, err = cli.run("login", adminPassword)
	require.NoError(t, err, output)

	output, err = cli.run("import", writeRankings(t))
	require.NoError(t, err, output)
	assert.Equal(t, 12, parse[response.Import](t, output).Imported)
}

func TestCLI_FullDraftFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)
	_, err := cli.run("login", adminPassword)
	require.NoError(t, err)
	output, err := cli.run("import", writeRankings(t))
	require.NoError(t, err, output)

	// Step 1: Reserve a keeper for team 3 in round 2
	qb1 := importedID("QB 1", model.PositionQB, "BUF")
	qb6 := importedID("QB 6", model.PositionQB, "BUF")

	output, err = cli.run("keeper", "add", qb6, "3", "2")
	require.NoError(t, err, output)
	keeper := parse[model.Player](t, output)
	assert.Equal(t, model.StatusKeeper, keeper.Status)
	assert.Equal(t, 6, keeper.PickNumber)

	output, err = cli.run("keeper", "ls")
	require.NoError(t, err, output)
	assert.Equal(t, 1, parse[response.Players](t, output).Count)

	// Step 2: Team 1 drafts by hand
	output, err = cli.run("pick", qb1)
	require.NoError(t, err, output)
	pick := parse[response.Pick](t, output)
	assert.Equal(t, 1, pick.Player.PickNumber)
	assert.Equal(t, 2, pick.CurrentPick)

	// Step 3: Undo and redo
	output, err = cli.run("undo")
	require.NoError(t, err, output)
	undo := parse[response.Undo](t, output)
	require.NotNil(t, undo.Player)
	assert.Equal(t, model.PlayerID(qb1), undo.Player.ID)

	_, err = cli.run("pick", qb1)
	require.NoError(t, err)

	// Step 4: Let the automated teams run until team 1 is back on the clock
	output, err = cli.run("autodraft", "on", "--speed", "instant")
	require.NoError(t, err, output)
	assert.True(t, parse[response.AutoDraft](t, output).Enabled)

	require.Eventually(t, func() bool {
		output, err := cli.run("status")
		if err != nil {
			return false
		}
		var draft response.Draft
		if json.Unmarshal([]byte(output), &draft) != nil {
			return false
		}
		return draft.Stats.CurrentPick == 8
	}, 10*time.Second, 100*time.Millisecond)

	// Step 5: Inspect the board
	output, err = cli.run("teams")
	require.NoError(t, err, output)
	teams := parse[response.Teams](t, output)
	require.Len(t, teams.Teams, 4)
	for _, team := range teams.Teams {
		assert.GreaterOrEqual(t, team.FilledCount(), 1, team.Name)
	}

	output, err = cli.run("players", "--status", "drafted")
	require.NoError(t, err, output)
	assert.Equal(t, 6, parse[response.Players](t, output).Count)

	output, err = cli.run("predict", "--team", "1", "--trials", "10")
	require.NoError(t, err, output)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(output), "["))

	// Step 6: Start over
	_, err = cli.run("autodraft", "off")
	require.NoError(t, err)
	output, err = cli.run("restart")
	require.NoError(t, err, output)
	draft := parse[response.Draft](t, output)
	assert.Equal(t, 0, draft.Stats.Drafted)
	assert.Equal(t, 1, draft.Stats.Keepers)
}

func TestCLI_SettingsAndStrategies(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("settings", "get")
	require.NoError(t, err, output)
	settings := parse[model.Settings](t, output)
	assert.Equal(t, 4, settings.NumTeams)

	output, err = cli.run("strategies")
	require.NoError(t, err, output)
	assert.NotEmpty(t, parse[response.Strategies](t, output).Strategies)
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)
	_, err := cli.run("login", adminPassword)
	require.NoError(t, err)

	// Drafting an unknown player
	output, err := cli.run("pick", "nobody")
	require.Error(t, err)
	assert.Contains(t, output, "PLAYER_NOT_FOUND")

	// Bad keeper arguments never reach the server
	output, err = cli.run("keeper", "add", "any-player", "two", "1")
	require.Error(t, err)
	assert.Contains(t, output, "invalid team id")
}
