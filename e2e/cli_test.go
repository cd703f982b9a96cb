package e2e_test

import (
	"context"
	"encoding/json"
	"fmt"
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

	"github.com/kringleapp/kringle/internal/api"
	"github.com/kringleapp/kringle/internal/factory"
	"github.com/kringleapp/kringle/internal/services/keyderive"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "kringle-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/kringle")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
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

	app, err := factory.New(factory.Config{
		KeyDerivationConfig: keyderive.Config{Iterations: 16},
	})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	router := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		EventService:    app.EventService,
		Directory:       app.Directory,
		MatchController: app.MatchController,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		addr: serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
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

// Response types for JSON parsing

type eventResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	MatchState string `json:"match_state"`
	Rules      struct {
		MaxSpend int    `json:"max_spend"`
		Theme    string `json:"theme"`
	} `json:"rules"`
}

type participantResponse struct {
	ID         string `json:"id"`
	EventID    string `json:"event_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Registered bool   `json:"registered"`
}

type revealResponse struct {
	RecipientName  string `json:"recipient_name"`
	RecipientEmail string `json:"recipient_email"`
	Rules          struct {
		MaxSpend int `json:"max_spend"`
	} `json:"rules"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_EventCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Create event
	output, err := cli.run("event", "create", "Office Exchange", "--max-spend", "50", "--theme", "handmade")
	require.NoError(t, err, "output: %s", output)

	var created eventResponse
	require.NoError(t, json.Unmarshal([]byte(output), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Office Exchange", created.Name)
	assert.Equal(t, "not_generated", created.MatchState)
	assert.Equal(t, 50, created.Rules.MaxSpend)

	// Get event
	output, err = cli.run("event", "get", created.ID)
	require.NoError(t, err, "output: %s", output)

	var fetched eventResponse
	require.NoError(t, json.Unmarshal([]byte(output), &fetched))
	assert.Equal(t, created.ID, fetched.ID)

	// Delete event
	output, err = cli.run("event", "delete", created.ID)
	require.NoError(t, err, "output: %s", output)

	var msgResp messageResponse
	require.NoError(t, json.Unmarshal([]byte(output), &msgResp))
	assert.Equal(t, "Event deleted", msgResp.Message)

	// Verify it is gone
	output, err = cli.run("event", "get", created.ID)
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")
}

func TestCLI_FullExchangeFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Create event
	output, err := cli.run("event", "create", "Book Club Exchange", "--max-spend", "30")
	require.NoError(t, err, "output: %s", output)
	var event eventResponse
	require.NoError(t, json.Unmarshal([]byte(output), &event))
	t.Logf("Created event: %s", event.ID)

	// Invite three participants
	type member struct {
		id     string
		email  string
		secret string
	}
	var members []member
	for i := 0; i < 3; i++ {
		email := fmt.Sprintf("p%d@example.com", i)
		output, err = cli.run("participant", "add", event.ID,
			"--email", email, "--name", fmt.Sprintf("Participant %d", i))
		require.NoError(t, err, "output: %s", output)

		var p participantResponse
		require.NoError(t, json.Unmarshal([]byte(output), &p))
		members = append(members, member{id: p.ID, email: email, secret: fmt.Sprintf("secret-%d", i)})
	}

	// List shows everyone unregistered
	output, err = cli.run("participant", "list", event.ID)
	require.NoError(t, err, "output: %s", output)
	var list []participantResponse
	require.NoError(t, json.Unmarshal([]byte(output), &list))
	require.Len(t, list, 3)
	for _, p := range list {
		assert.False(t, p.Registered)
	}

	// Reveal before registration fails
	output, err = cli.run("reveal", event.ID, members[0].id, "--secret", members[0].secret)
	assert.Error(t, err)

	// Everyone registers
	for _, m := range members {
		output, err = cli.run("participant", "register", event.ID, m.id, "--secret", m.secret)
		require.NoError(t, err, "output: %s", output)
	}

	// The last registration triggered generation
	output, err = cli.run("event", "get", event.ID)
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &event))
	assert.Equal(t, "generated", event.MatchState)
	t.Logf("Matches generated")

	// Every member reveals; recipients form a derangement
	recipients := make(map[string]struct{})
	for _, m := range members {
		output, err = cli.run("reveal", event.ID, m.id, "--secret", m.secret)
		require.NoError(t, err, "output: %s", output)

		var reveal revealResponse
		require.NoError(t, json.Unmarshal([]byte(output), &reveal))
		assert.NotEqual(t, m.email, reveal.RecipientEmail)
		assert.Equal(t, 30, reveal.Rules.MaxSpend)
		recipients[reveal.RecipientEmail] = struct{}{}
		t.Logf("%s gives to %s", m.email, reveal.RecipientEmail)
	}
	assert.Len(t, recipients, len(members))

	// Revealing again returns the same recipient
	output, err = cli.run("reveal", event.ID, members[0].id, "--secret", members[0].secret)
	require.NoError(t, err, "output: %s", output)
	var first revealResponse
	require.NoError(t, json.Unmarshal([]byte(output), &first))

	output, err = cli.run("reveal", event.ID, members[0].id, "--secret", members[0].secret)
	require.NoError(t, err, "output: %s", output)
	var second revealResponse
	require.NoError(t, json.Unmarshal([]byte(output), &second))
	assert.Equal(t, first, second)
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Get non-existent event
	output, err := cli.run("event", "get", "evt_missing")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")

	// Reveal with a wrong secret
	output, err = cli.run("event", "create", "Exchange", "--max-spend", "10")
	require.NoError(t, err)
	var event eventResponse
	require.NoError(t, json.Unmarshal([]byte(output), &event))

	for i := 0; i < 2; i++ {
		output, err = cli.run("participant", "add", event.ID,
			"--email", fmt.Sprintf("p%d@example.com", i), "--name", fmt.Sprintf("P%d", i))
		require.NoError(t, err)
		var p participantResponse
		require.NoError(t, json.Unmarshal([]byte(output), &p))

		output, err = cli.run("participant", "register", event.ID, p.ID, "--secret", fmt.Sprintf("secret-%d", i))
		require.NoError(t, err, "output: %s", output)

		if i == 0 {
			// First participant with a bad secret
			badOutput, badErr := cli.run("reveal", event.ID, p.ID, "--secret", "wrong")
			assert.Error(t, badErr)
			assert.Contains(t, strings.ToLower(badOutput), "authentication")
		}
	}
}
