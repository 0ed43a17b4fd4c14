//go:build integration

package integration

// Test environment setup and server lifecycle management.
//
// Each test gets an empty temporary database. The server opens it with database.OpenStore,
// which applies all migrations so the schema reflects the latest code.
//
// By default the server logs are not included in the test output, you can enable them with:
//
//	ENABLE_SERVER_LOGS=true go test -tags=integration -v ./test/integration
//

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/information-sharing-networks/uploads-apicheck/internal/config"
	"github.com/information-sharing-networks/uploads-apicheck/internal/database"
	"github.com/information-sharing-networks/uploads-apicheck/internal/logger"
	"github.com/information-sharing-networks/uploads-apicheck/internal/server"
)

// serverTokenLifetime is kept short so the expired token case does not slow the tests down.
// Token expiry is encoded with second precision, so the suite waits one second longer than
// the server lifetime.
const (
	serverTokenLifetime = 2 * time.Second
	suiteTokenLifetime  = serverTokenLifetime + time.Second
)

// testEnv provides access to the test db and server for integration tests
type testEnv struct {
	baseURL string
	dbPath  string
	cfg     *config.ServerEnvironment
}

// startInProcessServer starts the uploads-server in-process and stops it when the test completes
func startInProcessServer(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		dbPath: filepath.Join(t.TempDir(), "uploads.db"),
	}

	port := findFreePort(t)

	logLevel := "none"
	if os.Getenv("ENABLE_SERVER_LOGS") == "true" {
		logLevel = "debug"
	}

	testEnvVars := map[string]string{
		"ENVIRONMENT":    "test",
		"HOST":           "localhost",
		"PORT":           fmt.Sprintf("%d", port),
		"LOG_LEVEL":      logLevel,
		"RATE_LIMIT_RPS": "0",
		"DATABASE_PATH":  env.dbPath,
		"TOKEN_LIFETIME": serverTokenLifetime.String(),
		"TOKEN_SECRET":   strings.Repeat("s", config.MinTokenSecretLength),
		"AUTH_USERNAME":  "supertest",
		"AUTH_PASSWORD":  "superpassword",
	}
	for key, value := range testEnvVars {
		t.Setenv(key, value)
	}

	cfg, err := config.NewServerConfig()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}
	env.cfg = cfg

	appLogger := logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)

	store, err := database.OpenStore(context.Background(), cfg.DatabasePath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}

	serverInstance, err := server.NewServer(store, cfg, appLogger)
	if err != nil {
		_ = store.Close()
		t.Fatalf("Failed to create server: %v", err)
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := serverInstance.Start(serverCtx); err != nil {
			serverDone <- err
		}
	}()

	t.Cleanup(func() {
		serverCancel()

		select {
		case err := <-serverDone:
			if err != nil {
				t.Logf("Server shutdown with error: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Log("Server shutdown timeout")
		}

		serverInstance.DatabaseShutdown()
	})

	env.baseURL = fmt.Sprintf("http://localhost:%d", port)

	if !waitForServer(t, env.baseURL+"/health/live", 30*time.Second) {
		t.Fatal("Server failed to start within timeout")
	}

	t.Logf("in-process server running at %s", env.baseURL)
	return env
}

// suiteConfig returns the suite configuration targeting the in-process server
func (e *testEnv) suiteConfig() *config.SuiteEnvironment {
	return &config.SuiteEnvironment{
		Environment:   "test",
		LogLevel:      "none",
		BaseURL:       e.baseURL,
		HTTPTimeout:   5 * time.Second,
		Username:      e.cfg.Username,
		Password:      e.cfg.Password,
		TokenLifetime: suiteTokenLifetime,
		DBPath:        e.dbPath,
		UploadsTable:  "uploads",
	}
}

func findFreePort(t *testing.T) int {
	t.Helper()
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("Failed to find free port: %v", err)
	}
	defer listener.Close()

	addr := listener.Addr().(*net.TCPAddr)
	return addr.Port
}

func waitForServer(t *testing.T, url string, timeout time.Duration) bool {
	t.Helper()

	client := &http.Client{Timeout: 1 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return true
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return false
}
