package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"trakt2letterboxd/internal/trakt"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	stateDir   string
	outputDir  string
	tokenPath  string
}

func setupCLITestEnv(t *testing.T, baseURL string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("TRAKT_CLIENT_ID", "")
	t.Setenv("TRAKT_CLIENT_SECRET", "")

	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "trakt2letterboxd.toml"),
		stateDir:   filepath.Join(base, "state"),
		outputDir:  filepath.Join(base, "out"),
	}
	env.tokenPath = filepath.Join(env.stateDir, "t_token")

	content := fmt.Sprintf(`[trakt]
client_id = "cli-client"
client_secret = "cli-secret"
base_url = %q
page_size = 10

[paths]
state_dir = %q
output_dir = %q

[export]
lists = ["history", "watchlist"]
recent_limit = 1

[logging]
level = "error"
`, baseURL, env.stateDir, env.outputDir)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func (e *cliTestEnv) seedCredential(t *testing.T, expiresAt time.Time) {
	t.Helper()
	store := trakt.NewFileTokenStore(e.tokenPath, nil)
	if err := store.Save(trakt.Credential{AccessToken: "cached-access", RefreshToken: "cached-refresh", ExpiresAt: expiresAt}); err != nil {
		t.Fatalf("seed credential: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string, opts ...commandOption) (string, string, error) {
	t.Helper()
	cmd := newRootCommand(opts...)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireFileMissing(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected %s to be absent, stat err=%v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// fakeTrakt serves the subset of the Trakt API the exporter uses.
type fakeTrakt struct {
	t            *testing.T
	history      []any
	watchlist    []any
	listStatus   int
	settingsCode int

	mu       sync.Mutex
	requests []string
}

func (f *fakeTrakt) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.URL.Path)
	f.mu.Unlock()
	if r.Header.Get("trakt-api-key") != "cli-client" {
		f.t.Errorf("missing client id header on %s", r.URL.Path)
	}
	switch r.URL.Path {
	case "/oauth/device/code":
		f.write(w, http.StatusOK, map[string]any{
			"device_code":      "dev",
			"user_code":        "CLI12345",
			"verification_url": "https://trakt.tv/activate",
			"interval":         1,
			"expires_in":       600,
		})
	case "/oauth/device/token":
		f.write(w, http.StatusOK, map[string]any{
			"access_token":  "device-access",
			"refresh_token": "device-refresh",
			"expires_in":    7776000,
		})
	case "/oauth/token":
		w.WriteHeader(http.StatusUnauthorized)
	case "/users/settings":
		status := f.settingsCode
		if status == 0 {
			status = http.StatusOK
		}
		f.write(w, status, map[string]any{})
	case "/sync/ratings/movies":
		f.write(w, http.StatusOK, []any{
			map[string]any{"rating": 9, "movie": movie("Heat", 1995, 949, "tt0113277")},
		})
	case "/users/me/comments/all/movies":
		if r.URL.Query().Get("page") != "1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		f.write(w, http.StatusOK, []any{
			map[string]any{"comment": map[string]any{"comment": "Best heist, ever", "spoiler": false}, "movie": movie("Heat", 1995, 949, "tt0113277")},
		})
	case "/sync/history/movies", "/sync/watchlist/movies":
		if f.listStatus != 0 {
			w.WriteHeader(f.listStatus)
			return
		}
		items := f.history
		if strings.Contains(r.URL.Path, "watchlist") {
			items = f.watchlist
		}
		if r.URL.Query().Get("page") != "1" {
			items = nil
		}
		if items == nil {
			items = []any{}
		}
		f.write(w, http.StatusOK, items)
	default:
		f.t.Errorf("unexpected request %s", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeTrakt) write(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (f *fakeTrakt) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.requests {
		if p == path {
			n++
		}
	}
	return n
}

func newFakeTrakt(t *testing.T) (*fakeTrakt, *httptest.Server) {
	t.Helper()
	fake := &fakeTrakt{t: t}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	return fake, server
}

func movie(title string, year int, tmdb int64, imdb string) map[string]any {
	return map[string]any{
		"title": title,
		"year":  year,
		"ids":   map[string]any{"tmdb": tmdb, "imdb": imdb, "trakt": tmdb * 10, "slug": strings.ToLower(title)},
	}
}
