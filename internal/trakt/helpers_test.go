package trakt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

const (
	testClientID     = "client-123"
	testClientSecret = "secret-456"
)

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(ClientConfig{
		BaseURL:      server.URL,
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		RedirectURI:  "urn:ietf:wg:oauth:2.0:oob",
		PageSize:     2,
	}, WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func newTestStore(t *testing.T) *FileTokenStore {
	t.Helper()
	return NewFileTokenStore(filepath.Join(t.TempDir(), "t_token"), nil)
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, payload any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func decodeBody(t *testing.T, r *http.Request) map[string]string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		t.Errorf("decode request body: %v", err)
	}
	return body
}

// requestLog records the paths a test server saw, in order.
type requestLog struct {
	mu    sync.Mutex
	paths []string
}

func (l *requestLog) add(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.paths = append(l.paths, path)
}

func (l *requestLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.paths...)
}

func (l *requestLog) count(path string) int {
	n := 0
	for _, p := range l.snapshot() {
		if p == path {
			n++
		}
	}
	return n
}

// fakeClock advances only when the fake sleeper runs.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return nil
}

type recordingPresenter struct {
	shown    []DeviceCode
	attempts []int
}

func (p *recordingPresenter) ShowDeviceCode(code DeviceCode) {
	p.shown = append(p.shown, code)
}

func (p *recordingPresenter) AwaitingAuthorization(attempt int) {
	p.attempts = append(p.attempts, attempt)
}

func movieJSON(title string, year int, tmdb int64, imdb string) map[string]any {
	return map[string]any{
		"title": title,
		"year":  year,
		"ids": map[string]any{
			"trakt": tmdb + 1000,
			"tmdb":  tmdb,
			"imdb":  imdb,
			"slug":  title,
		},
	}
}
