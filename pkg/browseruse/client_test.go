package browseruse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	server *httptest.Server

	mu       sync.Mutex
	sessions int
	seen     []string
}

func newTestServer(t *testing.T) *testServer {
	ts := &testServer{}
	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.mu.Lock()
		ts.seen = append(ts.seen, r.Method+" "+r.URL.Path)
		ts.mu.Unlock()

		if r.Header.Get("X-API-Key") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/sessions":
			ts.mu.Lock()
			ts.sessions++
			id := fmt.Sprintf("sess-%d", ts.sessions)
			ts.mu.Unlock()
			json.NewEncoder(w).Encode(map[string]string{"sessionId": id})
		case r.Method == http.MethodGet:
			json.NewEncoder(w).Encode(map[string]string{"html": "<html><body>hi</body></html>", "url": "https://example.org"})
		default:
			json.NewEncoder(w).Encode(map[string]string{"ok": "true"})
		}
	}))
	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) requests() []string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return append([]string(nil), ts.seen...)
}

func TestSessionLifecycle(t *testing.T) {
	ts := newTestServer(t)
	client := NewClient(ts.server.URL, "test-key", ts.server.Client())

	session, err := client.StartSession()
	require.NoError(t, err)

	require.NoError(t, session.Navigate("https://scholar.google.com/"))

	content, err := session.GetPageContent()
	require.NoError(t, err)
	assert.Contains(t, content.HTML, "hi")

	require.NoError(t, session.Close())
	assert.Contains(t, ts.requests(), "DELETE /sessions/sess-1")

	// Closing twice is a no-op
	require.NoError(t, session.Close())
	assert.Equal(t, 1, countOf(ts.requests(), "DELETE /sessions/sess-1"))
}

func TestConcurrentSessionsAreIndependent(t *testing.T) {
	ts := newTestServer(t)
	client := NewClient(ts.server.URL, "test-key", ts.server.Client())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session, err := client.StartSession()
			if !assert.NoError(t, err) {
				return
			}
			assert.NoError(t, session.Navigate("https://example.org/"))
			assert.NoError(t, session.Close())
		}()
	}
	wg.Wait()

	// Each goroutine drove its own session end to end
	requests := ts.requests()
	for i := 1; i <= 4; i++ {
		assert.Equal(t, 1, countOf(requests, fmt.Sprintf("POST /sessions/sess-%d/navigate", i)))
		assert.Equal(t, 1, countOf(requests, fmt.Sprintf("DELETE /sessions/sess-%d", i)))
	}
}

func TestEnabled(t *testing.T) {
	assert.False(t, NewClient("http://x", "", nil).Enabled())
	assert.True(t, NewClient("http://x", "k", nil).Enabled())
}

func TestAPIErrorSurfaced(t *testing.T) {
	ts := newTestServer(t)
	client := NewClient(ts.server.URL, "wrong-key", ts.server.Client())

	_, err := client.StartSession()
	assert.ErrorContains(t, err, "status 401")
}

func countOf(items []string, want string) int {
	count := 0
	for _, item := range items {
		if item == want {
			count++
		}
	}
	return count
}
