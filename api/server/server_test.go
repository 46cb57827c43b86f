package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"task-tracker/api/server"
	"task-tracker/config"
	"task-tracker/logger"
	"task-tracker/tasks"
	"task-tracker/tasks/events"
	"task-tracker/tasks/store"
	"task-tracker/tasks/tracker"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gotest.tools/v3/assert"
)

func testConfig(port int) *config.Config {
	return &config.Config{
		ServerPort:      port,
		LogLevel:        "DEBUG",
		ShutdownTimeout: 5 * time.Second,
		Version:         "test",
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	lg := logger.New("DEBUG", io.Discard)
	tr := tracker.New(store.NewMemoryTaskStore(), events.NopPublisher{}, lg)
	srv := server.New(tr, events.NopPublisher{}, testConfig(3000), lg)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url string, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestServer_EndToEnd(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, http.MethodPost, ts.URL+"/tasks", `{"description":"Buy milk","dueDate":"2024-01-10"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Assert(t, resp.Header.Get("X-Request-ID") != "")

	var raw bytes.Buffer
	_, err := raw.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Equal(t,
		`{"id":1,"description":"Buy milk","dueDate":"2024-01-10T00:00:00.000Z","completed":false}`,
		strings.TrimSpace(raw.String()))

	resp = do(t, http.MethodPatch, ts.URL+"/tasks/1/complete", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	completed := decode[tasks.Task](t, resp)
	assert.Equal(t, true, completed.Completed)

	resp = do(t, http.MethodDelete, ts.URL+"/tasks/1", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodGet, ts.URL+"/tasks", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw.Reset()
	_, err = raw.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(raw.String()))
}

func TestServer_Filtering(t *testing.T) {
	ts := newTestServer(t)

	for i, desc := range []string{"Task 1", "Task 2", "Task 3"} {
		body := fmt.Sprintf(`{"description":%q,"dueDate":"2024-01-1%d"}`, desc, i)
		require.Equal(t, http.StatusCreated, do(t, http.MethodPost, ts.URL+"/tasks", body).StatusCode)
	}
	require.Equal(t, http.StatusOK, do(t, http.MethodPatch, ts.URL+"/tasks/2/complete", "").StatusCode)

	testCases := []struct {
		query       string
		expectedIDs []int
	}{
		{"", []int{1, 2, 3}},
		{"?filter=completed", []int{2}},
		{"?filter=pending", []int{1, 3}},
		{"?filter=bogus", []int{1, 2, 3}},
	}

	for _, tc := range testCases {
		t.Run(tc.query, func(t *testing.T) {
			resp := do(t, http.MethodGet, ts.URL+"/tasks"+tc.query, "")
			require.Equal(t, http.StatusOK, resp.StatusCode)

			listed := decode[[]tasks.Task](t, resp)
			ids := make([]int, 0, len(listed))
			for _, task := range listed {
				ids = append(ids, task.ID)
			}
			assert.DeepEqual(t, tc.expectedIDs, ids)
		})
	}
}

func TestServer_ErrorMapping(t *testing.T) {
	ts := newTestServer(t)

	testCases := []struct {
		name         string
		method       string
		path         string
		body         string
		expectedCode int
	}{
		{"missing description", http.MethodPost, "/tasks", `{"dueDate":"2024-01-10"}`, http.StatusBadRequest},
		{"null fields", http.MethodPost, "/tasks", `{"description":null,"dueDate":null}`, http.StatusBadRequest},
		{"malformed body", http.MethodPost, "/tasks", `{"description":`, http.StatusBadRequest},
		{"complete unknown id", http.MethodPatch, "/tasks/999/complete", "", http.StatusNotFound},
		{"complete non-integer id", http.MethodPatch, "/tasks/abc/complete", "", http.StatusNotFound},
		{"delete unknown id", http.MethodDelete, "/tasks/999", "", http.StatusNotFound},
		{"wrong method", http.MethodPut, "/tasks", "", http.StatusMethodNotAllowed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := do(t, tc.method, ts.URL+tc.path, tc.body)
			assert.Equal(t, tc.expectedCode, resp.StatusCode)
		})
	}
}

func TestServer_Health(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, http.StatusCreated,
		do(t, http.MethodPost, ts.URL+"/tasks", `{"description":"x","dueDate":"2024-01-10"}`).StatusCode)

	resp := do(t, http.MethodGet, ts.URL+"/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	health := decode[map[string]any](t, resp)
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, "test", health["version"])
	assert.Equal(t, 1.0, health["task_count"])
}

func TestServer_RunStopsOnContextCancel(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	lg := logger.New("DEBUG", io.Discard)
	tr := tracker.New(store.NewMemoryTaskStore(), nil, lg)
	srv := server.New(tr, events.NopPublisher{}, testConfig(port), lg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/health", port))
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
