package middleware_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"task-tracker/api/middleware"
	"task-tracker/logger"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/assert"
)

func TestRequestIDMiddleware_GeneratesID(t *testing.T) {
	var seen string
	handler := middleware.RequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.RequestIDFromContext(r.Context())
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/tasks", nil))

	_, err := uuid.Parse(seen)
	require.NoError(t, err, "generated id should be a uuid")
	assert.Equal(t, seen, rr.Header().Get(middleware.RequestIDHeader))
}

func TestRequestIDMiddleware_ReusesInboundID(t *testing.T) {
	var seen string
	handler := middleware.RequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, "req-123", seen)
	assert.Equal(t, "req-123", rr.Header().Get(middleware.RequestIDHeader))
}

func TestRequestIDFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", middleware.RequestIDFromContext(req.Context()))
}

func TestLoggingMiddleware(t *testing.T) {
	testCases := []struct {
		name           string
		handler        http.HandlerFunc
		expectedStatus float64
	}{
		{
			name:           "implicit 200",
			handler:        func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("[]")) },
			expectedStatus: 200,
		},
		{
			name:           "explicit 204",
			handler:        func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) },
			expectedStatus: 204,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			lg := logger.New("INFO", &buf)
			handler := middleware.RequestIDMiddleware()(middleware.LoggingMiddleware(lg)(tc.handler))

			req := httptest.NewRequest(http.MethodDelete, "/tasks/1", nil)
			req.Header.Set(middleware.RequestIDHeader, "req-log")
			handler.ServeHTTP(httptest.NewRecorder(), req)

			var entry struct {
				Message string         `json:"message"`
				Fields  map[string]any `json:"fields"`
			}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, "HTTP request completed", entry.Message)
			assert.Equal(t, "DELETE", entry.Fields["http_method"])
			assert.Equal(t, "/tasks/1", entry.Fields["http_path"])
			assert.Equal(t, tc.expectedStatus, entry.Fields["http_status"])
			assert.Equal(t, "req-log", entry.Fields["request_id"])
		})
	}
}
