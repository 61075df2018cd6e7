package restapi

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"busdelay.org/internal/logging"
)

func TestRequestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewStructuredLogger(&buf, slog.LevelInfo)

	var seenID string
	handler := NewRequestLoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = logging.RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest("GET", "/api/stop-names?key=secret", nil)
	req.Header.Set("User-Agent", "dashboard")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	requestID := rec.Header().Get(requestIDHeader)
	_, err := uuid.Parse(requestID)
	require.NoError(t, err)
	assert.Equal(t, requestID, seenID)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/api/stop-names", entry["path"])
	assert.EqualValues(t, http.StatusTeapot, entry["status"])
	assert.Equal(t, requestID, entry["request_id"])
	assert.Equal(t, "dashboard", entry["user_agent"])
	assert.NotContains(t, buf.String(), "secret")
}

func TestRequestLoggingMiddlewareKeepsClientRequestID(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	handler := NewRequestLoggingMiddleware(logger)(okHandler())

	clientID := uuid.NewString()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(requestIDHeader, clientID)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, clientID, rec.Header().Get(requestIDHeader))

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set(requestIDHeader, "not-a-uuid\nforged")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.NotEqual(t, "not-a-uuid\nforged", rec.Header().Get(requestIDHeader))
}
