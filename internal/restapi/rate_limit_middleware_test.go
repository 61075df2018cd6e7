package restapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"busdelay.org/internal/appconf"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestNewRateLimitMiddlewareDisabled(t *testing.T) {
	assert.Nil(t, NewRateLimitMiddleware(0, time.Second, nil))
	assert.Nil(t, NewRateLimitMiddleware(-1, time.Second, nil))
}

func TestRateLimitMiddleware_BlocksRequestsOverLimit(t *testing.T) {
	middleware := NewRateLimitMiddleware(3, time.Second, []string{"web"})
	require.NotNil(t, middleware)
	defer middleware.Stop()

	limited := middleware.Handler(okHandler())

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		limited.ServeHTTP(w, httptest.NewRequest("GET", "/test?key=web", nil))
		assert.Equal(t, http.StatusOK, w.Code, "request %d should be allowed", i+1)
	}

	w := httptest.NewRecorder()
	limited.ServeHTTP(w, httptest.NewRequest("GET", "/test?key=web", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "Rate limit exceeded")
}

func TestRateLimitMiddleware_SeparateClients(t *testing.T) {
	middleware := NewRateLimitMiddleware(1, time.Minute, []string{"a", "b"})
	require.NotNil(t, middleware)
	defer middleware.Stop()

	limited := middleware.Handler(okHandler())

	request := func(target, remoteAddr string) int {
		req := httptest.NewRequest("GET", target, nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		limited.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, request("/test?key=a", "10.0.0.1:1000"))
	// a configured key is its own client, whatever the address
	assert.Equal(t, http.StatusTooManyRequests, request("/test?key=a", "10.0.0.2:1000"))
	assert.Equal(t, http.StatusOK, request("/test?key=b", "10.0.0.1:1000"))

	// without a key the remote host is the client, whatever the port
	assert.Equal(t, http.StatusOK, request("/test", "10.0.0.3:1000"))
	assert.Equal(t, http.StatusTooManyRequests, request("/test", "10.0.0.3:2000"))
	assert.Equal(t, http.StatusOK, request("/test", "10.0.0.4:1000"))
}

func TestRateLimitMiddleware_UnknownKeysShareClientBucket(t *testing.T) {
	middleware := NewRateLimitMiddleware(1, time.Minute, []string{"a"})
	require.NotNil(t, middleware)
	defer middleware.Stop()

	limited := middleware.Handler(okHandler())
	codes := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest("GET", fmt.Sprintf("/test?key=k%d", i), nil)
		req.RemoteAddr = "10.0.0.9:1000"
		w := httptest.NewRecorder()
		limited.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, http.StatusOK, codes[0])
	for _, code := range codes[1:] {
		assert.Equal(t, http.StatusTooManyRequests, code)
	}
	assert.Len(t, middleware.limiters, 1, "unknown keys do not allocate limiters")
}

func TestRateLimitMiddleware_ExemptKeys(t *testing.T) {
	middleware := NewRateLimitMiddleware(1, time.Minute, nil, "kiosk")
	require.NotNil(t, middleware)
	defer middleware.Stop()

	limited := middleware.Handler(okHandler())
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		limited.ServeHTTP(w, httptest.NewRequest("GET", "/test?key=kiosk", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimitMiddleware_EvictsIdleClients(t *testing.T) {
	middleware := NewRateLimitMiddleware(1, time.Minute, nil)
	require.NotNil(t, middleware)
	defer middleware.Stop()

	middleware.getLimiter("ip:10.0.0.1")
	middleware.evictIdle(time.Now())
	assert.Len(t, middleware.limiters, 1)

	middleware.evictIdle(time.Now().Add(limiterIdleTTL + time.Second))
	assert.Empty(t, middleware.limiters)
}

func TestRateLimitMiddleware_StopIsIdempotent(t *testing.T) {
	middleware := NewRateLimitMiddleware(1, time.Second, nil)
	require.NotNil(t, middleware)
	middleware.Stop()
	assert.NotPanics(t, middleware.Stop)
}

func TestRateLimitedEndpoint(t *testing.T) {
	api := createTestApiWithConfig(t, appconf.Config{
		Env:       appconf.Test,
		ApiKeys:   []string{"TEST"},
		RateLimit: 2,
	}, testDataConfig(t))

	server := newTestServer(t, api)
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := http.Get(server.URL + "/api/stop-names?key=TEST")
		require.NoError(t, err)
		_ = resp.Body.Close()
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// health checks are not limited
	for i := 0; i < 3; i++ {
		resp, err := http.Get(server.URL + "/healthz")
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}

func TestRateLimitedEndpointOpenAPIVaryingKeys(t *testing.T) {
	api := createTestApiWithConfig(t, appconf.Config{
		Env:       appconf.Test,
		RateLimit: 2,
	}, testDataConfig(t))

	server := newTestServer(t, api)
	allowed := 0
	for i := 0; i < 6; i++ {
		resp, err := http.Get(fmt.Sprintf("%s/api/current-time?key=k%d", server.URL, i))
		require.NoError(t, err)
		_ = resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			allowed++
		}
	}
	assert.LessOrEqual(t, allowed, 3, "changing the key does not reset the limit")
}
