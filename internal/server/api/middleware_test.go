package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophdiary/internal/common"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID_GeneratedWhenAbsent(t *testing.T) {
	s := newTestServer(t, nil, nil, Options{})

	rec := do(t, s, http.MethodGet, "/health", "")
	id := rec.Header().Get(common.RequestIDHeader)
	_, err := uuid.Parse(id)
	assert.NoError(t, err, "request id %q", id)
}

func TestRequestID_Propagated(t *testing.T) {
	s := newTestServer(t, nil, nil, Options{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(common.RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(common.RequestIDHeader))
}

func TestCORS_AllowedOrigin(t *testing.T) {
	s := newTestServer(t, nil, nil, Options{AllowedOrigins: []string{"http://localhost:3000"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/entries", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/entries", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit_WriteRoutesOnly(t *testing.T) {
	s := newTestServer(t, nil, &fakeTags{created: true}, Options{WriteRateLimit: 0.001, WriteRateBurst: 2})

	for i := range 2 {
		rec := do(t, s, http.MethodPost, "/api/tags", `{"name":"t"}`)
		require.Equal(t, http.StatusCreated, rec.Code, "request %d", i)
	}

	rec := do(t, s, http.MethodPost, "/api/tags", `{"name":"t"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// reads share no budget with writes
	rec = do(t, s, http.MethodGet, "/api/tags", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit_PerClient(t *testing.T) {
	s := newTestServer(t, nil, nil, Options{WriteRateLimit: 0.001, WriteRateBurst: 1})

	post := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/entries", strings.NewReader(`{"content":"x"}`))
		req.Header.Set("X-Real-IP", ip)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusCreated, post("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, post("10.0.0.1"))
	assert.Equal(t, http.StatusCreated, post("10.0.0.2"))
}

func TestRateLimiter_SweepDropsIdleKeys(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	defer rl.Stop()

	now := time.Now()
	rl.get("old", now.Add(-2*limiterIdleTTL))
	rl.get("fresh", now)
	require.Equal(t, 2, rl.size())

	rl.sweep(now)
	assert.Equal(t, 1, rl.size())
}

func TestRecoverer(t *testing.T) {
	s := newTestServer(t, nil, nil, Options{})
	s.router.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	rec := do(t, s, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCORS_NoOriginsAllowsNone(t *testing.T) {
	s := newTestServer(t, nil, nil, Options{})

	req := httptest.NewRequest(http.MethodGet, "/api/entries", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
