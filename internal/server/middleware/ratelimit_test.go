// file: internal/server/middleware/ratelimit_test.go
// version: 1.0.0
// guid: 7f8a1b4c-0d6e-4f9a-2b3c-5d6e7f8a9b0c

package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdfalk/notekeeper/internal/ratelimit"
)

// recordingStore wraps the real store and records every key it sees.
type recordingStore struct {
	inner *ratelimit.MemoryStore
	keys  []string
}

func (r *recordingStore) Increment(key string, window time.Duration) (ratelimit.Window, error) {
	r.keys = append(r.keys, key)
	return r.inner.Increment(key, window)
}

// failingStore simulates limiter infrastructure breakage.
type failingStore struct{}

func (failingStore) Increment(string, time.Duration) (ratelimit.Window, error) {
	return ratelimit.Window{}, fmt.Errorf("store unavailable")
}

func limitedRouter(store ratelimit.Store, policy ratelimit.Policy, opts RateLimitOptions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorNormalizer(false))
	router.Use(RateLimit(store, ratelimit.ProfileWrite, policy, opts))
	handler := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) }
	router.GET("/notes", handler)
	router.OPTIONS("/notes", handler)
	return router
}

func doRequest(router *gin.Engine, method, path, forwardedFor string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestRateLimitAllowsUnderQuota(t *testing.T) {
	t.Parallel()

	router := limitedRouter(ratelimit.NewMemoryStore(), ratelimit.Policy{Window: time.Second, Max: 3}, RateLimitOptions{})

	for i := 0; i < 3; i++ {
		resp := doRequest(router, http.MethodGet, "/notes", "203.0.113.9")
		assert.Equal(t, http.StatusOK, resp.Code)
	}
}

func TestRateLimitRejectsFourthOfThree(t *testing.T) {
	t.Parallel()

	router := limitedRouter(ratelimit.NewMemoryStore(), ratelimit.Policy{Window: time.Second, Max: 3}, RateLimitOptions{})

	var last *httptest.ResponseRecorder
	success := 0
	for i := 0; i < 4; i++ {
		last = doRequest(router, http.MethodGet, "/notes", "203.0.113.9")
		if last.Code == http.StatusOK {
			success++
		}
	}
	assert.Equal(t, 3, success)
	require.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.Contains(t, last.Body.String(), "RATE_LIMIT_EXCEEDED")

	retryAfter, err := strconv.Atoi(last.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, retryAfter, 0)
	assert.LessOrEqual(t, retryAfter, 1)
}

func TestRateLimitIndependentClients(t *testing.T) {
	t.Parallel()

	router := limitedRouter(ratelimit.NewMemoryStore(), ratelimit.Policy{Window: time.Second, Max: 1}, RateLimitOptions{})

	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/notes", "203.0.113.9").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(router, http.MethodGet, "/notes", "203.0.113.9").Code)
	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/notes", "198.51.100.7").Code)
}

func TestOptionsNeverConsumesQuota(t *testing.T) {
	t.Parallel()

	store := &recordingStore{inner: ratelimit.NewMemoryStore()}
	router := limitedRouter(store, ratelimit.Policy{Window: time.Second, Max: 1}, RateLimitOptions{})

	for i := 0; i < 5; i++ {
		doRequest(router, http.MethodOptions, "/notes", "203.0.113.9")
	}
	assert.Empty(t, store.keys, "pre-flight requests must not touch the limiter")

	// A real request afterwards still has its full quota.
	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/notes", "203.0.113.9").Code)
}

func TestStoreFailureDegradesToAllow(t *testing.T) {
	t.Parallel()

	router := limitedRouter(failingStore{}, ratelimit.Policy{Window: time.Second, Max: 1}, RateLimitOptions{})

	for i := 0; i < 10; i++ {
		resp := doRequest(router, http.MethodGet, "/notes", "203.0.113.9")
		assert.Equal(t, http.StatusOK, resp.Code, "limiter outage must never block traffic")
	}
}

func TestPerUserQuotaCheckedAfterIP(t *testing.T) {
	t.Parallel()

	store := &recordingStore{inner: ratelimit.NewMemoryStore()}
	router := limitedRouter(store, ratelimit.Policy{Window: time.Second, Max: 5}, RateLimitOptions{PerUser: true})

	req := httptest.NewRequest(http.MethodGet, "/notes", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	req.Header.Set("Authorization", "Bearer user-token-1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	require.Len(t, store.keys, 2)
	assert.Equal(t, "dev:write:203.0.113.9", store.keys[0])
	assert.Equal(t, "dev:write:user:user-token-1", store.keys[1])
}

func TestPerUserSkippedWhenIPRejected(t *testing.T) {
	t.Parallel()

	store := &recordingStore{inner: ratelimit.NewMemoryStore()}
	router := limitedRouter(store, ratelimit.Policy{Window: time.Minute, Max: 1}, RateLimitOptions{PerUser: true})

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/notes", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.9")
		req.Header.Set("Authorization", "Bearer user-token-1")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		return resp
	}

	require.Equal(t, http.StatusOK, send().Code)
	require.Equal(t, http.StatusTooManyRequests, send().Code)

	// First request consulted IP then user; rejected second stopped at IP.
	require.Len(t, store.keys, 3)
	assert.Equal(t, "dev:write:203.0.113.9", store.keys[2])
}

func TestProductionKeysHaveNoDevPrefix(t *testing.T) {
	t.Parallel()

	store := &recordingStore{inner: ratelimit.NewMemoryStore()}
	router := limitedRouter(store, ratelimit.Policy{Window: time.Second, Max: 5}, RateLimitOptions{Production: true})

	doRequest(router, http.MethodGet, "/notes", "203.0.113.9")
	require.Len(t, store.keys, 1)
	assert.Equal(t, "write:203.0.113.9", store.keys[0])
}

func TestMalformedForwardingChainIsIdentificationError(t *testing.T) {
	t.Parallel()

	router := limitedRouter(ratelimit.NewMemoryStore(), ratelimit.Policy{Window: time.Second, Max: 5}, RateLimitOptions{})

	resp := doRequest(router, http.MethodGet, "/notes", " , 10.0.0.1")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "CLIENT_IDENTIFICATION_ERROR")
}

func TestRateLimitHeaders(t *testing.T) {
	t.Parallel()

	router := limitedRouter(ratelimit.NewMemoryStore(), ratelimit.Policy{Window: time.Second, Max: 3}, RateLimitOptions{})

	resp := doRequest(router, http.MethodGet, "/notes", "203.0.113.9")
	assert.Equal(t, "3", resp.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "2", resp.Header().Get("X-RateLimit-Remaining"))
}
