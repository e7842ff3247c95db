package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newLimitedRouter(store RateStore, limit int, window time.Duration) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit(store, limit, window))
	r.GET("/pokemon", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func perform(r *gin.Engine) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/pokemon", nil)
	r.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitAllowsUnderLimit(t *testing.T) {
	r := newLimitedRouter(NewMemoryRateStore(), 3, time.Minute)

	for i := 0; i < 3; i++ {
		rec := perform(r)
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimitBlocksOverLimit(t *testing.T) {
	r := newLimitedRouter(NewMemoryRateStore(), 2, time.Minute)

	perform(r)
	perform(r)
	rec := perform(r)

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimitWindowResets(t *testing.T) {
	r := newLimitedRouter(NewMemoryRateStore(), 1, 15*time.Millisecond)

	require.Equal(t, http.StatusOK, perform(r).Code)
	require.Equal(t, http.StatusTooManyRequests, perform(r).Code)

	time.Sleep(30 * time.Millisecond)
	require.Equal(t, http.StatusOK, perform(r).Code)
}

type unreachableRateStore struct{}

func (unreachableRateStore) Increment(context.Context, string, time.Duration) (int, time.Duration, error) {
	return 0, 0, errors.New("rate store down")
}

func TestRateLimitFailsOpenOnStoreError(t *testing.T) {
	r := newLimitedRouter(unreachableRateStore{}, 1, time.Minute)

	require.Equal(t, http.StatusOK, perform(r).Code)
	require.Equal(t, http.StatusOK, perform(r).Code)
}

func TestRateLimitDisabledWithoutStore(t *testing.T) {
	r := newLimitedRouter(nil, 1, time.Minute)

	require.Equal(t, http.StatusOK, perform(r).Code)
	require.Equal(t, http.StatusOK, perform(r).Code)
}
