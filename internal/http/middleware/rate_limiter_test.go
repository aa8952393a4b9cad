package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lawfirm-cms/internal/auth"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(2, 2)

	ok, remaining := rl.Allow("k")
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)
	ok, _ = rl.Allow("k")
	assert.True(t, ok)
	ok, remaining = rl.Allow("k")
	assert.False(t, ok)
	assert.Zero(t, remaining)

	ok, _ = rl.Allow("other")
	assert.True(t, ok, "buckets are independent")
}

func TestRateLimiter_Refills(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := time.Now()
	rl.now = func() time.Time { return now }

	ok, _ := rl.Allow("k")
	require.True(t, ok)
	ok, _ = rl.Allow("k")
	require.False(t, ok)

	now = now.Add(time.Second)
	ok, _ = rl.Allow("k")
	assert.True(t, ok)
}

func TestRateLimiter_DropsIdleBuckets(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	now := time.Now()
	rl.now = func() time.Time { return now }

	rl.Allow("a")
	rl.Allow("b")
	require.Equal(t, 2, rl.Len())

	now = now.Add(DefaultIdleTimeout + time.Second)
	rl.Allow("c")
	assert.Equal(t, 1, rl.Len())
}

func TestRateLimiter_Middleware(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiter(0.5, 2)
	handler := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }

	serve := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		require.NoError(t, rl.Middleware()(handler)(c))
		return rec
	}

	rec := serve()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get(headerRateLimit))
	assert.Equal(t, "1", rec.Header().Get(headerRateRemaining))

	assert.Equal(t, http.StatusOK, serve().Code)

	rec = serve()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get(headerRateRemaining))
	assert.Equal(t, "2", rec.Header().Get(headerRetryAfter))
	assert.JSONEq(t, `{"message":"rate limit exceeded"}`, rec.Body.String())
}

func TestRateLimiter_KeysByUser(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiter(1, 1)
	handler := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	serve := func(userID uuid.UUID) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if userID != uuid.Nil {
			c.Set(auth.ContextKeyUserID, userID)
		}
		require.NoError(t, rl.Middleware()(handler)(c))
		return rec.Code
	}

	alice, bob := uuid.New(), uuid.New()
	assert.Equal(t, http.StatusOK, serve(alice))
	assert.Equal(t, http.StatusOK, serve(bob), "same IP, different account")
	assert.Equal(t, http.StatusOK, serve(uuid.Nil), "anonymous callers are keyed by IP")
	assert.Equal(t, http.StatusTooManyRequests, serve(alice))
}
