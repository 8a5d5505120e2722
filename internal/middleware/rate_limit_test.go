package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/platewise/backend/internal/testhelpers"
)

func limitedRouter(rl *RateLimiter, userID uuid.UUID) *gin.Engine {
	router := gin.New()
	router.GET("/limited",
		func(c *gin.Context) {
			if userID != uuid.Nil {
				c.Set(UserIDKey, userID)
			}
			c.Next()
		},
		rl.RateLimitMiddleware(),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)
	return router
}

func TestRateLimiter_FixedWindow(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	fixed := time.Date(2024, 3, 10, 12, 15, 0, 0, time.UTC)

	rl := NewRateLimiter(client, RateLimitConfig{Window: time.Hour, Limit: 2, KeyPrefix: "test:limit"}, nil)
	rl.now = func() time.Time { return fixed }

	userID := uuid.New()
	router := limitedRouter(rl, userID)
	hit := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/limited", nil))
		return w
	}

	first := hit()
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))
	reset := time.Date(2024, 3, 10, 13, 0, 0, 0, time.UTC)
	assert.Equal(t, strconv.FormatInt(reset.Unix(), 10), first.Header().Get("X-RateLimit-Reset"))

	assert.Equal(t, http.StatusOK, hit().Code)

	third := hit()
	assert.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.Equal(t, "0", third.Header().Get("X-RateLimit-Remaining"))
	assert.Contains(t, third.Body.String(), `"retry_after":2700`)

	remaining, resetAt, err := rl.GetRemainingRequests(context.Background(), userID.String())
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
	assert.Equal(t, reset, resetAt)

	// A different user has a separate budget.
	other := limitedRouter(rl, uuid.New())
	w := httptest.NewRecorder()
	other.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/limited", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// The next window starts fresh.
	rl.now = func() time.Time { return reset.Add(time.Minute) }
	assert.Equal(t, http.StatusOK, hit().Code)
}

func TestRateLimiter_FreshUserHasFullBudget(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	rl := NewIdentifyRateLimiter(client, nil)

	remaining, _, err := rl.GetRemainingRequests(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, rl.Config().Limit, remaining)
}

func TestRateLimiter_RedisDownLetsRequestsThrough(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })

	rl := NewRecommendationRateLimiter(client, nil)
	w := httptest.NewRecorder()
	limitedRouter(rl, uuid.New()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/limited", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "rate limit check failed", w.Header().Get("X-RateLimit-Error"))
}

func TestRateLimiter_RequiresUser(t *testing.T) {
	rl := NewRateLimiter(nil, RateLimitConfig{Window: time.Minute, Limit: 1, KeyPrefix: "x"}, nil)
	w := httptest.NewRecorder()
	limitedRouter(rl, uuid.Nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/limited", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
