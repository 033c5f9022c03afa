package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type memoryCache struct {
	data map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string]string{}}
}

func (m *memoryCache) Get(key string) (string, error) {
	return m.data[key], nil
}

func (m *memoryCache) Set(key, value string, expiration time.Duration) error {
	m.data[key] = value
	return nil
}

func idempotencyTestRouter(cache IdempotencyCache, statuses ...int) (*gin.Engine, *int) {
	gin.SetMode(gin.TestMode)
	calls := 0

	r := gin.New()
	r.POST("/checkout", Idempotency(cache), func(c *gin.Context) {
		status := statuses[calls]
		calls++
		c.JSON(status, gin.H{"attempt": calls})
	})
	return r, &calls
}

func postCheckout(r *gin.Engine, key string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/checkout", nil)
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotencyReplaysSuccess(t *testing.T) {
	r, calls := idempotencyTestRouter(newMemoryCache(), http.StatusCreated, http.StatusCreated)

	first := postCheckout(r, "key-1")
	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Empty(t, first.Header().Get("X-Idempotency-Replayed"))

	second := postCheckout(r, "key-1")
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, *calls, "replayed request must not reach the handler")
}

func TestIdempotencyDoesNotCacheFailures(t *testing.T) {
	r, calls := idempotencyTestRouter(newMemoryCache(),
		http.StatusInternalServerError, http.StatusCreated, http.StatusCreated)

	first := postCheckout(r, "key-1")
	assert.Equal(t, http.StatusInternalServerError, first.Code)

	// The retry runs for real and its success is then what gets replayed.
	second := postCheckout(r, "key-1")
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Empty(t, second.Header().Get("X-Idempotency-Replayed"))

	third := postCheckout(r, "key-1")
	assert.Equal(t, http.StatusCreated, third.Code)
	assert.Equal(t, "true", third.Header().Get("X-Idempotency-Replayed"))
	assert.Equal(t, 2, *calls)
}

func TestIdempotencyWithoutKeyRunsEveryTime(t *testing.T) {
	r, calls := idempotencyTestRouter(newMemoryCache(), http.StatusCreated, http.StatusCreated)

	postCheckout(r, "")
	postCheckout(r, "")
	assert.Equal(t, 2, *calls)
}

func TestIdempotencyDistinctKeys(t *testing.T) {
	r, calls := idempotencyTestRouter(newMemoryCache(), http.StatusCreated, http.StatusCreated)

	for i := 1; i <= 2; i++ {
		w := postCheckout(r, fmt.Sprintf("key-%d", i))
		assert.Equal(t, http.StatusCreated, w.Code)
	}
	assert.Equal(t, 2, *calls)
}
