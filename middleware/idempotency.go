package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
	idempotencyTTL       = 24 * time.Hour
)

// IdempotencyCache is the slice of the redis wrapper the middleware needs.
type IdempotencyCache interface {
	Get(key string) (string, error)
	Set(key, value string, expiration time.Duration) error
}

type cachedResponse struct {
	StatusCode int    `json:"status_code"`
	Body       string `json:"body"`
}

type responseRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

// Idempotency replays the stored response for a repeated Idempotency-Key.
// The header is optional: without it a resubmitted request runs again (and a
// resubmitted checkout charges again). Only successful responses are stored,
// so a client can retry a failed attempt under the same key.
func Idempotency(store IdempotencyCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}

		cacheKey := "idempotency:" + key
		if cached, err := store.Get(cacheKey); err == nil && cached != "" {
			var resp cachedResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				c.Header("Content-Type", "application/json")
				c.Header("X-Idempotency-Replayed", "true")
				c.String(resp.StatusCode, resp.Body)
				c.Abort()
				return
			}
		}

		recorder := &responseRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = recorder
		c.Next()

		status := recorder.Status()
		if status < 200 || status >= 300 {
			return
		}

		resp := cachedResponse{
			StatusCode: status,
			Body:       recorder.body.String(),
		}
		if data, err := json.Marshal(resp); err == nil {
			_ = store.Set(cacheKey, string(data), idempotencyTTL)
		}
	}
}
