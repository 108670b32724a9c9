package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-campus/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	IdempotencyCacheKey = "idempotency_cache_key"
	IdempotencyLockKey  = "idempotency_lock_key"

	idempotencyLockTTL = 30 * time.Second
	IdempotencyTTL     = 24 * time.Hour
)

// IdempotentResponse is what a handler stores under IdempotencyCacheKey.
type IdempotentResponse struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// NewIdempotentResponse encodes data for replay with the given status.
func NewIdempotentResponse(status int, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(IdempotentResponse{Status: status, Data: raw})
}

// Idempotency replays the stored response of a POST carrying an
// Idempotency-Key that already succeeded, and rejects a duplicate while the
// first one is still running. Handlers store the response under
// IdempotencyCacheKey and release IdempotencyLockKey.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey == "" || c.Request.Method != http.MethodPost || rdb == nil {
			c.Next()
			return
		}

		userID := c.GetString("user_id_validated")
		if userID == "" {
			userID = c.GetString(ContextUserID)
		}

		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), userID, idempKey)
		lockKey := cacheKey + ":lock"

		if val, err := rdb.Get(c.Request.Context(), cacheKey).Result(); err == nil {
			var cached IdempotentResponse
			if json.Unmarshal([]byte(val), &cached) == nil && cached.Status != 0 {
				c.Header("Idempotent-Replay", "true")
				response.Success(c, cached.Status, cached.Data, nil)
				c.Abort()
				return
			}
		}

		isNew, err := rdb.SetNX(c.Request.Context(), lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			// Redis down: serve the request without idempotency.
			c.Next()
			return
		}
		if !isNew {
			response.Error(c, http.StatusConflict, "PROCESSING", "A request with this Idempotency-Key is still being processed", nil)
			c.Abort()
			return
		}

		c.Set(IdempotencyCacheKey, cacheKey)
		c.Set(IdempotencyLockKey, lockKey)

		c.Next()
	}
}
