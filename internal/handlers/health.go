package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Pinger is satisfied by *redis.Client.
type Pinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

type HealthHandler struct {
	redis Pinger
}

// NewHealthHandler takes the rate limiter's Redis client, or nil when the
// limiter runs in process.
func NewHealthHandler(redis Pinger) *HealthHandler {
	return &HealthHandler{redis: redis}
}

// Health always reports ok; Redis is informational since the limiter
// fails open.
func (h *HealthHandler) Health(c *gin.Context) {
	resp := gin.H{"status": "ok"}
	if h.redis != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		if err := h.redis.Ping(ctx).Err(); err != nil {
			resp["redis"] = "unavailable"
		} else {
			resp["redis"] = "ok"
		}
	}
	c.JSON(http.StatusOK, resp)
}
