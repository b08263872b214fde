package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type HealthHandler struct {
	db    *pgxpool.Pool
	redis *redis.Client
}

type HealthCheck struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status    string                 `json:"status"`
	Checks    map[string]HealthCheck `json:"checks"`
	Timestamp string                 `json:"timestamp"`
}

func NewHealthHandler(db *pgxpool.Pool, redis *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// Readyz checks the two shared dependencies. Redis degradation only warns
// (the collector fails open without its rate limiter); Postgres down means
// not ready.
func (h *HealthHandler) Readyz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]HealthCheck{
		"database": h.checkDatabase(ctx),
		"redis":    h.checkRedis(ctx),
	}

	resp := HealthResponse{
		Status:    "up",
		Checks:    checks,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	if checks["database"].Status != "up" {
		resp.Status = "down"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) HealthCheck {
	if err := h.db.Ping(ctx); err != nil {
		return HealthCheck{Status: "down", Message: err.Error()}
	}
	return HealthCheck{Status: "up", Message: "connected"}
}

func (h *HealthHandler) checkRedis(ctx context.Context) HealthCheck {
	if err := h.redis.Ping(ctx).Err(); err != nil {
		return HealthCheck{Status: "degraded", Message: err.Error()}
	}
	return HealthCheck{Status: "up", Message: "connected"}
}
