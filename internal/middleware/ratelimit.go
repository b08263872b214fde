package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/Artin0123/API-backend/internal/logger"
	"github.com/Artin0123/API-backend/internal/resolver"
	"github.com/Artin0123/API-backend/pkg/response"
)

// RateLimiter is the injected budget capability; its state lives behind
// the interface, never in package globals.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit throttles by originating IP. A limiter failure fails open:
// losing Redis must not take the ingestion endpoints down with it.
func RateLimit(limiter RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := resolver.ExtractIP(c.Request.Header, c.Request.RemoteAddr)

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.FromContext(c.Request.Context()).Warn("Rate limiter unavailable",
				"error", err,
			)
			c.Next()
			return
		}

		if !allowed {
			response.TooManyRequests(c, "rate limit exceeded")
			c.Abort()
			return
		}

		c.Next()
	}
}
