package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimit is a fixed-window per-client limiter backed by Redis, so
// the budget holds across server instances. On a Redis failure the
// request is let through: limiting is best-effort, not a gate.
func RateLimit(rdc *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(ginCtx *gin.Context) {
		key := "rl:" + ginCtx.ClientIP()
		ctx := ginCtx.Request.Context()

		pipe := rdc.Pipeline()
		incr := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, window)
		if _, err := pipe.Exec(ctx); err != nil {
			zap.L().Warn("ratelimit.redis", zap.Error(err))
			ginCtx.Next()
			return
		}

		if incr.Val() > int64(limit) {
			ginCtx.AbortWithStatusJSON(http.StatusTooManyRequests,
				gin.H{"error": "too many requests"})
			return
		}
		ginCtx.Next()
	}
}
