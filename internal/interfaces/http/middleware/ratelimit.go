package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"ai-course-builder-api/internal/interfaces/http/dto"
	rediscache "ai-course-builder-api/internal/infrastructure/persistence/redis"
	"ai-course-builder-api/pkg/logger"
)

// RateLimiter 限流器接口
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	Remaining(ctx context.Context, key string, limit int, window time.Duration) (int, error)
}

// RateLimitRule 限流规则
type RateLimitRule struct {
	// Scope 规则名，用于区分 Redis Key
	Scope  string
	Limit  int
	Window time.Duration
}

// RateLimit 滑动窗口限流中间件；已认证请求按用户计数，否则按客户端 IP
func RateLimit(rule RateLimitRule, limiter RateLimiter) gin.HandlerFunc {
	if limiter == nil || rule.Limit <= 0 || rule.Window <= 0 {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		subject := UserID(c)
		if subject == "" {
			subject = "ip:" + c.ClientIP()
		}
		key := rediscache.BuildRateLimitKey(rule.Scope, subject)

		allowed, err := limiter.Allow(c.Request.Context(), key, rule.Limit, rule.Window)
		if err != nil {
			// 限流器故障时放行
			logger.Warn(c.Request.Context(), "rate limiter unavailable", "error", err, "scope", rule.Scope)
			c.Next()
			return
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(rule.Limit))
		if remaining, err := limiter.Remaining(c.Request.Context(), key, rule.Limit, rule.Window); err == nil {
			c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		}
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(rule.Window.Seconds()+0.5)))
			dto.TooManyRequests(c, "rate limit exceeded")
			return
		}

		c.Next()
	}
}
