package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/superfix/superfix-backend/internal/interface/http/response"
	"github.com/superfix/superfix-backend/internal/logger"
)

// RateLimiter ограничивает публичные формы и вход по IP.
type RateLimiter struct {
	instance *limiter.Limiter
}

// NewRateLimiter создаёт лимитер. По умолчанию 10 запросов в минуту.
func NewRateLimiter(limit int64, period time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = 10
	}
	if period <= 0 {
		period = time.Minute
	}
	rate := limiter.Rate{Period: period, Limit: limit}
	return &RateLimiter{instance: limiter.New(memory.NewStore(), rate)}
}

// Middleware - отдельный счётчик на каждую группу маршрутов.
func (rl *RateLimiter) Middleware(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := scope + ":" + c.ClientIP()
		lctx, err := rl.instance.Get(c.Request.Context(), key)
		if err != nil {
			logger.WithComponent("ratelimit").WithError(err).Warn("не удалось проверить лимит")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))

		if lctx.Reached {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.ErrorBody{Error: "слишком много запросов, попробуйте позже"})
			return
		}
		c.Next()
	}
}
