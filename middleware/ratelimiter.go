package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memory "github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimiter limits requests per client IP to limit per period. The audit
// IP from AuditMiddleware is for display only and is not used as the key.
func RateLimiter(limit int64, period time.Duration) gin.HandlerFunc {
	store := memory.NewStore()
	rate := limiter.Rate{
		Period: period,
		Limit:  limit,
	}

	// 📊 Limiter instance
	instance := limiter.New(store, rate)

	// 🚦 Keyed by c.ClientIP(), which only believes forwarding headers from
	// the router's trusted proxies
	return ginlimiter.NewMiddleware(instance)
}

// SubmissionRateLimiter guards the public write endpoints.
func SubmissionRateLimiter() gin.HandlerFunc {
	return RateLimiter(20, time.Minute)
}
