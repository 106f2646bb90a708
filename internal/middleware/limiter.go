package middleware

import (
	"math"
	"strconv"

	"github.com/haierkeys/fast-vault-sync-service/pkg/app"
	"github.com/haierkeys/fast-vault-sync-service/pkg/code"
	"github.com/haierkeys/fast-vault-sync-service/pkg/limiter"

	"github.com/gin-gonic/gin"
)

// RateLimiter creates rate limiting middleware (supports dependency injection)
// RateLimiter 创建限流中间件，未匹配任何规则的路径不限流
func RateLimiter(l limiter.Face) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := l.Key(c)
		if bucket, ok := l.GetBucket(key); ok {
			if bucket.TakeAvailable(1) == 0 {
				// 下一个令牌放入前需要等待的秒数
				c.Header("Retry-After", strconv.Itoa(int(math.Ceil(1/bucket.Rate()))))
				app.NewResponse(c).ToResponse(code.ErrorTooManyRequests)
				c.Abort()
				return
			}
		}

		c.Next()
	}
}
