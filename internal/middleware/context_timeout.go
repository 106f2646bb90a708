package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/haierkeys/fast-vault-sync-service/pkg/app"
	"github.com/haierkeys/fast-vault-sync-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// ContextTimeout bounds the request context. When the deadline passes before
// the handler wrote anything, ErrorRequestTimeout is returned. timeout <= 0 disables it.
// ContextTimeout 为请求 context 设置超时，处理器未输出时返回 ErrorRequestTimeout
func ContextTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			app.NewResponse(c).ToResponse(code.ErrorRequestTimeout)
		}
	}
}
