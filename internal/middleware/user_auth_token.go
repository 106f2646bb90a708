package middleware

import (
	"strings"

	"github.com/haierkeys/fast-vault-sync-service/pkg/app"
	"github.com/haierkeys/fast-vault-sync-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// bearerToken 按优先级取 Token：Authorization 头 -> query authorization -> query token
// 浏览器的 websocket 握手无法自定义请求头，因此保留 query 方式
func bearerToken(c *gin.Context) string {
	if s := c.GetHeader("Authorization"); s != "" {
		if rest, ok := strings.CutPrefix(s, "Bearer "); ok {
			return strings.TrimSpace(rest)
		}
		return strings.TrimSpace(s)
	}
	if s, exist := c.GetQuery("authorization"); exist {
		return s
	}
	if s, exist := c.GetQuery("token"); exist {
		return s
	}
	return ""
}

// UserAuthToken 用户 Token 认证中间件
// 认证成功后会话信息以 app.ContextUserKey 写入 gin.Context
func UserAuthToken(tm app.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := app.NewResponse(c)

		token := bearerToken(c)
		if token == "" {
			response.ToResponse(code.ErrorNotUserAuthToken)
			c.Abort()
			return
		}

		user, err := tm.Parse(token)
		if err != nil {
			response.ToResponse(code.ErrorInvalidUserAuthToken.WithDetails(err.Error()))
			c.Abort()
			return
		}
		app.SetUser(c, user)

		c.Next()
	}
}
