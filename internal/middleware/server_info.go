package middleware

import "github.com/gin-gonic/gin"

// ServerInfo 在响应头中返回服务名称与版本，客户端据此判断协议能力
func ServerInfo(name, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Server-Name", name)
		c.Header("X-Server-Version", version)
		c.Next()
	}
}
