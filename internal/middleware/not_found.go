package middleware

import (
	"github.com/haierkeys/fast-vault-sync-service/pkg/app"
	"github.com/haierkeys/fast-vault-sync-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// NotFound 未注册路由与不支持的方法统一返回 ErrorNotFoundAPI，details 为 "METHOD path"
func NotFound(c *gin.Context) {
	app.NewResponse(c).ToResponse(code.ErrorNotFoundAPI.WithDetails(c.Request.Method + " " + c.Request.URL.Path))
	c.Abort()
}
