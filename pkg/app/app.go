// Package app 提供 gin 请求上下文上的响应输出、参数绑定、令牌解析与 websocket 推送
package app

import (
	"strings"

	"github.com/haierkeys/fast-vault-sync-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// StatusCodeKey 响应状态码在 gin.Context 中的键，访问日志读取
const StatusCodeKey = "status_code"

// Res is the envelope used by every endpoint except the sync endpoint.
// Res 统一响应结构，同步接口除外
type Res struct {
	Code    int         `json:"code"`
	Status  bool        `json:"status"`
	Message interface{} `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// ListRes 列表数据
type ListRes struct {
	List  interface{} `json:"list"`
	Total int         `json:"total"`
}

type Response struct {
	Ctx *gin.Context
}

func NewResponse(ctx *gin.Context) *Response {
	return &Response{Ctx: ctx}
}

// ToResponse 以 Res 输出 Code，Data 与 Details 取自 Code
func (r *Response) ToResponse(c *code.Code) {
	r.envelope(c, c.Data())
}

// ToResponseList 以 ListRes 作为 Data 输出
func (r *Response) ToResponseList(c *code.Code, list interface{}, total int) {
	r.envelope(c, ListRes{List: list, Total: total})
}

// ToRaw 直接输出 JSON，不包裹 Res
func (r *Response) ToRaw(statusCode int, content interface{}) {
	r.Ctx.Set(StatusCodeKey, statusCode)
	r.Ctx.JSON(statusCode, content)
}

func (r *Response) envelope(c *code.Code, data interface{}) {
	res := Res{
		Code:    c.Code(),
		Status:  c.Status(),
		Message: c.Msg(),
		Data:    data,
	}
	if c.HaveDetails() {
		res.Details = strings.Join(c.Details(), ",")
	}
	r.ToRaw(c.StatusCode(), res)
}

// GetRequestIP 客户端 IP，本机 IPv6 回环地址转为 127.0.0.1
func GetRequestIP(c *gin.Context) string {
	ip := c.ClientIP()
	if ip == "::1" {
		return "127.0.0.1"
	}
	return ip
}

// GetAccessHost 客户端访问使用的 scheme://host，优先取反向代理的 X-Forwarded-Proto
func GetAccessHost(c *gin.Context) string {
	proto := c.GetHeader("X-Forwarded-Proto")
	if proto == "" {
		proto = "http"
		if c.Request.TLS != nil {
			proto = "https"
		}
	}
	return proto + "://" + c.Request.Host
}
