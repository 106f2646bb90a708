// Package errors 将 service 层返回的错误渲染为统一的 JSON 错误响应
package errors

import (
	"context"
	"errors"
	"time"

	"github.com/haierkeys/fast-vault-sync-service/internal/middleware"
	pkgapp "github.com/haierkeys/fast-vault-sync-service/pkg/app"
	"github.com/haierkeys/fast-vault-sync-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// AppError is the JSON body written for every failed request.
// AppError 失败请求的响应体
type AppError struct {
	Code      int      `json:"code"`
	Status    bool     `json:"status"`
	Message   string   `json:"message"`
	Details   []string `json:"details,omitempty"`
	TraceID   string   `json:"traceId,omitempty"`
	Timestamp int64    `json:"timestamp"`

	httpStatus int
	cause      error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// HTTPStatus 响应使用的 HTTP 状态码
func (e *AppError) HTTPStatus() int {
	return e.httpStatus
}

// New 由 Code 构造 AppError，cause 只用于日志与 errors.Is，不会输出给客户端
func New(c *code.Code, cause error) *AppError {
	return &AppError{
		Code:       c.Code(),
		Status:     c.Status(),
		Message:    c.Msg(),
		Details:    c.Details(),
		Timestamp:  time.Now().UnixMilli(),
		httpStatus: c.StatusCode(),
		cause:      cause,
	}
}

// Resolve maps an arbitrary error onto a registered Code.
// Unknown errors become ErrorServerInternal without details so that
// driver or filesystem messages never reach the client.
// Resolve 将任意错误映射为已注册的 Code
func Resolve(err error) *code.Code {
	var c *code.Code
	switch {
	case errors.As(err, &c):
		return c
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return code.ErrorRequestTimeout
	default:
		return code.ErrorServerInternal
	}
}

// ErrorResponse 输出错误响应，AppError 原样输出（补充 TraceID），其他错误先经 Resolve 映射
func ErrorResponse(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = New(Resolve(err), err)
	}
	appErr.TraceID = middleware.GetTraceIDFromGin(c)

	c.Set(pkgapp.StatusCodeKey, appErr.httpStatus)
	c.JSON(appErr.httpStatus, appErr)
}

// Abort 输出错误响应并终止后续处理器
func Abort(c *gin.Context, err error) {
	ErrorResponse(c, err)
	c.Abort()
}
