// Package api_router 提供 HTTP API 路由处理器
package api_router

import (
	"github.com/haierkeys/fast-vault-sync-service/internal/app"
	"github.com/haierkeys/fast-vault-sync-service/internal/middleware"
	pkgapp "github.com/haierkeys/fast-vault-sync-service/pkg/app"
	"github.com/haierkeys/fast-vault-sync-service/pkg/code"
	"github.com/haierkeys/fast-vault-sync-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 基础 Handler 结构体，封装 App Container
// 所有 API Handler 都应该嵌入此结构体以获得依赖注入能力
type Handler struct {
	App *app.App
}

// NewHandler 创建基础 Handler 实例
func NewHandler(a *app.App) *Handler {
	return &Handler{App: a}
}

// logError 记录带请求上下文的错误日志
func (h *Handler) logError(c *gin.Context, op string, err error) {
	h.App.Logger().Error(op,
		zap.String(logger.FieldTraceID, middleware.GetTraceIDFromGin(c)),
		zap.String(logger.FieldUID, pkgapp.GetUID(c)),
		zap.Error(err))
}

// bind 绑定请求体或查询参数，失败时直接输出参数错误
func (h *Handler) bind(c *gin.Context, op string, params any) bool {
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Warn(op+".BindAndValid err", zap.Error(errs))
		pkgapp.NewResponse(c).ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return false
	}
	return true
}

// bindURI 绑定路径参数
func (h *Handler) bindURI(c *gin.Context, op string, params any) bool {
	valid, errs := pkgapp.BindURIAndValid(c, params)
	if !valid {
		h.App.Logger().Warn(op+".BindURIAndValid err", zap.Error(errs))
		pkgapp.NewResponse(c).ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return false
	}
	return true
}

// writable 只读会话不能修改共享库与联系人
func (h *Handler) writable(c *gin.Context) bool {
	if pkgapp.IsReadOnly(c) {
		pkgapp.NewResponse(c).ToResponse(code.ErrorReadOnlyAccess)
		return false
	}
	return true
}
