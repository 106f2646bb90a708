package api_router

import (
	"github.com/haierkeys/fast-vault-sync-service/internal/app"
	"github.com/haierkeys/fast-vault-sync-service/internal/dto"
	pkgapp "github.com/haierkeys/fast-vault-sync-service/pkg/app"
	"github.com/haierkeys/fast-vault-sync-service/pkg/code"
	apperrors "github.com/haierkeys/fast-vault-sync-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

// SharedVaultHandler 共享库 API 路由处理器
type SharedVaultHandler struct {
	*Handler
}

// NewSharedVaultHandler 创建 SharedVaultHandler 实例
func NewSharedVaultHandler(a *app.App) *SharedVaultHandler {
	return &SharedVaultHandler{Handler: NewHandler(a)}
}

// Create 创建共享库
func (h *SharedVaultHandler) Create(c *gin.Context) {
	params := &dto.SharedVaultCreateRequest{}
	if !h.writable(c) || !h.bind(c, "SharedVaultHandler.Create", params) {
		return
	}

	result, err := h.App.SharedVaultService.Create(c.Request.Context(), pkgapp.GetUID(c), params)
	if err != nil {
		h.logError(c, "SharedVaultHandler.Create", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessCreate.WithData(result))
}

// List 获取当前用户所属的共享库
func (h *SharedVaultHandler) List(c *gin.Context) {
	list, err := h.App.SharedVaultService.List(c.Request.Context(), pkgapp.GetUID(c))
	if err != nil {
		h.logError(c, "SharedVaultHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	pkgapp.NewResponse(c).ToResponseList(code.Success, list, len(list))
}

// Delete 删除共享库（仅所有者）
func (h *SharedVaultHandler) Delete(c *gin.Context) {
	params := &dto.SharedVaultURIRequest{}
	if !h.writable(c) || !h.bindURI(c, "SharedVaultHandler.Delete", params) {
		return
	}

	if err := h.App.SharedVaultService.Delete(c.Request.Context(), pkgapp.GetUID(c), params.SharedVaultUUID); err != nil {
		h.logError(c, "SharedVaultHandler.Delete", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessDelete)
}

// Users 获取共享库成员
func (h *SharedVaultHandler) Users(c *gin.Context) {
	params := &dto.SharedVaultURIRequest{}
	if !h.bindURI(c, "SharedVaultHandler.Users", params) {
		return
	}

	list, err := h.App.SharedVaultService.Users(c.Request.Context(), pkgapp.GetUID(c), params.SharedVaultUUID)
	if err != nil {
		h.logError(c, "SharedVaultHandler.Users", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	pkgapp.NewResponse(c).ToResponseList(code.Success, list, len(list))
}

// RemoveUser 移除共享库成员
func (h *SharedVaultHandler) RemoveUser(c *gin.Context) {
	params := &dto.SharedVaultUserURIRequest{}
	if !h.writable(c) || !h.bindURI(c, "SharedVaultHandler.RemoveUser", params) {
		return
	}

	err := h.App.SharedVaultService.RemoveUser(c.Request.Context(), pkgapp.GetUID(c), params.SharedVaultUUID, params.UserUUID)
	if err != nil {
		h.logError(c, "SharedVaultHandler.RemoveUser", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessDelete)
}

// Removed 获取当前用户被移出共享库的记录
func (h *SharedVaultHandler) Removed(c *gin.Context) {
	list, err := h.App.SharedVaultService.Removed(c.Request.Context(), pkgapp.GetUID(c))
	if err != nil {
		h.logError(c, "SharedVaultHandler.Removed", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	pkgapp.NewResponse(c).ToResponseList(code.Success, list, len(list))
}
