package api_router

import (
	"github.com/haierkeys/fast-vault-sync-service/internal/app"
	"github.com/haierkeys/fast-vault-sync-service/internal/dto"
	pkgapp "github.com/haierkeys/fast-vault-sync-service/pkg/app"
	"github.com/haierkeys/fast-vault-sync-service/pkg/code"
	apperrors "github.com/haierkeys/fast-vault-sync-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

// SharedVaultInviteHandler 共享库邀请 API 路由处理器
type SharedVaultInviteHandler struct {
	*Handler
}

// NewSharedVaultInviteHandler 创建 SharedVaultInviteHandler 实例
func NewSharedVaultInviteHandler(a *app.App) *SharedVaultInviteHandler {
	return &SharedVaultInviteHandler{Handler: NewHandler(a)}
}

// Create 邀请用户加入共享库
func (h *SharedVaultInviteHandler) Create(c *gin.Context) {
	uri := &dto.SharedVaultURIRequest{}
	params := &dto.SharedVaultInviteCreateRequest{}
	if !h.writable(c) || !h.bindURI(c, "SharedVaultInviteHandler.Create", uri) || !h.bind(c, "SharedVaultInviteHandler.Create", params) {
		return
	}

	invite, err := h.App.SharedVaultInviteService.Create(c.Request.Context(), pkgapp.GetUID(c), uri.SharedVaultUUID, params)
	if err != nil {
		h.logError(c, "SharedVaultInviteHandler.Create", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessCreate.WithData(invite))
}

// Inbound 收到的邀请
func (h *SharedVaultInviteHandler) Inbound(c *gin.Context) {
	list, err := h.App.SharedVaultInviteService.Inbound(c.Request.Context(), pkgapp.GetUID(c))
	if err != nil {
		h.logError(c, "SharedVaultInviteHandler.Inbound", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	pkgapp.NewResponse(c).ToResponseList(code.Success, list, len(list))
}

// Outbound 发出的邀请
func (h *SharedVaultInviteHandler) Outbound(c *gin.Context) {
	list, err := h.App.SharedVaultInviteService.Outbound(c.Request.Context(), pkgapp.GetUID(c))
	if err != nil {
		h.logError(c, "SharedVaultInviteHandler.Outbound", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	pkgapp.NewResponse(c).ToResponseList(code.Success, list, len(list))
}

// Accept 接受邀请
func (h *SharedVaultInviteHandler) Accept(c *gin.Context) {
	params := &dto.SharedVaultInviteURIRequest{}
	if !h.writable(c) || !h.bindURI(c, "SharedVaultInviteHandler.Accept", params) {
		return
	}

	member, err := h.App.SharedVaultInviteService.Accept(c.Request.Context(), pkgapp.GetUID(c), params.InviteUUID)
	if err != nil {
		h.logError(c, "SharedVaultInviteHandler.Accept", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(member))
}

// Decline 拒绝邀请
func (h *SharedVaultInviteHandler) Decline(c *gin.Context) {
	params := &dto.SharedVaultInviteURIRequest{}
	if !h.writable(c) || !h.bindURI(c, "SharedVaultInviteHandler.Decline", params) {
		return
	}

	if err := h.App.SharedVaultInviteService.Decline(c.Request.Context(), pkgapp.GetUID(c), params.InviteUUID); err != nil {
		h.logError(c, "SharedVaultInviteHandler.Decline", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessDelete)
}

// Delete 撤回邀请
func (h *SharedVaultInviteHandler) Delete(c *gin.Context) {
	params := &dto.SharedVaultInviteDeleteURIRequest{}
	if !h.writable(c) || !h.bindURI(c, "SharedVaultInviteHandler.Delete", params) {
		return
	}

	err := h.App.SharedVaultInviteService.Delete(c.Request.Context(), pkgapp.GetUID(c), params.SharedVaultUUID, params.InviteUUID)
	if err != nil {
		h.logError(c, "SharedVaultInviteHandler.Delete", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessDelete)
}
