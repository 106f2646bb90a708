package api_router

import (
	"github.com/haierkeys/fast-vault-sync-service/internal/app"
	"github.com/haierkeys/fast-vault-sync-service/internal/dto"
	pkgapp "github.com/haierkeys/fast-vault-sync-service/pkg/app"
	"github.com/haierkeys/fast-vault-sync-service/pkg/code"
	apperrors "github.com/haierkeys/fast-vault-sync-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

// ContactHandler 联系人 API 路由处理器
type ContactHandler struct {
	*Handler
}

// NewContactHandler 创建 ContactHandler 实例
func NewContactHandler(a *app.App) *ContactHandler {
	return &ContactHandler{Handler: NewHandler(a)}
}

// Save 创建或更新联系人
func (h *ContactHandler) Save(c *gin.Context) {
	params := &dto.ContactSaveRequest{}
	if !h.writable(c) || !h.bind(c, "ContactHandler.Save", params) {
		return
	}

	contact, err := h.App.ContactService.Save(c.Request.Context(), pkgapp.GetUID(c), params)
	if err != nil {
		h.logError(c, "ContactHandler.Save", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(contact))
}

func (h *ContactHandler) List(c *gin.Context) {
	list, err := h.App.ContactService.List(c.Request.Context(), pkgapp.GetUID(c))
	if err != nil {
		h.logError(c, "ContactHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	pkgapp.NewResponse(c).ToResponseList(code.Success, list, len(list))
}

func (h *ContactHandler) Delete(c *gin.Context) {
	params := &dto.ContactURIRequest{}
	if !h.writable(c) || !h.bindURI(c, "ContactHandler.Delete", params) {
		return
	}

	if err := h.App.ContactService.Delete(c.Request.Context(), pkgapp.GetUID(c), params.UUID); err != nil {
		h.logError(c, "ContactHandler.Delete", err)
		apperrors.ErrorResponse(c, err)
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.SuccessDelete)
}
