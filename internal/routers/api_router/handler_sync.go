package api_router

import (
	"net/http"

	"github.com/haierkeys/fast-vault-sync-service/internal/app"
	"github.com/haierkeys/fast-vault-sync-service/internal/dto"
	"github.com/haierkeys/fast-vault-sync-service/internal/service"
	pkgapp "github.com/haierkeys/fast-vault-sync-service/pkg/app"
	apperrors "github.com/haierkeys/fast-vault-sync-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

// SyncHandler 条目同步 API 路由处理器
type SyncHandler struct {
	*Handler
}

// NewSyncHandler 创建 SyncHandler 实例
func NewSyncHandler(a *app.App) *SyncHandler {
	return &SyncHandler{Handler: NewHandler(a)}
}

// Sync saves the submitted items and returns one page of server changes.
// The body is the sync wire format, not the Res envelope.
// Sync 保存客户端条目并返回一页服务端变更，响应为同步协议格式，不包裹 Res
func (h *SyncHandler) Sync(c *gin.Context) {
	params := &dto.ItemSyncRequest{}
	if !h.bind(c, "SyncHandler.Sync", params) {
		return
	}

	actor := service.SyncActor{
		UserUUID:    pkgapp.GetUID(c),
		SessionUUID: pkgapp.GetSessionUUID(c),
		ReadOnly:    pkgapp.IsReadOnly(c),
	}

	payload, err := h.App.SyncService.Sync(c.Request.Context(), actor, params)
	if err != nil {
		h.logError(c, "SyncHandler.Sync", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	pkgapp.NewResponse(c).ToRaw(http.StatusOK, dto.NewItemSyncResponse(payload))
}
