package api_router

import (
	"context"
	"time"

	"github.com/haierkeys/fast-vault-sync-service/internal/app"
	pkgapp "github.com/haierkeys/fast-vault-sync-service/pkg/app"
	"github.com/haierkeys/fast-vault-sync-service/pkg/code"

	"github.com/gin-gonic/gin"
)

const healthDBTimeout = 2 * time.Second

// HealthHandler 健康检查处理器
type HealthHandler struct {
	*Handler
}

func NewHealthHandler(a *app.App) *HealthHandler {
	return &HealthHandler{Handler: NewHandler(a)}
}

// HealthResponse 健康检查数据
type HealthResponse struct {
	Status      string  `json:"status"`
	Version     string  `json:"version"`
	Uptime      float64 `json:"uptime"`
	Database    string  `json:"database"`
	Connections int     `json:"connections"`
	QueuedTasks int     `json:"queuedTasks"`
}

// Check reports 503 while the service is draining or the database does not answer.
// Check 服务关闭中或数据库不可达时返回 503
func (h *HealthHandler) Check(c *gin.Context) {
	res := HealthResponse{
		Status:   "healthy",
		Version:  app.Version,
		Uptime:   time.Since(h.App.StartTime).Seconds(),
		Database: "connected",
	}
	if h.App.WSS != nil {
		res.Connections = h.App.WSS.ClientCount()
	}
	if pool := h.App.WorkerPool(); pool != nil {
		res.QueuedTasks = pool.QueuedCount()
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthDBTimeout)
	defer cancel()
	dbErr := h.App.DB.WithContext(ctx).Exec("SELECT 1").Error
	if dbErr != nil {
		res.Database = "error"
	}

	if dbErr != nil || h.App.IsShuttingDown() {
		res.Status = "unhealthy"
		pkgapp.NewResponse(c).ToResponse(code.Failed.WithData(res))
		return
	}
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(res))
}
