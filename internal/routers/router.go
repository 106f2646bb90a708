package routers

import (
	"time"

	"github.com/haierkeys/fast-vault-sync-service/internal/app"
	"github.com/haierkeys/fast-vault-sync-service/internal/middleware"
	"github.com/haierkeys/fast-vault-sync-service/internal/routers/api_router"
	"github.com/haierkeys/fast-vault-sync-service/pkg/limiter"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// methodLimiters 同步接口按前缀限流
func methodLimiters() limiter.Face {
	return limiter.NewMethodLimiter().AddBuckets(
		limiter.BucketRule{
			Key:          "/v1/items/sync",
			FillInterval: time.Second,
			Capacity:     50,
			Quantum:      50,
		},
		limiter.BucketRule{
			Key:          "/v1/shared-vaults",
			FillInterval: time.Second,
			Capacity:     20,
			Quantum:      20,
		},
	)
}

// NewRouter 创建公共路由
func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {
	cfg := appContainer.Config()
	lg := appContainer.Logger()

	r := gin.New()
	r.Use(middleware.ServerInfo(app.Name, app.Version))
	r.Use(middleware.TraceMiddlewareWithConfig(cfg.Tracer.Enabled, cfg.Tracer.Header))
	r.Use(middleware.Tracing())
	r.Use(middleware.AccessLogWithLogger(lg))
	r.Use(middleware.RecoveryWithLogger(lg))
	r.Use(middleware.Cors())
	r.Use(middleware.RateLimiter(methodLimiters()))
	r.Use(middleware.LangWithTranslator(uni))

	healthHandler := api_router.NewHealthHandler(appContainer)
	versionHandler := api_router.NewVersionHandler(appContainer)
	r.GET("/healthcheck", healthHandler.Check)
	r.GET("/version", versionHandler.ServerVersion)

	syncHandler := api_router.NewSyncHandler(appContainer)
	vaultHandler := api_router.NewSharedVaultHandler(appContainer)
	inviteHandler := api_router.NewSharedVaultInviteHandler(appContainer)
	contactHandler := api_router.NewContactHandler(appContainer)

	v1 := r.Group("/v1")
	v1.Use(middleware.UserAuthToken(appContainer.TokenManager))
	{
		// 推送通道为长连接，不受请求超时限制
		v1.GET("/sockets", appContainer.WSS.Run())

		api := v1.Group("")
		api.Use(middleware.ContextTimeout(time.Duration(cfg.App.DefaultContextTimeout) * time.Second))

		api.POST("/items/sync", syncHandler.Sync)

		api.POST("/shared-vaults", vaultHandler.Create)
		api.GET("/shared-vaults", vaultHandler.List)
		api.GET("/shared-vaults/removed", vaultHandler.Removed)
		api.DELETE("/shared-vaults/:uuid", vaultHandler.Delete)
		api.GET("/shared-vaults/:uuid/users", vaultHandler.Users)
		api.DELETE("/shared-vaults/:uuid/users/:userUuid", vaultHandler.RemoveUser)

		api.POST("/shared-vaults/:uuid/invites", inviteHandler.Create)
		api.DELETE("/shared-vaults/:uuid/invites/:inviteUuid", inviteHandler.Delete)
		api.GET("/shared-vaults/invites", inviteHandler.Inbound)
		api.GET("/shared-vaults/invites/outbound", inviteHandler.Outbound)
		api.POST("/shared-vaults/invites/:inviteUuid/accept", inviteHandler.Accept)
		api.POST("/shared-vaults/invites/:inviteUuid/decline", inviteHandler.Decline)

		api.POST("/contacts", contactHandler.Save)
		api.GET("/contacts", contactHandler.List)
		api.DELETE("/contacts/:uuid", contactHandler.Delete)
	}

	r.NoRoute(middleware.NotFound)

	return r
}
