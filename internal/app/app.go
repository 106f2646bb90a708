// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/haierkeys/fast-vault-sync-service/internal/dao"
	"github.com/haierkeys/fast-vault-sync-service/internal/domain"
	"github.com/haierkeys/fast-vault-sync-service/internal/service"
	pkgapp "github.com/haierkeys/fast-vault-sync-service/pkg/app"
	"github.com/haierkeys/fast-vault-sync-service/pkg/timex"
	"github.com/haierkeys/fast-vault-sync-service/pkg/util"
	"github.com/haierkeys/fast-vault-sync-service/pkg/workerpool"
	"github.com/haierkeys/fast-vault-sync-service/pkg/writequeue"

	"github.com/lxzan/gws"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App 应用容器，封装所有依赖和服务
type App struct {
	// 基础设施（注入的依赖）
	config *AppConfig
	logger *zap.Logger
	DB     *gorm.DB
	Dao    *dao.Dao

	// 并发控制组件
	workerPool    *workerpool.Pool
	writeQueueMgr *writequeue.Manager

	// Repository 层
	ItemRepo                   domain.ItemRepository
	SharedVaultRepo            domain.SharedVaultRepository
	SharedVaultUserRepo        domain.SharedVaultUserRepository
	RemovedSharedVaultUserRepo domain.RemovedSharedVaultUserRepository
	SharedVaultInviteRepo      domain.SharedVaultInviteRepository
	ContactRepo                domain.ContactRepository

	// Service 层
	SyncService              service.SyncService
	SharedVaultService       service.SharedVaultService
	SharedVaultInviteService service.SharedVaultInviteService
	ContactService           service.ContactService

	// 基础设施组件
	TokenManager pkgapp.TokenManager
	WSS          *pkgapp.WebsocketServer
	Timer        timex.Timer
	SyncMetrics  *service.SyncMetrics

	// StartTime 容器创建时间，健康检查计算运行时长
	StartTime time.Time

	// 关闭控制
	shutdownCh chan struct{}
}

// NewApp wires repositories, services and background infrastructure on top of
// an open database. reg may be nil, in which case no metrics are registered.
// NewApp 组装应用容器，reg 为 nil 时不注册指标
func NewApp(cfg *AppConfig, logger *zap.Logger, db *gorm.DB, reg prometheus.Registerer) (*App, error) {
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if db == nil {
		return nil, errors.New("database is required")
	}

	a := &App{
		config:     cfg,
		logger:     logger,
		DB:         db,
		StartTime:  time.Now(),
		shutdownCh: make(chan struct{}),
	}

	wpConfig := cfg.GetWorkerPoolConfig()
	a.workerPool = workerpool.New(&wpConfig, logger)
	if reg != nil {
		if err := a.workerPool.RegisterMetrics(reg); err != nil {
			logger.Warn("register worker pool metrics failed", zap.Error(err))
		}
	}

	// 同 key 写串行化
	wqConfig := cfg.GetWriteQueueConfig()
	a.writeQueueMgr = writequeue.New(&wqConfig, logger)

	a.Dao = dao.New(db, a.writeQueueMgr, logger)

	a.TokenManager = pkgapp.NewTokenManager(pkgapp.TokenConfig{
		SecretKey: cfg.Security.AuthTokenKey,
		Expiry:    cfg.GetTokenExpiry(),
	})

	// 推送通道
	a.WSS = pkgapp.NewWebsocketServer(pkgapp.WebsocketServerConfig{
		GWSOption: gws.ServerOption{
			CheckUtf8Enabled:   true,
			Recovery:           gws.Recovery,
			PermessageDeflate:  gws.PermessageDeflate{Enabled: true},
			ReadMaxPayloadSize: int(util.ParseSize(cfg.Websocket.ReadMaxPayloadSize, 64*1024)),
		},
		PingInterval: cfg.GetPingInterval(),
		PingWait:     cfg.GetPingWait(),
	}, logger)

	a.ItemRepo = dao.NewItemRepository(a.Dao)
	a.SharedVaultRepo = dao.NewSharedVaultRepository(a.Dao)
	a.SharedVaultUserRepo = dao.NewSharedVaultUserRepository(a.Dao)
	a.RemovedSharedVaultUserRepo = dao.NewRemovedSharedVaultUserRepository(a.Dao)
	a.SharedVaultInviteRepo = dao.NewSharedVaultInviteRepository(a.Dao)
	a.ContactRepo = dao.NewContactRepository(a.Dao)

	svcConfig := cfg.GetServiceConfig()
	a.Timer = timex.NewTimer()
	a.SyncMetrics = service.NewSyncMetrics(reg)

	getter := service.NewItemGetService(a.ItemRepo, a.SharedVaultUserRepo, svcConfig.Sync, logger)
	saver := service.NewItemSaveService(a.ItemRepo, service.NewDefaultItemSaveValidator(a.SharedVaultUserRepo), a.Timer, logger)
	notifier := service.NewItemChangeNotifier(a.workerPool, a.WSS, a.SharedVaultUserRepo, logger)
	a.SyncService = service.NewSyncService(getter, saver, a.SharedVaultUserRepo, a.ContactRepo, notifier, a.SyncMetrics, logger)
	a.SharedVaultService = service.NewSharedVaultService(a.SharedVaultRepo, a.SharedVaultUserRepo, a.RemovedSharedVaultUserRepo, a.SharedVaultInviteRepo, a.Timer, logger)
	a.SharedVaultInviteService = service.NewSharedVaultInviteService(a.SharedVaultRepo, a.SharedVaultUserRepo, a.SharedVaultInviteRepo, a.Timer, logger)
	a.ContactService = service.NewContactService(a.ContactRepo, a.Timer)

	logger.Info("app container ready",
		zap.Int("workerPoolMaxWorkers", wpConfig.MaxWorkers),
		zap.Int("writeQueueCapacity", wqConfig.QueueCapacity),
		zap.Int64("contentSizeTransferLimit", svcConfig.Sync.ContentSizeTransferLimit))

	return a, nil
}

// Close 释放数据库连接
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	sqlDB, err := a.DB.DB()
	if err != nil {
		return errors.Wrap(err, "get sql.DB")
	}
	return errors.Wrap(sqlDB.Close(), "close database")
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Version 获取版本信息
func (a *App) Version() VersionInfo {
	return VersionInfo{
		Name:            Name,
		Version:         Version,
		GitTag:          GitTag,
		BuildTime:       BuildTime,
		SyncAPIVersions: SyncAPIVersions,
	}
}

// WorkerPool 后台通知任务池
func (a *App) WorkerPool() *workerpool.Pool {
	return a.workerPool
}

// DefaultShutdownTimeout 默认关闭超时时间
const DefaultShutdownTimeout = 30 * time.Second

// Shutdown stops the app in dependency order: push connections, pending
// notifications, queued writes, then the database. Later stages run even when
// an earlier one fails. Calling it again is a no-op.
// Shutdown 按依赖顺序优雅关闭，单个阶段失败不影响后续阶段
func (a *App) Shutdown(ctx context.Context) error {
	select {
	case <-a.shutdownCh:
		return nil
	default:
		close(a.shutdownCh)
	}
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
	}

	stages := []struct {
		name string
		stop func(context.Context) error
	}{
		{"websocket", func(context.Context) error {
			if a.WSS != nil {
				a.WSS.Shutdown()
			}
			return nil
		}},
		{"worker pool", func(ctx context.Context) error {
			if a.workerPool == nil {
				return nil
			}
			return a.workerPool.Shutdown(ctx)
		}},
		{"write queue", func(ctx context.Context) error {
			if a.writeQueueMgr == nil {
				return nil
			}
			return a.writeQueueMgr.Shutdown(ctx)
		}},
		{"database", func(context.Context) error { return a.Close() }},
	}

	var errs []error
	for _, st := range stages {
		if err := st.stop(ctx); err != nil {
			a.logger.Warn("shutdown stage failed", zap.String("stage", st.name), zap.Error(err))
			errs = append(errs, errors.Wrap(err, st.name))
		}
	}
	if err := stderrors.Join(errs...); err != nil {
		return err
	}
	a.logger.Info("app container stopped")
	return nil
}

// IsShuttingDown 检查应用是否正在关闭
func (a *App) IsShuttingDown() bool {
	select {
	case <-a.shutdownCh:
		return true
	default:
		return false
	}
}
