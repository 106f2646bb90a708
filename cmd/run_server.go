package cmd

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"time"

	internalApp "github.com/haierkeys/fast-vault-sync-service/internal/app"
	"github.com/haierkeys/fast-vault-sync-service/internal/dao"
	"github.com/haierkeys/fast-vault-sync-service/internal/routers"
	"github.com/haierkeys/fast-vault-sync-service/pkg/logger"
	"github.com/haierkeys/fast-vault-sync-service/pkg/safe_close"
	"github.com/haierkeys/fast-vault-sync-service/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	validatorV10 "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// placeholderTokenKeys 未修改的内置密钥，使用时无法验证认证服务签发的令牌
var placeholderTokenKeys = []string{"fast-vault-sync-Auth-Token", ""}

// DefaultShutdownTimeout 默认关闭超时时间
const DefaultShutdownTimeout = 30 * time.Second

// Server 一次配置加载对应的运行实例，热重载时整体替换
type Server struct {
	logger            *zap.Logger
	config            *internalApp.AppConfig
	db                *gorm.DB
	ut                *ut.UniversalTranslator
	httpServer        *http.Server
	privateHttpServer *http.Server
	sc                *safe_close.SafeClose
	app               *internalApp.App
}

func warnPlaceholderTokenKey(cfg *internalApp.AppConfig, lg *zap.Logger) {
	if slices.Contains(placeholderTokenKeys, cfg.Security.AuthTokenKey) {
		lg.Warn("security.auth-token-key is unset or still the built-in placeholder; set it to the auth service signing key",
			zap.String("config", cfg.File))
	}
}

func newHTTPServer(addr string, h http.Handler, cfg internalApp.ServerConfig) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(cfg.WriteTimeout) * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}

func NewServer(runEnv *runFlags) (*Server, error) {
	appConfig, configRealpath, err := internalApp.LoadConfig(runEnv.config)
	if err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	// 命令行参数优先于配置文件
	if runEnv.port != "" {
		appConfig.Server.HttpPort = ":" + strings.TrimPrefix(runEnv.port, ":")
	}
	if runEnv.runMode != "" {
		appConfig.Server.RunMode = runEnv.runMode
	}
	gin.SetMode(cmp.Or(appConfig.Server.RunMode, gin.ReleaseMode))

	s := &Server{
		config: appConfig,
		sc:     safe_close.NewSafeClose(),
	}

	if err := ensureDirs(appConfig); err != nil {
		return nil, errors.Wrap(err, "create directories")
	}

	lg, err := logger.NewLogger(appConfig.GetLoggerConfig())
	if err != nil {
		return nil, errors.Wrap(err, "init logger")
	}
	s.logger = lg

	warnPlaceholderTokenKey(appConfig, s.logger)

	if err := initTracer(s, appConfig); err != nil {
		return nil, errors.Wrap(err, "init tracer")
	}

	db, err := dao.NewDBEngineWithConfig(appConfig.GetDatabaseConfig(), s.logger)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	s.db = db

	app, err := internalApp.NewApp(appConfig, s.logger, db, prometheus.DefaultRegisterer)
	if err != nil {
		return nil, errors.Wrap(err, "create app container")
	}
	s.app = app

	uni, err := initValidatorWithLogger(s.logger)
	if err != nil {
		return nil, errors.Wrap(err, "init validator")
	}
	s.ut = uni

	banner := `
    ______           __     _    __            ____      _____
   / ____/___ ______/ /_   | |  / /___ ___  __/ / /_    / ___/__  ______  _____
  / /_  / __ '/ ___/ __/   | | / / __ '/ / / / / __/    \__ \/ / / / __ \/ ___/
 / __/ / /_/ (__  ) /_     | |/ / /_/ / /_/ / / /_     ___/ / /_/ / / / / /__
/_/    \__,_/____/\__/     |___/\__,_/\__,_/_/\__/    /____/\__, /_/ /_/\___/
                                                           /____/             `
	s.logger.Warn(fmt.Sprintf("%s\n\n%s v%s\nGit: %s\nBuildTime: %s\n", banner, internalApp.Name, internalApp.Version, internalApp.GitTag, internalApp.BuildTime))
	s.logger.Warn("config loaded", zap.String("path", configRealpath))

	if addr := appConfig.Server.HttpPort; addr != "" {
		s.logger.Warn("api listening", zap.String("addr", addr))
		s.httpServer = newHTTPServer(addr, routers.NewRouter(s.app, s.ut), appConfig.Server)
		s.serve(s.httpServer, "api")
	}
	if addr := appConfig.Server.PrivateHttpListen; addr != "" {
		s.logger.Info("private api listening", zap.String("addr", addr))
		s.privateHttpServer = newHTTPServer(addr, routers.NewPrivateRouterWithLogger(appConfig.Server.RunMode, s.logger), appConfig.Server)
		s.serve(s.privateHttpServer, "private api")
	}

	// http 服务停止后再关闭容器
	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()
		<-closeSignal
		ctx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
		if err := s.app.Shutdown(ctx); err != nil {
			s.logger.Error("app container shutdown", zap.Error(err))
		}
	})

	return s, nil
}

// serve 在 SafeClose 上挂载一个 HTTP 服务，收到关闭信号后优雅停止
func (s *Server) serve(srv *http.Server, name string) {
	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()
		failed := make(chan error, 1)
		go func() { failed <- srv.ListenAndServe() }()
		select {
		case err := <-failed:
			s.logger.Error("listener stopped", zap.String("server", name), zap.Error(err))
			s.sc.SendCloseSignal(err)
		case <-closeSignal:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				s.logger.Error("http shutdown", zap.String("server", name), zap.Error(err))
			}
		}
	})
}

// initTracer 配置了 jaeger agent 时把 jaeger 设为全局 tracer，否则保持 opentracing 的 noop tracer
func initTracer(s *Server, cfg *internalApp.AppConfig) error {
	if cfg.Tracer.JaegerAgent == "" {
		return nil
	}

	jcfg := jaegercfg.Configuration{
		ServiceName: cfg.Tracer.ServiceName,
		Sampler: &jaegercfg.SamplerConfig{
			Type:  jaeger.SamplerTypeConst,
			Param: 1,
		},
		Reporter: &jaegercfg.ReporterConfig{
			LocalAgentHostPort:  cfg.Tracer.JaegerAgent,
			BufferFlushInterval: time.Second,
		},
	}
	tracer, closer, err := jcfg.NewTracer()
	if err != nil {
		return err
	}
	opentracing.SetGlobalTracer(tracer)
	s.logger.Info("jaeger tracer enabled", zap.String("agent", cfg.Tracer.JaegerAgent))

	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()
		<-closeSignal
		closeTracer(closer, s.logger)
	})
	return nil
}

func closeTracer(closer io.Closer, lg *zap.Logger) {
	if err := closer.Close(); err != nil {
		lg.Warn("jaeger tracer close error", zap.Error(err))
	}
}

// initValidatorWithLogger 初始化验证器，返回 UniversalTranslator
func initValidatorWithLogger(lg *zap.Logger) (*ut.UniversalTranslator, error) {
	customValidator := validator.NewCustomValidator()
	customValidator.Engine()
	binding.Validator = customValidator

	validate, ok := binding.Validator.Engine().(*validatorV10.Validate)
	if !ok {
		lg.Warn("binding validator is not validator/v10, translations disabled")
		return ut.New(en.New(), en.New(), zh.New()), nil
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	uni := ut.New(en.New(), en.New(), zh.New())
	zhTran, _ := uni.GetTranslator("zh")
	enTran, _ := uni.GetTranslator("en")

	if err := zh_translations.RegisterDefaultTranslations(validate, zhTran); err != nil {
		return nil, err
	}
	if err := en_translations.RegisterDefaultTranslations(validate, enTran); err != nil {
		return nil, err
	}
	return uni, nil
}

// ensureDirs 创建日志与 SQLite 数据库所在目录
func ensureDirs(cfg *internalApp.AppConfig) error {
	dirs := []string{filepath.Dir(cfg.Log.File)}
	if strings.EqualFold(cfg.Database.Type, "sqlite") {
		dirs = append(dirs, filepath.Dir(cfg.Database.Path))
	}
	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0754); err != nil {
			return errors.Wrapf(err, "create directory %s", dir)
		}
	}
	return nil
}
