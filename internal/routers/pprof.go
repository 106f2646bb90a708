package routers

import (
	"expvar"
	"net/http/pprof"

	"github.com/haierkeys/fast-vault-sync-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// PprofPrefix pprof 路由前缀
const PprofPrefix = "/debug/pprof"

var pprofProfiles = []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"}

// NewPrivateRouterWithLogger builds the router served on the private port:
// prometheus metrics and expvar always, pprof only in debug mode.
// NewPrivateRouterWithLogger 创建私有端口路由，pprof 仅在 debug 模式下开放
func NewPrivateRouterWithLogger(runMode string, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RecoveryWithLogger(logger))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/debug/vars", gin.WrapH(expvar.Handler()))

	if runMode != gin.DebugMode {
		return r
	}

	p := r.Group(PprofPrefix)
	p.GET("/", gin.WrapF(pprof.Index))
	p.GET("/cmdline", gin.WrapF(pprof.Cmdline))
	p.GET("/profile", gin.WrapF(pprof.Profile))
	p.Any("/symbol", gin.WrapF(pprof.Symbol))
	p.GET("/trace", gin.WrapF(pprof.Trace))
	for _, name := range pprofProfiles {
		p.GET("/"+name, gin.WrapH(pprof.Handler(name)))
	}
	return r
}
