package service

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// SyncMetrics 同步相关的 prometheus 指标
type SyncMetrics struct {
	Requests  *prometheus.CounterVec
	Conflicts *prometheus.CounterVec
	Saved     prometheus.Counter
	Retrieved prometheus.Counter
	Duration  prometheus.Histogram
}

// NewSyncMetrics registers the sync collectors on reg. Collectors already
// registered by a previous App (config reload) are reused.
// NewSyncMetrics 注册同步指标，配置热重载时复用已注册的指标
func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	return &SyncMetrics{
		Requests: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sync_requests_total",
			Help: "Sync requests by result.",
		}, []string{"result"})),
		Conflicts: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sync_conflicts_total",
			Help: "Rejected item writes by conflict type.",
		}, []string{"type"})),
		Saved: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sync_saved_items_total",
			Help: "Items accepted by sync.",
		})),
		Retrieved: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sync_retrieved_items_total",
			Help: "Items returned by sync.",
		})),
		Duration: register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sync_duration_seconds",
			Help:    "Sync request latency.",
			Buckets: prometheus.DefBuckets,
		})),
	}
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if reg == nil {
		return c
	}
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}
