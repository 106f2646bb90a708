// Package workerpool runs fire-and-forget background work, such as change
// notifications, on a fixed number of goroutines behind a bounded queue.
// workerpool 用固定数量的 goroutine 和有界队列执行后台任务（如变更推送）
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

var (
	ErrWorkerPoolFull   = errors.New("workerpool: queue is full")
	ErrWorkerPoolClosed = errors.New("workerpool: pool is closed")
	ErrTaskTimeout      = errors.New("workerpool: task timed out")
	ErrTaskPanic        = errors.New("workerpool: task panicked")
)

// Config 池配置
type Config struct {
	// MaxWorkers 常驻 worker 数
	MaxWorkers int
	// QueueSize 排队任务上限，超出后 SubmitAsync 返回 ErrWorkerPoolFull
	QueueSize int
	// TaskTimeout 单任务超时，0 不限制
	TaskTimeout time.Duration
}

// DefaultConfig 默认配置
func DefaultConfig() Config {
	return Config{MaxWorkers: 16, QueueSize: 256}
}

// Task 任务函数，ctx 在超时或池被强制关闭时取消
type Task func(ctx context.Context) error

type job struct {
	name   string
	ctx    context.Context
	task   Task
	result chan error // nil for async jobs
}

// Stats 池运行状态快照
type Stats struct {
	Workers   int   `json:"workers"`
	Busy      int64 `json:"busy"`
	Queued    int   `json:"queued"`
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`
}

// Pool 任务池
type Pool struct {
	cfg Config
	log *zap.Logger

	jobs chan job
	wg   sync.WaitGroup

	// abort 在 Shutdown 超时后取消所有执行中的任务
	abortCtx context.Context
	abort    context.CancelFunc

	// mu guards closed and the close of jobs against concurrent sends.
	mu     sync.RWMutex
	closed bool

	busy      atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
}

// New starts cfg.MaxWorkers workers. A nil cfg or zero fields fall back to DefaultConfig.
// New 创建并启动任务池
func New(cfg *Config, log *zap.Logger) *Pool {
	c := DefaultConfig()
	if cfg != nil {
		if cfg.MaxWorkers > 0 {
			c.MaxWorkers = cfg.MaxWorkers
		}
		if cfg.QueueSize > 0 {
			c.QueueSize = cfg.QueueSize
		}
		c.TaskTimeout = cfg.TaskTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}

	p := &Pool{
		cfg:  c,
		log:  log.Named("workerpool"),
		jobs: make(chan job, c.QueueSize),
	}
	p.abortCtx, p.abort = context.WithCancel(context.Background())

	p.wg.Add(c.MaxWorkers)
	for range c.MaxWorkers {
		go p.loop()
	}
	return p
}

func (p *Pool) loop() {
	defer p.wg.Done()
	for j := range p.jobs {
		err := p.run(j)
		if j.result != nil {
			j.result <- err
		} else if err != nil {
			p.log.Warn("async task failed", zap.String("task", j.name), zap.Error(err))
		}
	}
}

// run executes one job and keeps the counters.
func (p *Pool) run(j job) (err error) {
	p.busy.Add(1)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrTaskPanic, j.name, r)
			p.log.Error("task panic", zap.String("task", j.name), zap.Any("panic", r), zap.Stack("stack"))
		}
		p.busy.Add(-1)
		if err != nil {
			p.failed.Add(1)
		} else {
			p.succeeded.Add(1)
		}
	}()

	ctx, cancel := context.WithCancel(j.ctx)
	defer cancel()
	stop := context.AfterFunc(p.abortCtx, cancel)
	defer stop()

	if p.cfg.TaskTimeout > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeoutCause(ctx, p.cfg.TaskTimeout, ErrTaskTimeout)
		defer cancelTimeout()
	}

	err = j.task(ctx)
	if err != nil && errors.Is(context.Cause(ctx), ErrTaskTimeout) {
		err = fmt.Errorf("%w: %s", ErrTaskTimeout, j.name)
	}
	return err
}

// SubmitAsync queues task without waiting for it. The caller's cancellation is
// not propagated; pass context.WithoutCancel when the request ends before the task.
// SubmitAsync 入队后立即返回，队列满返回 ErrWorkerPoolFull
func (p *Pool) SubmitAsync(ctx context.Context, name string, task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrWorkerPoolClosed
	}
	select {
	case p.jobs <- job{name: name, ctx: ctx, task: task}:
		return nil
	default:
		return ErrWorkerPoolFull
	}
}

// Submit 入队并等待任务结束，返回任务错误
func (p *Pool) Submit(ctx context.Context, name string, task Task) error {
	result := make(chan error, 1)
	if err := p.enqueue(ctx, job{name: name, ctx: ctx, task: task, result: result}); err != nil {
		return err
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) enqueue(ctx context.Context, j job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrWorkerPoolClosed
	}
	select {
	case p.jobs <- j:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// QueuedCount 排队中的任务数
func (p *Pool) QueuedCount() int {
	return len(p.jobs)
}

// Stats 当前状态
func (p *Pool) Stats() Stats {
	return Stats{
		Workers:   p.cfg.MaxWorkers,
		Busy:      p.busy.Load(),
		Queued:    len(p.jobs),
		Succeeded: p.succeeded.Load(),
		Failed:    p.failed.Load(),
	}
}

// Shutdown stops accepting tasks and lets the workers drain the queue. When ctx
// ends first, running tasks are cancelled and ctx.Err() is returned.
// Shutdown 停止接收任务并等待队列清空，ctx 到期时取消执行中的任务
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.abort()
		return nil
	case <-ctx.Done():
		p.abort()
		p.log.Warn("shutdown deadline reached, cancelling running tasks",
			zap.Int64("busy", p.busy.Load()),
			zap.Int("queued", len(p.jobs)))
		return ctx.Err()
	}
}

// RegisterMetrics exposes the pool counters on reg. A collector left by a
// previous pool (config reload) is replaced.
// RegisterMetrics 将池状态注册为 prometheus 指标
func (p *Pool) RegisterMetrics(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "workerpool_busy_workers",
			Help: "Workers currently running a task.",
		}, func() float64 { return float64(p.busy.Load()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "workerpool_queued_tasks",
			Help: "Tasks waiting for a worker.",
		}, func() float64 { return float64(len(p.jobs)) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "workerpool_succeeded_tasks_total",
			Help: "Tasks that returned without error.",
		}, func() float64 { return float64(p.succeeded.Load()) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "workerpool_failed_tasks_total",
			Help: "Tasks that failed, panicked or timed out.",
		}, func() float64 { return float64(p.failed.Load()) }),
	}
	for _, c := range collectors {
		reg.Unregister(c)
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
