// Package writequeue serializes write operations that share a key
// Package writequeue 提供按 key 串行化的写操作队列
// SQLite 只允许单写者，同一用户的并发同步请求在这里排队，避免 "database is locked"
package writequeue

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	ErrWriteQueueFull   = errors.New("writequeue: too many pending writes for key")
	ErrWriteQueueClosed = errors.New("writequeue: closed")
	ErrWriteTimeout     = errors.New("writequeue: timed out waiting for turn")
)

// Config 写队列配置
type Config struct {
	// QueueCapacity 单个 key 上同时登记的写操作上限
	QueueCapacity int
	// WriteTimeout 排队等待的上限，不含 fn 的执行时间
	WriteTimeout time.Duration
}

// DefaultConfig 默认每 key 100 个等待者，等待 30 秒
func DefaultConfig() Config {
	return Config{QueueCapacity: 100, WriteTimeout: 30 * time.Second}
}

// lane 单个 key 的写通道，turn 容量为 1，持有即轮到执行
type lane struct {
	turn    chan struct{}
	waiters int
}

// Manager hands out per-key turns. Lanes live only while someone waits on them.
// Manager 管理所有 key 的写通道
type Manager struct {
	cfg Config
	log *zap.Logger

	mu       sync.Mutex
	lanes    map[string]*lane
	closed   bool
	inflight sync.WaitGroup
}

// New 创建写队列管理器，cfg 中的零值字段取默认值
func New(cfg *Config, log *zap.Logger) *Manager {
	c := DefaultConfig()
	if cfg != nil {
		if cfg.QueueCapacity > 0 {
			c.QueueCapacity = cfg.QueueCapacity
		}
		if cfg.WriteTimeout > 0 {
			c.WriteTimeout = cfg.WriteTimeout
		}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		cfg:   c,
		log:   log.Named("writequeue"),
		lanes: make(map[string]*lane),
	}
}

// acquire 登记一个等待者
func (m *Manager) acquire(key string) (*lane, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrWriteQueueClosed
	}
	l, ok := m.lanes[key]
	if !ok {
		l = &lane{turn: make(chan struct{}, 1)}
		m.lanes[key] = l
	}
	if l.waiters >= m.cfg.QueueCapacity {
		return nil, ErrWriteQueueFull
	}
	l.waiters++
	m.inflight.Add(1)
	return l, nil
}

// release 注销等待者，最后一个离开时回收 lane
func (m *Manager) release(key string, l *lane) {
	m.mu.Lock()
	l.waiters--
	if l.waiters == 0 {
		delete(m.lanes, key)
	}
	m.mu.Unlock()
	m.inflight.Done()
}

// Execute 执行写操作
// 同一 key 的写操作按到达顺序串行执行，不同 key 之间互不影响
func (m *Manager) Execute(ctx context.Context, key string, fn func() error) error {
	l, err := m.acquire(key)
	if err != nil {
		return err
	}
	defer m.release(key, l)

	timer := time.NewTimer(m.cfg.WriteTimeout)
	defer timer.Stop()

	select {
	case l.turn <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		m.log.Warn("gave up waiting for write turn", zap.String("key", key), zap.Duration("waited", m.cfg.WriteTimeout))
		return ErrWriteTimeout
	}
	defer func() { <-l.turn }()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn()
}

// Shutdown 拒绝新的写操作并等待已登记的写操作完成
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		m.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		m.log.Warn("pending writes did not finish before shutdown deadline")
		return ctx.Err()
	}
}

// Pending 当前在 key 上登记（执行中或排队）的写操作数
func (m *Manager) Pending(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.lanes[key]; ok {
		return l.waiters
	}
	return 0
}

// Keys 当前有写操作的 key 数
func (m *Manager) Keys() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lanes)
}
