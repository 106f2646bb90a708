package timex

import (
	"sync/atomic"
	"time"
)

// Timer 微秒时钟
type Timer interface {
	// NowMicro returns the current time in microseconds since the Unix epoch
	// NowMicro 返回当前微秒时间戳
	NowMicro() int64
}

// MonotonicTimer never returns the same microsecond twice within a process,
// so rows stamped by it keep a strict update order.
// MonotonicTimer 在同一进程内保证返回值严格递增
type MonotonicTimer struct {
	last atomic.Int64
	now  func() time.Time
}

// NewTimer 创建基于系统时钟的 MonotonicTimer
func NewTimer() *MonotonicTimer {
	return &MonotonicTimer{now: time.Now}
}

// NewTimerWithClock 使用指定的时钟函数创建 MonotonicTimer
func NewTimerWithClock(now func() time.Time) *MonotonicTimer {
	return &MonotonicTimer{now: now}
}

func (t *MonotonicTimer) NowMicro() int64 {
	for {
		last := t.last.Load()
		n := t.now().UnixMicro()
		if n <= last {
			n = last + 1
		}
		if t.last.CompareAndSwap(last, n) {
			return n
		}
	}
}

var _ Timer = (*MonotonicTimer)(nil)
