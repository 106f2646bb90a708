package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_SubmitReturnsTaskError(t *testing.T) {
	p := New(&Config{MaxWorkers: 2, QueueSize: 4}, nil)
	defer p.Shutdown(context.Background())

	want := errors.New("failed")
	err := p.Submit(context.Background(), "fail", func(context.Context) error { return want })
	assert.ErrorIs(t, err, want)

	assert.NoError(t, p.Submit(context.Background(), "ok", func(context.Context) error { return nil }))

	st := p.Stats()
	assert.Equal(t, int64(1), st.Succeeded)
	assert.Equal(t, int64(1), st.Failed)
	assert.Equal(t, 2, st.Workers)
}

func TestPool_RecoversPanic(t *testing.T) {
	p := New(&Config{MaxWorkers: 1, QueueSize: 1}, nil)
	defer p.Shutdown(context.Background())

	err := p.Submit(context.Background(), "panic", func(context.Context) error { panic("boom") })
	assert.ErrorIs(t, err, ErrTaskPanic)

	// worker 仍然可用
	assert.NoError(t, p.Submit(context.Background(), "after", func(context.Context) error { return nil }))
}

func TestPool_TaskTimeout(t *testing.T) {
	p := New(&Config{MaxWorkers: 1, QueueSize: 1, TaskTimeout: 20 * time.Millisecond}, nil)
	defer p.Shutdown(context.Background())

	err := p.Submit(context.Background(), "slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	assert.ErrorIs(t, err, ErrTaskTimeout)
}

func TestPool_ShutdownDrainsQueue(t *testing.T) {
	p := New(&Config{MaxWorkers: 1, QueueSize: 10}, nil)

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		require.NoError(t, p.SubmitAsync(context.Background(), "count", func(context.Context) error {
			ran.Add(1)
			return nil
		}))
	}

	require.NoError(t, p.Shutdown(context.Background()))
	assert.Equal(t, int32(5), ran.Load())
	assert.ErrorIs(t, p.SubmitAsync(context.Background(), "late", func(context.Context) error { return nil }), ErrWorkerPoolClosed)
}

func TestPool_QueueFull(t *testing.T) {
	p := New(&Config{MaxWorkers: 1, QueueSize: 1}, nil)
	release := make(chan struct{})
	started := make(chan struct{})

	require.NoError(t, p.SubmitAsync(context.Background(), "block", func(context.Context) error {
		close(started)
		<-release
		return nil
	}))
	<-started
	require.NoError(t, p.SubmitAsync(context.Background(), "queued", func(context.Context) error { return nil }))

	err := p.SubmitAsync(context.Background(), "overflow", func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrWorkerPoolFull)

	close(release)
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestPool_ShutdownDeadlineCancelsRunningTask(t *testing.T) {
	p := New(&Config{MaxWorkers: 1, QueueSize: 1}, nil)
	started := make(chan struct{})
	cancelled := make(chan struct{})

	require.NoError(t, p.SubmitAsync(context.Background(), "stuck", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		close(cancelled)
		return ctx.Err()
	}))
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Shutdown(ctx), context.DeadlineExceeded)

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("running task was not cancelled")
	}
}

func TestPool_RegisterMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()

	old := New(&Config{MaxWorkers: 1, QueueSize: 1}, nil)
	require.NoError(t, old.RegisterMetrics(reg))
	require.NoError(t, old.Shutdown(context.Background()))

	// a reloaded pool takes over the collectors
	p := New(&Config{MaxWorkers: 1, QueueSize: 1}, nil)
	defer p.Shutdown(context.Background())
	require.NoError(t, p.RegisterMetrics(reg))

	require.NoError(t, p.Submit(context.Background(), "ok", func(context.Context) error { return nil }))
	_ = p.Submit(context.Background(), "fail", func(context.Context) error { return errors.New("x") })

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, mf := range mfs {
		m := mf.GetMetric()[0]
		switch {
		case m.GetCounter() != nil:
			values[mf.GetName()] = m.GetCounter().GetValue()
		case m.GetGauge() != nil:
			values[mf.GetName()] = m.GetGauge().GetValue()
		}
	}
	assert.Equal(t, float64(1), values["workerpool_succeeded_tasks_total"])
	assert.Equal(t, float64(1), values["workerpool_failed_tasks_total"])
	assert.Equal(t, float64(0), values["workerpool_queued_tasks"])
}
