package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_RunsAllTasks(t *testing.T) {
	p := NewPool(3, 16)
	p.Start(context.Background())

	var n atomic.Int32
	for i := 0; i < 10; i++ {
		require.NoError(t, p.Submit(func(context.Context) { n.Add(1) }))
	}
	p.Close()

	assert.Equal(t, int32(10), n.Load())
}

func TestPool_QueueFull(t *testing.T) {
	p := NewPool(1, 1)
	block := make(chan struct{})
	started := make(chan struct{})
	p.Start(context.Background())

	require.NoError(t, p.Submit(func(context.Context) {
		close(started)
		<-block
	}))
	<-started
	require.NoError(t, p.Submit(func(context.Context) {}))
	assert.ErrorIs(t, p.Submit(func(context.Context) {}), ErrQueueFull)

	close(block)
	p.Close()
	assert.ErrorIs(t, p.Submit(func(context.Context) {}), ErrPoolClosed)
}

func TestPool_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := NewPool(2, 4)
	p.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("workers did not exit after cancel")
	}
}

func TestPool_RateLimit(t *testing.T) {
	p := NewPool(2, 8)
	p.SetRateLimit(20, 1)
	p.Start(context.Background())

	start := time.Now()
	for i := 0; i < 4; i++ {
		require.NoError(t, p.Submit(func(context.Context) {}))
	}
	p.Close()

	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}
