package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerManager_ProcessesJobs(t *testing.T) {
	wm := NewWorkerManager(10, 3, nil)

	var processed int64
	var wg sync.WaitGroup
	wg.Add(5)
	wm.SetWorker(func(ctx context.Context, idx int, job interface{}) {
		atomic.AddInt64(&processed, int64(job.(int)))
		wg.Done()
	})

	done := make(chan error, 1)
	go func() { done <- wm.Start(context.Background()) }()

	for i := 1; i <= 5; i++ {
		wm.Enqueue(i)
	}
	wg.Wait()
	assert.Equal(t, int64(15), atomic.LoadInt64(&processed))

	wm.Exit()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrWorkersStopped)
	case <-time.After(2 * time.Second):
		t.Fatal("workers did not stop")
	}
}

func TestWorkerManager_StopsOnContextCancel(t *testing.T) {
	wm := NewWorkerManager(1, 2, nil)
	wm.SetWorker(func(ctx context.Context, idx int, job interface{}) {})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- wm.Start(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrWorkersStopped)
	case <-time.After(2 * time.Second):
		t.Fatal("workers did not stop")
	}
}

func TestWorkerManager_TryEnqueue(t *testing.T) {
	wm := NewWorkerManager(1, 1, nil)
	require.True(t, wm.TryEnqueue("a"))
	assert.False(t, wm.TryEnqueue("b"))
	assert.Equal(t, int64(1), wm.GetUnreadCount())
}

func TestWorkerManager_StartWithoutHandler(t *testing.T) {
	wm := NewWorkerManager(1, 1, nil)
	assert.Error(t, wm.Start(context.Background()))
}
