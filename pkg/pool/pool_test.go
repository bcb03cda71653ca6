package pool

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolSubmit(t *testing.T) {
	p, err := New("test", &Config{Capacity: 4})
	require.NoError(t, err)
	defer p.Release()

	var wg sync.WaitGroup
	var mu sync.Mutex
	count := 0

	for i := 0; i < 20; i++ {
		wg.Add(1)
		err := p.Submit(func() {
			defer wg.Done()
			mu.Lock()
			count++
			mu.Unlock()
		})
		require.NoError(t, err)
	}
	wg.Wait()

	assert.Equal(t, 20, count)
	stats := p.Stats()
	assert.Equal(t, int64(20), stats.SubmittedTasks)
	assert.Equal(t, int64(20), stats.CompletedTasks)
}

func TestPoolSubmitAfterRelease(t *testing.T) {
	p, err := New("test", nil)
	require.NoError(t, err)

	p.Release()

	err = p.Submit(func() {})
	assert.ErrorIs(t, err, ErrPoolClosed)
}

func TestPoolSubmitWithContextCancelled(t *testing.T) {
	p, err := New("test", &Config{Capacity: 2})
	require.NoError(t, err)
	defer p.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = p.SubmitWithContext(ctx, func() {
		t.Fatal("task should not run")
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPoolReleaseTimeout(t *testing.T) {
	p, err := New("test", &Config{Capacity: 2})
	require.NoError(t, err)

	done := make(chan struct{})
	require.NoError(t, p.Submit(func() {
		time.Sleep(50 * time.Millisecond)
		close(done)
	}))

	require.NoError(t, p.ReleaseTimeout(time.Second))
	<-done
}

func TestPoolNonblockingOverload(t *testing.T) {
	p, err := New("test", &Config{Capacity: 1, Nonblocking: true})
	require.NoError(t, err)
	defer p.Release()

	block := make(chan struct{})
	require.NoError(t, p.Submit(func() { <-block }))

	// Give the first task time to occupy the only worker.
	time.Sleep(10 * time.Millisecond)

	err = p.Submit(func() {})
	assert.ErrorIs(t, err, ErrPoolOverload)
	close(block)
}
