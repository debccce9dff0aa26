package pool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNaivePoolRunsAllJobs(t *testing.T) {
	p := NewNaivePool(4, zap.NewNop().Sugar())

	var count atomic.Int64
	for i := 0; i < 20; i++ {
		p.Spawn(func() { count.Add(1) })
	}
	require.NoError(t, p.Close())
	require.Equal(t, int64(20), count.Load())
}

func TestNaivePoolJobPanicDoesNotStopOthers(t *testing.T) {
	p := NewNaivePool(4, zap.NewNop().Sugar())

	var count atomic.Int64
	p.Spawn(func() { panic("boom") })
	p.Spawn(func() { count.Add(1) })
	require.NoError(t, p.Close())
	require.Equal(t, int64(1), count.Load())
}

func TestSharedQueuePoolRunsAllJobs(t *testing.T) {
	p := NewSharedQueuePool(3, zap.NewNop().Sugar())

	var count atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Spawn(func() { count.Add(1) })
		}()
	}
	wg.Wait()
	require.NoError(t, p.Close())
	require.Equal(t, int64(30), count.Load())
}

func TestSharedQueuePoolSurvivesJobPanic(t *testing.T) {
	p := NewSharedQueuePool(2, zap.NewNop().Sugar())

	done := make(chan struct{})
	p.Spawn(func() { panic("boom") })
	p.Spawn(func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("pool did not keep serving jobs after a worker panicked")
	}

	require.NoError(t, p.Close())
}
