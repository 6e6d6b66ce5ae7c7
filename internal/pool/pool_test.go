package pool_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/iamNilotpal/kvs/internal/pool"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPoolRunsAllJobs(t *testing.T) {
	p := pool.New(4, zap.NewNop().Sugar())
	defer p.Stop()

	var count atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		p.Spawn(func() {
			defer wg.Done()
			count.Add(1)
		})
	}

	waitWithTimeout(t, &wg, 2*time.Second)
	require.EqualValues(t, 50, count.Load())
}

func TestPoolSurvivesPanickingJob(t *testing.T) {
	p := pool.New(2, zap.NewNop().Sugar())
	defer p.Stop()

	var wg sync.WaitGroup
	wg.Add(1)
	p.Spawn(func() {
		defer wg.Done()
		panic("boom")
	})
	waitWithTimeout(t, &wg, time.Second)

	var after sync.WaitGroup
	var count atomic.Int64
	for i := 0; i < 10; i++ {
		after.Add(1)
		p.Spawn(func() {
			defer after.Done()
			count.Add(1)
		})
	}
	waitWithTimeout(t, &after, 2*time.Second)
	require.EqualValues(t, 10, count.Load())
}

func waitWithTimeout(t *testing.T, wg *sync.WaitGroup, d time.Duration) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(d):
		t.Fatal("timed out waiting for jobs to complete")
	}
}
