package worker_test

import (
	"sync"
	"testing"
	"time"

	"github.com/memodeck/backend/internal/worker"
)

func TestPool_ResultsReachTheirSubmitter(t *testing.T) {
	pool := worker.NewPool[int](4, 16)
	defer pool.Close()

	// Many concurrent submitters, each checking it gets its own result back.
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			got := <-pool.Submit(func() int { return n * 2 })
			if got != n*2 {
				t.Errorf("submitter %d received %d", n, got)
			}
		}(i)
	}
	wg.Wait()
}

func TestPool_BoundsConcurrency(t *testing.T) {
	pool := worker.NewPool[struct{}](2, 16)
	defer pool.Close()

	var mu sync.Mutex
	running, peak := 0, 0

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-pool.Submit(func() struct{} {
				mu.Lock()
				running++
				if running > peak {
					peak = running
				}
				mu.Unlock()

				time.Sleep(10 * time.Millisecond)

				mu.Lock()
				running--
				mu.Unlock()
				return struct{}{}
			})
		}()
	}
	wg.Wait()

	if peak > 2 {
		t.Errorf("expected at most 2 jobs in flight, saw %d", peak)
	}
}

func TestPool_AbandonedResultDoesNotBlockWorkers(t *testing.T) {
	pool := worker.NewPool[int](1, 16)
	defer pool.Close()

	// Drop the reply channel on the floor; the buffered reply means the
	// single worker must still reach the next job.
	pool.Submit(func() int { return 1 })

	done := make(chan int, 1)
	go func() { done <- <-pool.Submit(func() int { return 2 }) }()

	select {
	case got := <-done:
		if got != 2 {
			t.Errorf("expected 2, got %d", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("worker blocked on an abandoned result")
	}
}
