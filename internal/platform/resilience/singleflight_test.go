package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_Do(t *testing.T) {
	var g SingleFlight[[]string]
	var counter int32
	var sharedCount int32

	const workers = 20
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			roster, shared, err := g.Do(context.Background(), "roster:2025:123", func(context.Context) ([]string, error) {
				atomic.AddInt32(&counter, 1)
				time.Sleep(20 * time.Millisecond)
				return []string{"3918298"}, nil
			})
			if err != nil {
				t.Errorf("singleflight call failed: %v", err)
			}
			if len(roster) != 1 {
				t.Errorf("unexpected roster %v", roster)
			}
			if shared {
				atomic.AddInt32(&sharedCount, 1)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := atomic.LoadInt32(&counter); got != 1 {
		t.Fatalf("expected function to run once, got %d", got)
	}
	if got := atomic.LoadInt32(&sharedCount); got != workers-1 {
		t.Fatalf("expected %d shared results, got %d", workers-1, got)
	}
}

func TestSingleFlight_DoReleasesKeyAfterError(t *testing.T) {
	var g SingleFlight[int]
	boom := errors.New("boom")

	if _, _, err := g.Do(context.Background(), "k", func(context.Context) (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	val, shared, err := g.Do(context.Background(), "k", func(context.Context) (int, error) { return 7, nil })
	if err != nil || shared || val != 7 {
		t.Fatalf("expected fresh call after error, got val=%d shared=%v err=%v", val, shared, err)
	}
}

func TestSingleFlight_WaiterHonoursContext(t *testing.T) {
	var g SingleFlight[int]
	release := make(chan struct{})
	leaderStarted := make(chan struct{})

	go func() {
		_, _, _ = g.Do(context.Background(), "roster", func(context.Context) (int, error) {
			close(leaderStarted)
			<-release
			return 1, nil
		})
	}()
	<-leaderStarted

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, shared, err := g.Do(ctx, "roster", func(context.Context) (int, error) {
		t.Errorf("waiter must not run fn")
		return 0, nil
	})
	close(release)

	if !shared || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected shared cancellation, got shared=%v err=%v", shared, err)
	}
}
