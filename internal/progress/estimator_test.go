package progress

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Add(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestEstimatorAdvanceIsSequential(t *testing.T) {
	const workers = 128
	est := NewEstimator(workers, Config{NotifyInterval: time.Nanosecond})
	est.Begin(StageScan, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	start := make(chan struct{})
	results := make(chan int, workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			snap, _ := est.Advance("f.java", 1)
			results <- snap.Done
		}()
	}
	close(start)
	wg.Wait()
	close(results)

	seen := make([]bool, workers)
	for r := range results {
		if r <= 0 || r > workers {
			t.Fatalf("進捗値が範囲外です: got=%d", r)
		}
		if seen[r-1] {
			t.Fatalf("進捗値が重複しました: got=%d", r)
		}
		seen[r-1] = true
	}
	for i, ok := range seen {
		if !ok {
			t.Fatalf("進捗値が欠落しています: index=%d", i+1)
		}
	}
	if snap := est.Snapshot(); snap.Errors != workers || snap.Remaining != 0 {
		t.Fatalf("unexpected final snapshot: %+v", snap)
	}
}

func TestEstimatorETAAfterWarmup(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	est := NewEstimator(0, Config{WarmupSamples: 4, WarmupDuration: time.Second, Now: clock.Now})
	est.Begin(StageScan, 20)
	for i := 0; i < 10; i++ {
		clock.Add(500 * time.Millisecond)
		est.Advance("a.java", 0)
	}
	snap := est.Snapshot()
	if snap.Warmup {
		t.Fatalf("warmup should be over: %+v", snap)
	}
	// 2 files/s with 10 files left
	if snap.ETAP50 != 5*time.Second {
		t.Fatalf("ETA P50 = %s, want 5s", snap.ETAP50)
	}
	if got := est.Complete(); got.Done != 20 || got.Remaining != 0 {
		t.Fatalf("Complete should fill the stage: %+v", got)
	}
}

func TestEstimatorNotifyThrottles(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	est := NewEstimator(0, Config{NotifyInterval: time.Second, Now: clock.Now})
	est.Begin(StageScan, 3)
	clock.Add(100 * time.Millisecond)
	if _, notify := est.Advance("a", 0); notify {
		t.Fatal("first advance inside the interval must not notify")
	}
	clock.Add(time.Second)
	if _, notify := est.Advance("b", 0); !notify {
		t.Fatal("advance after the interval must notify")
	}
	if _, notify := est.Advance("c", 0); !notify {
		t.Fatal("the last file always notifies")
	}
}

func TestWindowQuantile(t *testing.T) {
	w := newWindow(4)
	for _, v := range []float64{9, 1, 2, 3, 4} {
		w.Add(v)
	}
	if w.Len() != 4 {
		t.Fatalf("window should keep 4 values, got %d", w.Len())
	}
	if got := w.Quantile(0.5); got != 2.5 {
		t.Fatalf("median = %g, want 2.5", got)
	}
	if got := w.Quantile(1); got != 4 {
		t.Fatalf("max = %g, want 4 (9 was evicted)", got)
	}
}

func TestPercentClampsTo100(t *testing.T) {
	if got := percent(5, 4); got != 100 {
		t.Fatalf("5/4 は 100%% として扱うべきです: got=%d", got)
	}
}

func TestLineObserverOutput(t *testing.T) {
	var buf bytes.Buffer
	ob := NewMultiObserver(nil, NewLineObserver(&buf))
	ob.Publish(Snapshot{Stage: StageScan, Total: 2, Done: 1, Errors: 3})
	if !strings.Contains(buf.String(), "stage=scan total=2 done=1 errors=3") {
		t.Fatalf("unexpected line: %q", buf.String())
	}
	if _, ok := NewMultiObserver(nil).(NoopObserver); !ok {
		t.Fatal("empty multi observer should be a no-op")
	}
}

func TestRenderTTY(t *testing.T) {
	line := renderTTY(Snapshot{Stage: StageScan, Total: 4, Done: 1, Warmup: true, File: "src/A.java"})
	if line != "[scan]  25% 1/4 files, 0 errors --/s ETA --:--:-- src/A.java" {
		t.Fatalf("renderTTY = %q", line)
	}
}
