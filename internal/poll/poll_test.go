package poll

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestStartRunsImmediately(t *testing.T) {
	var runs atomic.Int32
	h := Start(context.Background(), time.Hour, func(context.Context) {
		runs.Add(1)
	})
	defer h.Stop()

	waitFor(t, func() bool { return runs.Load() == 1 })
}

func TestStartRepeatsOnInterval(t *testing.T) {
	var runs atomic.Int32
	h := Start(context.Background(), 10*time.Millisecond, func(context.Context) {
		runs.Add(1)
	})
	defer h.Stop()

	waitFor(t, func() bool { return runs.Load() >= 3 })
}

func TestStopPreventsFurtherRuns(t *testing.T) {
	var runs atomic.Int32
	h := Start(context.Background(), 5*time.Millisecond, func(context.Context) {
		runs.Add(1)
	})
	waitFor(t, func() bool { return runs.Load() >= 2 })

	h.Stop()
	<-h.Done()
	after := runs.Load()

	time.Sleep(30 * time.Millisecond)
	if got := runs.Load(); got != after {
		t.Errorf("runs after Stop = %d, want %d", got, after)
	}
}

func TestStopLetsInFlightRunSettle(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var taskErr atomic.Value

	h := Start(context.Background(), time.Hour, func(ctx context.Context) {
		close(entered)
		<-release
		if err := ctx.Err(); err != nil {
			taskErr.Store(err)
		}
	})

	<-entered
	h.Stop()

	select {
	case <-h.Done():
		t.Fatal("Done closed while a run was still in flight")
	case <-time.After(10 * time.Millisecond):
	}

	close(release)
	<-h.Done()
	if v := taskErr.Load(); v != nil {
		t.Errorf("task context was cancelled by Stop: %v", v)
	}
}

func TestParentCancelStopsLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := Start(ctx, time.Hour, func(context.Context) {})
	cancel()

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("loop did not exit after parent cancel")
	}
}

func TestTriggerRunsAgain(t *testing.T) {
	var runs atomic.Int32
	h := Start(context.Background(), time.Hour, func(context.Context) {
		runs.Add(1)
	})
	defer h.Stop()

	waitFor(t, func() bool { return runs.Load() == 1 })
	h.Trigger()
	waitFor(t, func() bool { return runs.Load() == 2 })
}
