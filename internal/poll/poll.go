// Package poll runs a task immediately and then on a fixed interval until
// the returned handle is stopped.
package poll

import (
	"context"
	"time"
)

// DefaultInterval is the refresh cadence of polled pages.
const DefaultInterval = 30 * time.Second

// Task is one unit of polled work.
type Task func(ctx context.Context)

// Handle controls a running poll loop.
type Handle struct {
	cancel  context.CancelFunc
	done    chan struct{}
	trigger chan struct{}
}

// Start runs task once right away and then every interval until Stop is
// called or ctx is cancelled. Runs never overlap. The context passed to task
// is not cancelled by Stop: a run in flight when Stop is called is allowed
// to finish, and no further runs start afterwards.
func Start(ctx context.Context, interval time.Duration, task Task) *Handle {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		cancel:  cancel,
		done:    make(chan struct{}),
		trigger: make(chan struct{}, 1),
	}

	go func() {
		defer close(h.done)

		taskCtx := context.WithoutCancel(ctx)
		run := func() {
			if ctx.Err() != nil {
				return
			}
			task(taskCtx)
		}

		run()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				run()
			case <-h.trigger:
				run()
			}
		}
	}()

	return h
}

// Trigger requests an extra run as soon as the loop is idle. Requests made
// while one is already pending are coalesced.
func (h *Handle) Trigger() {
	select {
	case h.trigger <- struct{}{}:
	default:
	}
}

// Stop cancels the timer. It does not wait for a run in flight; use Done
// for that.
func (h *Handle) Stop() {
	h.cancel()
}

// Done is closed once the loop has exited and no run is in flight.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}
