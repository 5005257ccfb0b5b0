package tickets

import (
	"sync"
	"time"
)

// scheduledTask is a cancellable one-shot deferred action. Cancel is safe to
// call concurrently with the task firing and is a no-op once the task has
// fired or has already been cancelled; callbacks must still re-validate state
// when they run, as cancellation and firing can race in delivery order.
type scheduledTask struct {
	mu        sync.Mutex
	timer     *time.Timer
	cancelled bool
	fired     bool
}

// schedule arms a one-shot task that runs fn after d.
func schedule(d time.Duration, fn func()) *scheduledTask {
	t := new(scheduledTask)
	t.timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		if t.cancelled {
			t.mu.Unlock()
			return
		}
		t.fired = true
		t.mu.Unlock()

		fn()
	})
	return t
}

// Cancel stops the task if it has not fired yet.
func (t *scheduledTask) Cancel() {
	if t == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancelled || t.fired {
		return
	}
	t.cancelled = true
	t.timer.Stop()
}
