package internal

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Task owns one submitted Future along with its scheduling bookkeeping.
type Task struct {
	mu guard

	id     uuid.UUID
	future Future

	// the idle registration which will step this task, 0 if none is live
	source SourceID

	// set while step is inside future.Poll
	polling bool

	// a wake arrived while polling, the live registration must run again
	rewake bool

	// the future reported Ready (or panicked) and was released
	done bool

	// live wakers plus the live registration
	refs atomic.Int64

	scheduler *Scheduler
}

func (s *Scheduler) newTask(f Future) *Task {
	return &Task{
		id:        uuid.New(),
		future:    f,
		scheduler: s,
	}
}

// ID returns the identifier used for this task in log records.
func (t *Task) ID() uuid.UUID { return t.id }

// Refs returns the number of outstanding references to t: live wakers and
// the pending idle registration, if any.
func (t *Task) Refs() int64 { return t.refs.Load() }

// Done reports whether the future has completed and been released.
func (t *Task) Done() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.done
}

// Scheduled reports whether a step is registered with the host.
func (t *Task) Scheduled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.source != 0
}

func (t *Task) isPolling() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.polling
}

func (t *Task) ref() {
	t.refs.Add(1)
}

func (t *Task) unref() {
	n := t.refs.Add(-1)
	if n < 0 {
		panic(fmt.Errorf("springsteel: task %s released more times than referenced", t.id))
	}

	if n == 0 && t.Done() {
		t.scheduler.log.Debug("task released", "task", t.id.String())
	}
}

// retire releases the future. It must be called with t.mu held and reports
// whether a registration was live, so the caller can drop its reference
// once the guard is released.
func (t *Task) retire() (hadSource bool) {
	hadSource = t.source != 0

	t.done = true
	t.future = nil
	t.source = 0
	t.polling = false
	t.rewake = false

	return hadSource
}
