package internal

import (
	"fmt"
	"log/slog"
)

// Control is returned by idle callbacks to tell the host loop whether to
// invoke them again.
type Control bool

const (
	Continue Control = true
	Break    Control = false
)

// SourceID identifies one idle registration within a host loop.
type SourceID uint64

// Host is the idle-scheduling primitive of a foreign event loop.
//
// IdleAdd registers fn to be invoked by the loop, on its own goroutine, when
// it has nothing more urgent to do. fn is invoked again and again, with loop
// turns in between, for as long as it returns Continue. IdleAdd must not
// invoke fn before returning.
type Host interface {
	IdleAdd(fn func() Control) (SourceID, error)
}

// Affine is implemented by hosts which can tell whether the calling
// goroutine is the one their loop runs on.
type Affine interface {
	IsLoopGoroutine() bool
}

// Scheduler runs Futures as tasks stepped by idle callbacks of a Host.
type Scheduler struct {
	host Host
	log  *slog.Logger
}

func NewScheduler(host Host, log *slog.Logger) *Scheduler {
	if log == nil {
		log = slog.Default()
	}

	return &Scheduler{
		host: host,
		log:  log,
	}
}

// Submit creates a task for f and registers its first step.
func (s *Scheduler) Submit(f Future) *Task {
	if f == nil {
		panic("springsteel: Submit(nil)")
	}

	t := s.newTask(f)
	s.log.Debug("task submitted", "task", t.id.String())

	s.schedule(t)
	return t
}

// schedule makes sure a step of t is registered with the host, at most once.
func (s *Scheduler) schedule(t *Task) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch {
	case t.done:
		return
	case t.polling:
		// the live registration is re-run by step returning Continue
		t.rewake = true
		return
	case t.source != 0:
		return
	}

	id, err := s.host.IdleAdd(func() Control { return s.step(t) })
	if err != nil {
		panic(fmt.Errorf("%w: task %s: %w", ErrHostUnavailable, t.id, err))
	}

	t.ref()
	t.source = id
}

// step polls the future of t once. It is invoked by the host loop.
func (s *Scheduler) step(t *Task) Control {
	if a, ok := s.host.(Affine); ok && !a.IsLoopGoroutine() {
		panic(fmt.Errorf("%w: task %s", ErrWrongGoroutine, t.id))
	}

	t.mu.Lock()
	if t.polling {
		t.mu.Unlock()
		panic(fmt.Errorf("%w: task %s", ErrReentrantPoll, t.id))
	}
	if t.done {
		hadSource := t.retire()
		t.mu.Unlock()
		if hadSource {
			t.unref()
		}
		return Break
	}
	t.polling = true
	future := t.future
	t.mu.Unlock()

	w := newWaker(t)
	defer w.Drop()

	if s.poll(t, future, w) == Ready {
		s.log.Debug("task completed", "task", t.id.String())
		s.finish(t)
		return Break
	}

	t.mu.Lock()
	t.polling = false
	if t.rewake {
		t.rewake = false
		t.mu.Unlock()
		return Continue
	}
	t.source = 0
	t.mu.Unlock()

	t.unref()
	return Break
}

func (s *Scheduler) poll(t *Task, f Future, w *Waker) Poll {
	ok := false
	defer func() {
		if !ok {
			s.log.Error("task panicked", "task", t.id.String())
			s.finish(t)
		}
	}()

	p := f.Poll(w)
	ok = true
	return p
}

func (s *Scheduler) finish(t *Task) {
	t.mu.Lock()
	hadSource := t.retire()
	t.mu.Unlock()

	if hadSource {
		t.unref()
	}
}
