package internal

import (
	"fmt"
	"sync/atomic"
)

// Waker is a handle to a Task which lets any goroutine ask for the task to be
// stepped again.
//
// Each handle holds one reference on its task. Wake and Drop release that
// reference and the handle must not be used afterwards. Clone creates an
// independent handle holding its own reference.
//
// A nil *Waker is valid and does nothing, which allows streams and futures
// to be polled outside of any task.
type Waker struct {
	task     *Task
	released atomic.Bool
}

func newWaker(t *Task) *Waker {
	t.ref()
	return &Waker{task: t}
}

// Clone returns a new handle waking the same task.
func (w *Waker) Clone() *Waker {
	if w == nil {
		return nil
	}
	w.mustBeLive("clone")

	return newWaker(w.task)
}

// Wake schedules the task, then releases this handle.
func (w *Waker) Wake() {
	if w == nil {
		return
	}
	if !w.released.CompareAndSwap(false, true) {
		panic(fmt.Errorf("%w: wake", ErrWakerReleased))
	}

	w.task.scheduler.schedule(w.task)
	w.task.unref()
}

// WakeByRef schedules the task without releasing this handle.
func (w *Waker) WakeByRef() {
	if w == nil {
		return
	}
	w.mustBeLive("wake by ref")

	w.task.scheduler.schedule(w.task)
}

// Drop releases this handle without waking the task.
func (w *Waker) Drop() {
	if w == nil {
		return
	}
	if !w.released.CompareAndSwap(false, true) {
		panic(fmt.Errorf("%w: drop", ErrWakerReleased))
	}

	w.task.unref()
}

// WillWake reports whether w and other wake the same task.
func (w *Waker) WillWake(other *Waker) bool {
	return w != nil && other != nil && w.task == other.task
}

// Task returns the task woken by w, or nil for a nil waker.
func (w *Waker) Task() *Task {
	if w == nil {
		return nil
	}

	return w.task
}

func (w *Waker) mustBeLive(op string) {
	if w.released.Load() {
		panic(fmt.Errorf("%w: %s", ErrWakerReleased, op))
	}
}
