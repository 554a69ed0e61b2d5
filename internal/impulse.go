package internal

import "fmt"

// Impulse is an infinite stream of payload-free events. Each Trigger makes
// exactly one PollNext return Ready, no matter which of the two comes first.
type Impulse struct {
	mu guard

	// how many triggers have not been consumed by a poll yet
	pending uint64

	// the waker of the task which polled while nothing was pending
	waiting *Waker
}

func NewImpulse() *Impulse {
	return &Impulse{}
}

// Trigger records one event and wakes the waiting task, if any.
func (i *Impulse) Trigger() {
	i.mu.Lock()
	i.pending++
	w := i.waiting
	i.waiting = nil
	i.mu.Unlock()

	w.Wake()
}

// PollNext consumes one pending event, or remembers w to be woken by the
// next Trigger.
func (i *Impulse) PollNext(w *Waker) (struct{}, Poll) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.pending > 0 {
		i.pending--
		return struct{}{}, Ready
	}

	if w == nil {
		return struct{}{}, Pending
	}

	old := i.waiting
	if old.WillWake(w) {
		return struct{}{}, Pending
	}
	// a waiter from a task which moved on is replaced, only a task still
	// inside its own poll means two owners overlap
	if old != nil && old.task.isPolling() {
		panic(fmt.Errorf("%w: tasks %s and %s", ErrConcurrentPoll, old.task.id, w.task.id))
	}

	i.waiting = w.Clone()
	old.Drop()

	return struct{}{}, Pending
}

// Pending returns the number of triggers not consumed yet.
func (i *Impulse) Pending() uint64 {
	i.mu.Lock()
	defer i.mu.Unlock()

	return i.pending
}

// Triggerer returns a callback which ignores its argument and triggers i.
func (i *Impulse) Triggerer() func(any) {
	return func(any) { i.Trigger() }
}

// TriggererOf is Triggerer for callback signatures with a concrete argument
// type, e.g. func(*Button).
func TriggererOf[A any](i *Impulse) func(A) {
	return func(A) { i.Trigger() }
}
