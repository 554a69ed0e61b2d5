// Package springsteel runs futures and impulse streams on the idle callbacks
// of a single goroutine event loop, so UI side effects stay on one thread.
package springsteel

import (
	"log/slog"

	"github.com/AnatoleLucet/springsteel/internal"
)

type (
	// Poll is the outcome of polling a Future or a Stream once.
	Poll = internal.Poll

	// Future is a computation driven by polls. Poll must never block. A
	// Future returning Pending must first arrange for the Waker it was given
	// to be woken, otherwise it is never polled again.
	Future = internal.Future

	// FutureFunc adapts a function to Future.
	FutureFunc = internal.FutureFunc

	// Waker lets any goroutine ask for a task to be polled again.
	Waker = internal.Waker

	// Stream is a sequence of values produced over time.
	Stream[T any] = internal.Stream[T]

	// StreamFunc adapts a function to Stream.
	StreamFunc[T any] = internal.StreamFunc[T]

	// Control tells a host loop whether to invoke an idle callback again.
	Control = internal.Control

	// SourceID identifies an idle registration.
	SourceID = internal.SourceID

	// Host is the idle-registration primitive of an event loop.
	Host = internal.Host

	// Affine is implemented by hosts knowing their loop goroutine.
	Affine = internal.Affine

	// MainLoop is a ready to use Host.
	MainLoop = internal.MainLoop

	// LoopOption configures a MainLoop.
	LoopOption = internal.LoopOption
)

const (
	Pending = internal.Pending
	Ready   = internal.Ready
	Done    = internal.Done

	Continue = internal.Continue
	Break    = internal.Break

	PriorityHigh        = internal.PriorityHigh
	PriorityDefault     = internal.PriorityDefault
	PriorityHighIdle    = internal.PriorityHighIdle
	PriorityDefaultIdle = internal.PriorityDefaultIdle
	PriorityLow         = internal.PriorityLow
)

var (
	ErrLoopClosed      = internal.ErrLoopClosed
	ErrLoopRunning     = internal.ErrLoopRunning
	ErrHostUnavailable = internal.ErrHostUnavailable
	ErrReentrantLock   = internal.ErrReentrantLock
	ErrReentrantPoll   = internal.ErrReentrantPoll
	ErrWrongGoroutine  = internal.ErrWrongGoroutine
	ErrWakerReleased   = internal.ErrWakerReleased
	ErrConcurrentPoll  = internal.ErrConcurrentPoll
)

// NewMainLoop creates a main loop. Call Run on the goroutine meant to own
// every UI side effect.
func NewMainLoop(opts ...LoopOption) *MainLoop {
	return internal.NewMainLoop(opts...)
}

// WithLoopLogger sets the logger of a MainLoop.
func WithLoopLogger(log *slog.Logger) LoopOption {
	return internal.WithLoopLogger(log)
}

// WithPanicHandler recovers panics raised by loop sources, including
// submitted futures, and passes them to fn.
func WithPanicHandler(fn func(any)) LoopOption {
	return internal.WithPanicHandler(fn)
}

// Executor runs futures on the idle callbacks of a Host.
type Executor struct {
	scheduler *internal.Scheduler
}

type executorConfig struct {
	log *slog.Logger
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*executorConfig)

// WithLogger sets the logger of an Executor, slog.Default() otherwise.
func WithLogger(log *slog.Logger) ExecutorOption {
	return func(c *executorConfig) { c.log = log }
}

// NewExecutor creates an executor stepping its futures through host's idle
// callbacks.
func NewExecutor(host Host, opts ...ExecutorOption) *Executor {
	var cfg executorConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Executor{
		scheduler: internal.NewScheduler(host, cfg.log),
	}
}

// Submit runs f on the host loop until it reports Ready.
//
// f is only ever polled on the loop goroutine, so it may touch UI state
// directly, but it must never block.
func (e *Executor) Submit(f Future) {
	e.scheduler.Submit(f)
}

// Submit runs f on host's loop until it reports Ready.
func Submit(host Host, f Future) {
	NewExecutor(host).Submit(f)
}

// Impulse is an infinite stream of struct{} events, one per Trigger.
type Impulse struct {
	impulse *internal.Impulse
}

// NewImpulse creates an infinite stream of struct{} events, one per Trigger.
//
//	clicks := NewImpulse()
//	button.OnClicked(TriggererOf[*Button](clicks))
func NewImpulse() *Impulse {
	return &Impulse{internal.NewImpulse()}
}

// Trigger emits one event. Events are buffered until polled, none is lost.
func (i *Impulse) Trigger() { i.impulse.Trigger() }

// PollNext returns Ready once per Trigger, and Pending otherwise. It never
// returns Done.
func (i *Impulse) PollNext(w *Waker) (struct{}, Poll) { return i.impulse.PollNext(w) }

// Pending returns the number of events triggered but not polled yet.
func (i *Impulse) Pending() uint64 { return i.impulse.Pending() }

// Triggerer returns a callback which ignores its argument and calls Trigger.
func (i *Impulse) Triggerer() func(any) { return i.impulse.Triggerer() }

// TriggererOf returns a callback accepting an A, ignoring it and calling
// Trigger on i.
func TriggererOf[A any](i *Impulse) func(A) {
	return internal.TriggererOf[A](i.impulse)
}

// Map returns a stream of f applied to the values of s.
func Map[T, U any](s Stream[T], f func(T) U) Stream[U] { return internal.Map(s, f) }

// Filter returns a stream of the values of s accepted by keep.
func Filter[T any](s Stream[T], keep func(T) bool) Stream[T] { return internal.Filter(s, keep) }

// Scan returns a stream of the running accumulation of s.
func Scan[T, A any](s Stream[T], initial A, f func(A, T) A) Stream[A] {
	return internal.Scan(s, initial, f)
}

// Merge interleaves the values of a and b.
func Merge[T any](a, b Stream[T]) Stream[T] { return internal.Merge(a, b) }

// ForEach returns a Future calling f with every value of s, completing when
// s is done.
func ForEach[T any](s Stream[T], f func(T)) Future { return internal.ForEach(s, f) }
