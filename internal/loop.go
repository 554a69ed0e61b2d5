package internal

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
)

// MainLoop is a single goroutine event loop dispatching prioritized idle
// sources. It implements Host and Affine.
//
// Each iteration dispatches, once, every source of the most urgent priority
// present. A source returning Continue stays registered, one returning Break
// is removed.
type MainLoop struct {
	mu      sync.Mutex
	sources *sourceList
	queue   dispatchQueue
	nextID  SourceID
	closed  bool

	// buffered by one, signals that sources were added or the loop quit
	wakeup chan struct{}

	running atomic.Bool

	// goroutine id currently iterating the loop, 0 when idle
	owner atomic.Int64

	log      *slog.Logger
	catchers []func(any)
}

// LoopOption configures a MainLoop.
type LoopOption func(*MainLoop)

// WithLoopLogger sets the logger of the loop, slog.Default() otherwise.
func WithLoopLogger(log *slog.Logger) LoopOption {
	return func(l *MainLoop) {
		if log != nil {
			l.log = log
		}
	}
}

// WithPanicHandler adds a function called with the value of any panic raised
// by a source. Without handlers, such panics propagate out of Run.
func WithPanicHandler(fn func(any)) LoopOption {
	return func(l *MainLoop) {
		l.catchers = append(l.catchers, fn)
	}
}

func NewMainLoop(opts ...LoopOption) *MainLoop {
	l := &MainLoop{
		sources: newSourceList(),
		wakeup:  make(chan struct{}, 1),
		log:     slog.Default(),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// IdleAdd registers fn at PriorityDefaultIdle.
func (l *MainLoop) IdleAdd(fn func() Control) (SourceID, error) {
	return l.IdleAddPriority(PriorityDefaultIdle, fn)
}

// IdleAddPriority registers fn to be dispatched at the given priority until
// it returns Break or is removed.
func (l *MainLoop) IdleAddPriority(priority int, fn func() Control) (SourceID, error) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return 0, ErrLoopClosed
	}

	l.nextID++
	id := l.nextID
	l.sources.Insert(&source{id: id, priority: priority, fn: fn})
	l.mu.Unlock()

	l.log.Debug("idle source added", "source", uint64(id), "priority", priority)
	l.notify()

	return id, nil
}

// Invoke queues fn to run once on the loop goroutine, ahead of idle sources.
func (l *MainLoop) Invoke(fn func()) error {
	_, err := l.IdleAddPriority(PriorityDefault, func() Control {
		fn()
		return Break
	})

	return err
}

// Remove unregisters a source. It reports whether the source was live.
func (l *MainLoop) Remove(id SourceID) bool {
	l.mu.Lock()
	_, ok := l.sources.Remove(id)
	l.mu.Unlock()

	if ok {
		l.log.Debug("idle source removed", "source", uint64(id))
	}

	return ok
}

// Sources returns the number of live sources.
func (l *MainLoop) Sources() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.sources.Len()
}

// IsLoopGoroutine reports whether the caller is the goroutine iterating l.
func (l *MainLoop) IsLoopGoroutine() bool {
	owner := l.owner.Load()
	return owner != 0 && owner == getGID()
}

// Iterate runs a single iteration of the loop on the calling goroutine. When
// mayBlock is true and no source is live, it waits for one to be added or
// for the loop to quit. It reports whether any source was dispatched.
//
// Iterate may be called from within a source, but not while another
// goroutine runs the loop. A nested iteration skips the sources the outer
// ones are dispatching.
func (l *MainLoop) Iterate(mayBlock bool) bool {
	gid := getGID()
	if l.owner.Load() != gid {
		if !l.owner.CompareAndSwap(0, gid) {
			panic(fmt.Errorf("%w: iterated from goroutine %d", ErrLoopRunning, gid))
		}
		defer l.owner.Store(0)
	}

	return l.iterate(context.Background(), mayBlock)
}

// Run iterates the loop until Quit is called or ctx is done. The loop
// goroutine is pinned to its OS thread for the duration.
func (l *MainLoop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer l.running.Store(false)

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if !l.owner.CompareAndSwap(0, getGID()) {
		return ErrLoopRunning
	}
	defer l.owner.Store(0)

	l.log.Debug("main loop running")
	defer l.log.Debug("main loop stopped")

	for {
		if l.isClosed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		l.iterate(ctx, true)
	}
}

// Quit stops the loop. Later registrations fail with ErrLoopClosed.
func (l *MainLoop) Quit() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()

	l.notify()
}

func (l *MainLoop) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.closed
}

func (l *MainLoop) notify() {
	select {
	case l.wakeup <- struct{}{}:
	default:
	}
}

func (l *MainLoop) iterate(ctx context.Context, mayBlock bool) bool {
	l.mu.Lock()
	for mayBlock && !l.closed && l.sources.Len() == 0 {
		l.mu.Unlock()

		select {
		case <-l.wakeup:
		case <-ctx.Done():
			return false
		}

		l.mu.Lock()
	}

	if l.closed {
		l.mu.Unlock()
		return false
	}

	for s := range l.sources.Urgent() {
		l.queue.Enqueue(s)
	}
	batch := l.queue.Take()
	l.mu.Unlock()

	for _, s := range batch {
		l.mu.Lock()
		// removed by an earlier source of this batch, or picked up by a
		// nested iteration
		if !l.sources.Has(s.id) || s.inCall {
			l.mu.Unlock()
			continue
		}
		s.inCall = true
		l.mu.Unlock()

		ctl := l.dispatch(s)

		l.mu.Lock()
		s.inCall = false
		l.mu.Unlock()

		if ctl == Break {
			l.Remove(s.id)
		}
	}

	return len(batch) > 0
}
