package internal

import "errors"

var (
	// returned by the main loop once Quit has been called
	ErrLoopClosed  = errors.New("springsteel: main loop is closed")
	ErrLoopRunning = errors.New("springsteel: main loop is already running")

	// the following are raised as panics, wrapped with some context
	ErrHostUnavailable = errors.New("springsteel: idle registration failed")
	ErrReentrantLock   = errors.New("springsteel: reentrant access to guarded state")
	ErrReentrantPoll   = errors.New("springsteel: task polled while already polling")
	ErrWrongGoroutine  = errors.New("springsteel: task stepped outside the loop goroutine")
	ErrWakerReleased   = errors.New("springsteel: waker used after release")
	ErrConcurrentPoll  = errors.New("springsteel: impulse polled by two tasks at once")
)
