package internal

import "fmt"

// recoverErr runs fn and returns the error it panicked with, if any.
func recoverErr(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	fn()
	return nil
}

// pendingFuture reports Pending n times, waking itself each time when
// selfWake is set, then Ready. It keeps a clone of the first waker it saw.
type pendingFuture struct {
	n        int
	selfWake bool

	polls int
	first *Waker
}

func (f *pendingFuture) Poll(w *Waker) Poll {
	f.polls++
	if f.first == nil {
		f.first = w.Clone()
	}

	if f.polls > f.n {
		return Ready
	}

	if f.selfWake {
		w.WakeByRef()
	}
	return Pending
}
