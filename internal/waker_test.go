package internal

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWaker(t *testing.T) {
	t.Run("clone and drop count references", func(t *testing.T) {
		s := newTestScheduler(newFakeHost())
		task := s.newTask(&pendingFuture{})

		w := newWaker(task)
		c1 := w.Clone()
		c2 := c1.Clone()
		assert.Equal(t, int64(3), task.Refs())
		assert.True(t, w.WillWake(c2))

		c1.Drop()
		c2.Drop()
		w.Drop()
		assert.Equal(t, int64(0), task.Refs())
	})

	t.Run("released handle fails fast", func(t *testing.T) {
		s := newTestScheduler(newFakeHost())
		task := s.newTask(&pendingFuture{})

		w := newWaker(task)
		w.Drop()

		assert.ErrorIs(t, recoverErr(w.Drop), ErrWakerReleased)
		assert.ErrorIs(t, recoverErr(w.Wake), ErrWakerReleased)
		assert.ErrorIs(t, recoverErr(w.WakeByRef), ErrWakerReleased)
		assert.ErrorIs(t, recoverErr(func() { w.Clone() }), ErrWakerReleased)
	})

	t.Run("wake schedules and releases", func(t *testing.T) {
		h := newFakeHost()
		s := newTestScheduler(h)
		task := s.newTask(&pendingFuture{})

		w := newWaker(task)
		w.Wake()

		assert.Equal(t, 1, h.registered())
		assert.True(t, task.Scheduled())

		// the live registration only
		assert.Equal(t, int64(1), task.Refs())
	})

	t.Run("wake by ref keeps the handle", func(t *testing.T) {
		h := newFakeHost()
		s := newTestScheduler(h)
		task := s.newTask(&pendingFuture{})

		w := newWaker(task)
		w.WakeByRef()
		w.WakeByRef()

		assert.Equal(t, 1, h.registered())
		assert.Equal(t, int64(2), task.Refs())

		w.Drop()
		assert.Equal(t, int64(1), task.Refs())
	})

	t.Run("nil waker is inert", func(t *testing.T) {
		var w *Waker

		assert.NotPanics(t, func() {
			w.Wake()
			w.WakeByRef()
			w.Drop()
		})
		assert.Nil(t, w.Clone())
		assert.Nil(t, w.Task())
		assert.False(t, w.WillWake(nil))
	})

	t.Run("concurrent clone wake drop", func(t *testing.T) {
		h := newFakeHost()
		s := newTestScheduler(h)
		task := s.newTask(&pendingFuture{})

		root := newWaker(task)

		var wg sync.WaitGroup
		for i := range 100 {
			c := root.Clone()
			wg.Go(func() {
				switch i % 3 {
				case 0:
					c.Wake()
				case 1:
					c.WakeByRef()
					c.Drop()
				default:
					c.Clone().Drop()
					c.Drop()
				}
			})
		}
		wg.Wait()

		assert.Equal(t, 1, h.registered())

		root.Drop()
		assert.Equal(t, int64(1), task.Refs())
	})
}

func TestGuard(t *testing.T) {
	t.Run("relocking from the same goroutine panics", func(t *testing.T) {
		var g guard
		g.Lock()
		defer g.Unlock()

		assert.ErrorIs(t, recoverErr(g.Lock), ErrReentrantLock)
	})

	t.Run("other goroutines wait", func(t *testing.T) {
		var g guard
		n := 0

		var wg sync.WaitGroup
		for range 50 {
			wg.Go(func() {
				g.Lock()
				n++
				g.Unlock()
			})
		}
		wg.Wait()

		assert.Equal(t, 50, n)
	})
}
