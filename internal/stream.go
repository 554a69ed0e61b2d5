package internal

// Stream is a sequence of values produced over time. PollNext returns
// Ready with the next value, Pending after arranging for w to be woken, or
// Done once the stream is exhausted.
type Stream[T any] interface {
	PollNext(w *Waker) (T, Poll)
}

// StreamFunc adapts a plain function to the Stream interface.
type StreamFunc[T any] func(w *Waker) (T, Poll)

func (f StreamFunc[T]) PollNext(w *Waker) (T, Poll) { return f(w) }

// Map returns a stream of f applied to each value of s.
func Map[T, U any](s Stream[T], f func(T) U) Stream[U] {
	return StreamFunc[U](func(w *Waker) (U, Poll) {
		v, p := s.PollNext(w)
		if p != Ready {
			var zero U
			return zero, p
		}

		return f(v), Ready
	})
}

// Filter returns a stream of the values of s for which keep returns true.
func Filter[T any](s Stream[T], keep func(T) bool) Stream[T] {
	return StreamFunc[T](func(w *Waker) (T, Poll) {
		for {
			v, p := s.PollNext(w)
			if p != Ready || keep(v) {
				return v, p
			}
		}
	})
}

// Scan returns a stream of the running accumulation of s, starting from
// initial. Each value of s produces the updated accumulator.
func Scan[T, A any](s Stream[T], initial A, f func(A, T) A) Stream[A] {
	acc := initial

	return StreamFunc[A](func(w *Waker) (A, Poll) {
		v, p := s.PollNext(w)
		if p != Ready {
			var zero A
			return zero, p
		}

		acc = f(acc, v)
		return acc, Ready
	})
}

type merged[T any] struct {
	streams [2]Stream[T]
	done    [2]bool

	// index of the stream polled first on the next poll
	next int
}

// Merge interleaves the values of a and b as they become available. The
// stream polled first alternates between polls so neither side starves. The
// merged stream is done once both are.
func Merge[T any](a, b Stream[T]) Stream[T] {
	return &merged[T]{streams: [2]Stream[T]{a, b}}
}

func (m *merged[T]) PollNext(w *Waker) (T, Poll) {
	first := m.next
	m.next = 1 - m.next

	for n := range 2 {
		i := (first + n) % 2
		if m.done[i] {
			continue
		}

		v, p := m.streams[i].PollNext(w)
		switch p {
		case Ready:
			return v, Ready
		case Done:
			m.done[i] = true
		}
	}

	var zero T
	if m.done[0] && m.done[1] {
		return zero, Done
	}

	return zero, Pending
}

// ForEach returns a Future which calls f with every value of s and
// completes when s is done.
func ForEach[T any](s Stream[T], f func(T)) Future {
	return FutureFunc(func(w *Waker) Poll {
		for {
			v, p := s.PollNext(w)
			switch p {
			case Ready:
				f(v)
			case Done:
				return Ready
			default:
				return Pending
			}
		}
	})
}
