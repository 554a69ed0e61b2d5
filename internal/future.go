package internal

// Poll is the outcome of polling a Future or a Stream once.
type Poll uint8

const (
	// Pending means no progress can be made until the waker passed to the poll is woken.
	Pending Poll = iota

	// Ready means the future completed, or the stream produced an item.
	Ready

	// Done is only reported by finite streams, once they have no more items.
	Done
)

func (p Poll) String() string {
	switch p {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Future is a computation that is driven forward by repeated polls.
//
// Poll must never block. When it returns Pending it must have arranged for w
// (or a clone of it) to be woken once progress is possible, otherwise the
// future is never polled again.
type Future interface {
	Poll(w *Waker) Poll
}

// FutureFunc adapts a plain function to the Future interface.
type FutureFunc func(w *Waker) Poll

func (f FutureFunc) Poll(w *Waker) Poll { return f(w) }
