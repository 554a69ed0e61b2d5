package internal

import (
	"errors"
	"log/slog"
	"slices"
	"sync"
)

// fakeHost records idle registrations and dispatches them on demand, on the
// calling goroutine.
type fakeHost struct {
	mu      sync.Mutex
	nextID  SourceID
	order   []SourceID
	sources map[SourceID]func() Control

	registrations int
	err           error
}

func newFakeHost() *fakeHost {
	return &fakeHost{sources: make(map[SourceID]func() Control)}
}

func (h *fakeHost) IdleAdd(fn func() Control) (SourceID, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.err != nil {
		return 0, h.err
	}

	h.nextID++
	h.registrations++
	h.order = append(h.order, h.nextID)
	h.sources[h.nextID] = fn

	return h.nextID, nil
}

// runOnce invokes every live source once and returns how many ran.
func (h *fakeHost) runOnce() int {
	h.mu.Lock()
	batch := slices.Clone(h.order)
	h.mu.Unlock()

	ran := 0
	for _, id := range batch {
		h.mu.Lock()
		fn, ok := h.sources[id]
		h.mu.Unlock()

		if !ok {
			continue
		}

		ran++
		if fn() == Break {
			h.remove(id)
		}
	}

	return ran
}

// drain runs sources until none is live, up to limit rounds.
func (h *fakeHost) drain(limit int) {
	for range limit {
		if h.live() == 0 {
			return
		}
		h.runOnce()
	}
}

func (h *fakeHost) remove(id SourceID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.sources, id)
	h.order = slices.DeleteFunc(h.order, func(o SourceID) bool { return o == id })
}

func (h *fakeHost) live() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.sources)
}

func (h *fakeHost) registered() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.registrations
}

var errNoLoop = errors.New("no loop")

func newTestScheduler(h Host) *Scheduler {
	return NewScheduler(h, slog.New(slog.DiscardHandler))
}
