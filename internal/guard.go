package internal

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/petermattis/goid"
)

// guard is a mutex which remembers the goroutine holding it, so that a
// goroutine locking it twice panics instead of deadlocking.
type guard struct {
	mu sync.Mutex

	// goroutine id of the holder, 0 when unlocked
	holder atomic.Int64
}

func (g *guard) Lock() {
	gid := getGID()
	if g.holder.Load() == gid {
		panic(fmt.Errorf("%w (goroutine %d)", ErrReentrantLock, gid))
	}

	g.mu.Lock()
	g.holder.Store(gid)
}

func (g *guard) Unlock() {
	g.holder.Store(0)
	g.mu.Unlock()
}

func getGID() int64 {
	return goid.Get()
}
