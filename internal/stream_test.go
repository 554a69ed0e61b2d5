package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// sliceStream yields its values then reports Done.
func sliceStream[T any](values ...T) Stream[T] {
	return StreamFunc[T](func(w *Waker) (T, Poll) {
		if len(values) == 0 {
			var zero T
			return zero, Done
		}

		v := values[0]
		values = values[1:]
		return v, Ready
	})
}

func collect[T any](s Stream[T]) []T {
	var out []T
	ForEach(s, func(v T) { out = append(out, v) }).Poll(nil)
	return out
}

func TestStream(t *testing.T) {
	t.Run("map", func(t *testing.T) {
		s := Map(sliceStream(1, 2, 3), func(v int) int { return v * 10 })
		assert.Equal(t, []int{10, 20, 30}, collect(s))
	})

	t.Run("filter", func(t *testing.T) {
		s := Filter(sliceStream(1, 2, 3, 4, 5), func(v int) bool { return v%2 == 1 })
		assert.Equal(t, []int{1, 3, 5}, collect(s))
	})

	t.Run("scan", func(t *testing.T) {
		s := Scan(sliceStream(1, -1, 1, 1), 0, func(acc, d int) int { return acc + d })
		assert.Equal(t, []int{1, 0, 1, 2}, collect(s))
	})

	t.Run("merge alternates and ends with both", func(t *testing.T) {
		s := Merge(sliceStream("a1", "a2", "a3"), sliceStream("b1"))
		assert.Equal(t, []string{"a1", "b1", "a2", "a3"}, collect(s))
	})

	t.Run("merge of impulses stays pending", func(t *testing.T) {
		inc, dec := NewImpulse(), NewImpulse()
		deltas := Merge(
			Map[struct{}](inc, func(struct{}) int { return 1 }),
			Map[struct{}](dec, func(struct{}) int { return -1 }),
		)
		count := Scan(deltas, 0, func(acc, d int) int { return acc + d })

		var seen []int
		f := ForEach(count, func(v int) { seen = append(seen, v) })

		assert.Equal(t, Pending, f.Poll(nil))

		inc.Trigger()
		inc.Trigger()
		dec.Trigger()
		assert.Equal(t, Pending, f.Poll(nil))
		assert.Equal(t, 3, len(seen))
		assert.Equal(t, 1, seen[len(seen)-1])
	})

	t.Run("for each completes on done", func(t *testing.T) {
		f := ForEach(sliceStream[int](), func(int) {})
		assert.Equal(t, Ready, f.Poll(nil))
	})
}
