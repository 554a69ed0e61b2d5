package internal

import (
	"iter"
	"slices"
)

// Source priorities, lower values are dispatched first.
const (
	PriorityHigh        = -100
	PriorityDefault     = 0
	PriorityHighIdle    = 100
	PriorityDefaultIdle = 200
	PriorityLow         = 300
)

type source struct {
	id       SourceID
	priority int
	fn       func() Control

	// being dispatched by an outer iteration
	inCall bool

	next *source
	prev *source
}

// sourceList keeps idle sources bucketed by priority, in insertion order
// within a bucket.
type sourceList struct {
	buckets map[int]*source // [priority]head

	// priorities of the non-empty buckets, ascending
	priorities []int

	lookup map[SourceID]*source // for O(1) removal
}

func newSourceList() *sourceList {
	return &sourceList{
		buckets: make(map[int]*source),
		lookup:  make(map[SourceID]*source),
	}
}

func (l *sourceList) Len() int {
	return len(l.lookup)
}

func (l *sourceList) Has(id SourceID) bool {
	_, ok := l.lookup[id]
	return ok
}

func (l *sourceList) Insert(s *source) {
	if l.Has(s.id) {
		return
	}
	l.lookup[s.id] = s

	head, ok := l.buckets[s.priority]
	if !ok {
		l.buckets[s.priority] = s
		s.prev = s // loop to self
		s.next = nil

		i, _ := slices.BinarySearch(l.priorities, s.priority)
		l.priorities = slices.Insert(l.priorities, i, s.priority)
		return
	}

	tail := head.prev
	tail.next = s
	s.prev = tail
	s.next = nil
	head.prev = s
}

func (l *sourceList) Remove(id SourceID) (*source, bool) {
	s, ok := l.lookup[id]
	if !ok {
		return nil, false
	}
	delete(l.lookup, id)

	head := l.buckets[s.priority]

	// single source
	if s.prev == s {
		delete(l.buckets, s.priority)
		if i, found := slices.BinarySearch(l.priorities, s.priority); found {
			l.priorities = slices.Delete(l.priorities, i, i+1)
		}
		s.next = nil
		return s, true
	}

	// multiple sources
	if s == head {
		l.buckets[s.priority] = s.next
	} else {
		s.prev.next = s.next
	}

	next := s.next
	if next == nil {
		next = l.buckets[s.priority]
	}
	next.prev = s.prev

	s.prev = s
	s.next = nil
	return s, true
}

// Urgent yields the sources of the most urgent bucket holding a source not
// already being dispatched. Sources in a call are skipped.
func (l *sourceList) Urgent() iter.Seq[*source] {
	return func(yield func(*source) bool) {
		for _, p := range l.priorities {
			found := false
			for s := l.buckets[p]; s != nil; s = s.next {
				if s.inCall {
					continue
				}
				found = true
				if !yield(s) {
					return
				}
			}
			if found {
				return
			}
		}
	}
}
