package internal

// dispatchQueue collects the sources picked for one loop iteration.
type dispatchQueue struct {
	sources []*source
}

func (q *dispatchQueue) Enqueue(s *source) {
	q.sources = append(q.sources, s)
}

func (q *dispatchQueue) Len() int {
	return len(q.sources)
}

// Take hands the queued sources over to the caller and leaves q empty.
// The returned slice is not reused, a nested iteration may enqueue while the
// caller is still dispatching.
func (q *dispatchQueue) Take() []*source {
	sources := q.sources
	q.sources = nil

	return sources
}
