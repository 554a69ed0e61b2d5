package internal

// dispatch invokes the callback of s, recovering panics when at least one
// panic handler is registered. A panicking source is removed.
func (l *MainLoop) dispatch(s *source) (ctl Control) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("idle source panicked", "source", uint64(s.id), "panic", r)
			l.Remove(s.id)

			if len(l.catchers) == 0 {
				panic(r)
			}

			for _, catcher := range l.catchers {
				catcher(r)
			}
			ctl = Break
		}
	}()

	return s.fn()
}
