package timeline

// listeners is an ordered set of synchronous callbacks.
// Callbacks run on the caller's goroutine, in subscription order.
type listeners[T any] struct {
	nextID  int
	entries []listener[T]
}

type listener[T any] struct {
	id int
	fn func(T)
}

// add registers fn and returns a function that removes it.
func (l *listeners[T]) add(fn func(T)) func() {
	l.nextID++
	id := l.nextID
	l.entries = append(l.entries, listener[T]{id: id, fn: fn})
	return func() { l.remove(id) }
}

func (l *listeners[T]) remove(id int) {
	for i, e := range l.entries {
		if e.id == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return
		}
	}
}

// emit calls every listener with ev. A snapshot of the list is taken first so
// listeners may unsubscribe while being notified.
func (l *listeners[T]) emit(ev T) {
	if len(l.entries) == 0 {
		return
	}
	snapshot := make([]listener[T], len(l.entries))
	copy(snapshot, l.entries)
	for _, e := range snapshot {
		e.fn(ev)
	}
}
