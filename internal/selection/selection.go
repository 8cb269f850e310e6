// Package selection tracks which rows of a list are checked.
package selection

// Change describes one effective mutation of a Model.
type Change[K comparable] struct {
	Added   []K
	Removed []K
}

// Listener is notified synchronously after every effective mutation.
type Listener[K comparable] func(Change[K])

type subscription[K comparable] struct {
	fn Listener[K]
	id int
}

// Model is an ordered set of keys with change notification.
// It is not safe for concurrent use; the owning component serializes access.
type Model[K comparable] struct {
	index     map[K]struct{}
	order     []K
	listeners []subscription[K]
	nextID    int
	multiple  bool
	closed    bool
}

// New creates a Model. With multiple=false the set holds at most one key and
// selecting a key replaces the current one.
func New[K comparable](multiple bool, initial ...K) *Model[K] {
	m := &Model[K]{
		index:    make(map[K]struct{}),
		multiple: multiple,
	}
	m.add(initial)
	return m
}

// IsMultiple reports whether more than one key may be selected.
func (m *Model[K]) IsMultiple() bool {
	return m.multiple
}

// Select adds keys. It returns true if the selection changed.
func (m *Model[K]) Select(keys ...K) bool {
	if len(keys) == 0 {
		return false
	}

	var removed []K
	if !m.multiple {
		keys = keys[len(keys)-1:]
		if m.IsSelected(keys[0]) {
			return false
		}
		removed = m.removeAll()
	}

	added := m.add(keys)
	return m.emit(added, removed)
}

// Deselect removes keys. It returns true if the selection changed.
func (m *Model[K]) Deselect(keys ...K) bool {
	var removed []K
	for _, k := range keys {
		if m.remove(k) {
			removed = append(removed, k)
		}
	}
	return m.emit(nil, removed)
}

// Toggle flips the membership of k.
func (m *Model[K]) Toggle(k K) bool {
	if m.IsSelected(k) {
		return m.Deselect(k)
	}
	return m.Select(k)
}

// Clear empties the selection. Clearing an empty selection is a no-op.
func (m *Model[K]) Clear() bool {
	return m.emit(nil, m.removeAll())
}

// SetSelection replaces the selection with exactly keys and fires a single
// change for the difference.
func (m *Model[K]) SetSelection(keys ...K) bool {
	if !m.multiple && len(keys) > 1 {
		keys = keys[len(keys)-1:]
	}

	want := make(map[K]struct{}, len(keys))
	for _, k := range keys {
		want[k] = struct{}{}
	}

	var removed []K
	kept := m.order[:0:0]
	for _, k := range m.order {
		if _, ok := want[k]; ok {
			kept = append(kept, k)
			continue
		}
		delete(m.index, k)
		removed = append(removed, k)
	}
	m.order = kept

	added := m.add(keys)
	return m.emit(added, removed)
}

// IsSelected reports whether k is selected.
func (m *Model[K]) IsSelected(k K) bool {
	_, ok := m.index[k]
	return ok
}

// Selected returns the selected keys in the order they were selected.
func (m *Model[K]) Selected() []K {
	out := make([]K, len(m.order))
	copy(out, m.order)
	return out
}

// Len returns the number of selected keys.
func (m *Model[K]) Len() int {
	return len(m.order)
}

// IsEmpty reports whether nothing is selected.
func (m *Model[K]) IsEmpty() bool {
	return len(m.order) == 0
}

// OnChange registers fn and returns a func that unregisters it.
// Listeners registered after Close are never called.
func (m *Model[K]) OnChange(fn Listener[K]) func() {
	if m.closed {
		return func() {}
	}

	m.nextID++
	id := m.nextID
	m.listeners = append(m.listeners, subscription[K]{id: id, fn: fn})

	return func() {
		for i, s := range m.listeners {
			if s.id == id {
				m.listeners = append(m.listeners[:i:i], m.listeners[i+1:]...)
				return
			}
		}
	}
}

// Close drops every listener. The model stays usable but silent.
func (m *Model[K]) Close() {
	m.closed = true
	m.listeners = nil
}

func (m *Model[K]) add(keys []K) []K {
	var added []K
	for _, k := range keys {
		if _, ok := m.index[k]; ok {
			continue
		}
		m.index[k] = struct{}{}
		m.order = append(m.order, k)
		added = append(added, k)
	}
	return added
}

func (m *Model[K]) remove(k K) bool {
	if _, ok := m.index[k]; !ok {
		return false
	}
	delete(m.index, k)
	for i, o := range m.order {
		if o == k {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

func (m *Model[K]) removeAll() []K {
	removed := m.order
	m.order = nil
	m.index = make(map[K]struct{})
	return removed
}

func (m *Model[K]) emit(added, removed []K) bool {
	if len(added) == 0 && len(removed) == 0 {
		return false
	}

	change := Change[K]{Added: added, Removed: removed}
	listeners := make([]subscription[K], len(m.listeners))
	copy(listeners, m.listeners)
	for _, s := range listeners {
		s.fn(change)
	}

	return true
}
