package valord

// Entry is a view of a single key that may or may not be present, for
// get-or-insert and conditional update without looking the key up twice
// at the call site.
//
//	g := m.Entry("alice").AndModify(func(p *Person) { p.Age++ }).OrInsert(Person{Age: 1})
//	defer g.Release()
type Entry[K comparable, O comparable, V any] struct {
	m   *Map[K, O, V]
	key K
}

// Entry returns the entry for k.
func (m *Map[K, O, V]) Entry(k K) *Entry[K, O, V] {
	return &Entry[K, O, V]{m: m, key: k}
}

func (e *Entry[K, O, V]) Key() K {
	return e.key
}

// Occupied reports whether the key is present.
func (e *Entry[K, O, V]) Occupied() bool {
	return e.m.Contains(e.key)
}

// OrInsert inserts v if the entry is vacant and returns a guard for the
// stored value either way. The caller must release the guard.
func (e *Entry[K, O, V]) OrInsert(v V) *Guard[K, O, V] {
	return e.OrInsertWithKey(func(K) V { return v })
}

// OrInsertWith is OrInsert with a lazily built value; f runs only if the
// entry is vacant.
func (e *Entry[K, O, V]) OrInsertWith(f func() V) *Guard[K, O, V] {
	return e.OrInsertWithKey(func(K) V { return f() })
}

// OrInsertWithKey is OrInsertWith passing the key to f.
func (e *Entry[K, O, V]) OrInsertWithKey(f func(K) V) *Guard[K, O, V] {
	if g, ok := e.m.GetMut(e.key); ok {
		return g
	}
	e.m.Insert(e.key, f(e.key))
	g, _ := e.m.GetMut(e.key)
	return g
}

// OrDefault inserts the zero value of V if the entry is vacant.
func (e *Entry[K, O, V]) OrDefault() *Guard[K, O, V] {
	return e.OrInsertWithKey(func(K) V {
		var zero V
		return zero
	})
}

// AndModify applies f to the stored value if the entry is occupied,
// repositioning it if its order key changed. It returns e for chaining.
func (e *Entry[K, O, V]) AndModify(f func(*V)) *Entry[K, O, V] {
	e.m.Modify(e.key, f)
	return e
}

// Insert stores v unconditionally and returns the previous value, if any.
func (e *Entry[K, O, V]) Insert(v V) (V, bool) {
	return e.m.Insert(e.key, v)
}

// Remove deletes the entry and returns the value it held, if any.
func (e *Entry[K, O, V]) Remove() (V, bool) {
	return e.m.Remove(e.key)
}
