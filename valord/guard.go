package valord

import "github.com/jmorganca/valord/logutil"

// Guard grants in-place write access to one stored value. While a guard is
// live the order index may be out of date for its key; [Guard.Release]
// puts the entry back in the right bucket if its order key moved.
//
// Release must be called exactly once, typically with defer:
//
//	g, ok := m.GetMut(k)
//	if !ok {
//		return
//	}
//	defer g.Release()
//	g.Value().Score++
//
// Further calls to Release are no-ops. Only one guard per key should be
// live at a time; a guard whose entry was removed or replaced through the
// map before release does nothing when released.
type Guard[K comparable, O comparable, V any] struct {
	m        *Map[K, O, V]
	e        *entry[K, O, V]
	before   O
	released bool
}

// GetMut returns a guard for the value stored under k.
func (m *Map[K, O, V]) GetMut(k K) (*Guard[K, O, V], bool) {
	e, ok := m.entries[k]
	if !ok {
		return nil, false
	}
	return m.guard(e), true
}

// Modify applies f to the value stored under k and repositions the entry
// if f changed its order key. It reports whether k was present.
func (m *Map[K, O, V]) Modify(k K, f func(*V)) bool {
	return m.ModifyWithKey(k, func(_ K, v *V) { f(v) })
}

// ModifyWithKey is like Modify but also passes the key to f.
func (m *Map[K, O, V]) ModifyWithKey(k K, f func(K, *V)) bool {
	g, ok := m.GetMut(k)
	if !ok {
		return false
	}
	defer g.Release()
	f(g.Key(), g.Value())
	return true
}

func (m *Map[K, O, V]) guard(e *entry[K, O, V]) *Guard[K, O, V] {
	return &Guard[K, O, V]{m: m, e: e, before: e.order}
}

func (g *Guard[K, O, V]) Key() K {
	return g.e.key
}

// Value returns a pointer to the stored value. The pointer must not be
// used after Release.
func (g *Guard[K, O, V]) Value() *V {
	return &g.e.value
}

// Get returns a copy of the stored value.
func (g *Guard[K, O, V]) Get() V {
	return g.e.value
}

// Set replaces the stored value.
func (g *Guard[K, O, V]) Set(v V) {
	g.e.value = v
}

// Before returns the order key the value had when the guard was taken.
func (g *Guard[K, O, V]) Before() O {
	return g.before
}

// Released reports whether Release has been called.
func (g *Guard[K, O, V]) Released() bool {
	return g.released
}

// Release recomputes the order key of the guarded value and, if it
// changed, moves the key from its old bucket to the new one.
func (g *Guard[K, O, V]) Release() {
	if g.released {
		return
	}
	g.released = true

	m, e := g.m, g.e
	if m.entries[e.key] != e {
		return
	}

	if after := m.ordBy(e.value); m.order.Compare(after, e.order) != 0 {
		logutil.Trace("valord: resync", "key", e.key, "from", e.order, "to", after)
		m.order.Remove(e.order, e.key)
		m.order.Insert(after, e.key)
		e.order = after
	}
	m.notify(e.key)
}
