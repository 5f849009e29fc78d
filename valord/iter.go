package valord

import (
	"iter"

	"github.com/jmorganca/valord/orderindex"
)

// Iter yields every entry in ascending order of order key; entries with
// equal order keys come in ascending key order. The map must not be
// modified while the sequence is being consumed.
func (m *Map[K, O, V]) Iter() iter.Seq2[K, V] {
	return m.values(m.order.Ascend())
}

// RevIter is Iter in descending order.
func (m *Map[K, O, V]) RevIter() iter.Seq2[K, V] {
	return m.values(m.order.Descend())
}

// Range yields the entries whose order key falls within b, ascending.
func (m *Map[K, O, V]) Range(b orderindex.Bounds[O]) iter.Seq2[K, V] {
	return m.values(m.order.Range(b))
}

// RevRange is Range in descending order.
func (m *Map[K, O, V]) RevRange(b orderindex.Bounds[O]) iter.Seq2[K, V] {
	return m.values(m.order.DescendRange(b))
}

// IterMut yields a pointer to every value for in-place mutation. The keys
// are captured when IterMut is called; each value is guarded for the
// duration of one loop body and repositioned as soon as the body returns,
// including on break or panic. Changing order keys mid-loop therefore
// never revisits or skips a captured key, but the final order of the map
// may differ from the order in which keys were visited. Keys removed
// before their turn are skipped.
func (m *Map[K, O, V]) IterMut() iter.Seq2[K, *V] {
	return m.mutable(m.order.Ascend())
}

// RevIterMut is IterMut in descending order.
func (m *Map[K, O, V]) RevIterMut() iter.Seq2[K, *V] {
	return m.mutable(m.order.Descend())
}

// RangeMut is IterMut restricted to the entries whose order key falls
// within b at the time of the call.
func (m *Map[K, O, V]) RangeMut(b orderindex.Bounds[O]) iter.Seq2[K, *V] {
	return m.mutable(m.order.Range(b))
}

func (m *Map[K, O, V]) values(seq iter.Seq2[O, K]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range seq {
			if !yield(k, m.entries[k].value) {
				return
			}
		}
	}
}

func (m *Map[K, O, V]) mutable(seq iter.Seq2[O, K]) iter.Seq2[K, *V] {
	var keys []K
	for _, k := range seq {
		keys = append(keys, k)
	}

	return func(yield func(K, *V) bool) {
		for _, k := range keys {
			g, ok := m.GetMut(k)
			if !ok {
				continue
			}
			if !visit(g, yield) {
				return
			}
		}
	}
}

func visit[K comparable, O comparable, V any](g *Guard[K, O, V], yield func(K, *V) bool) bool {
	defer g.Release()
	return yield(g.Key(), g.Value())
}
