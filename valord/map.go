// Package valord implements a map whose entries are enumerated in the order
// of a key extracted from each value, rather than in the order of the map
// keys.
//
// A [Map] keeps two indexes in step: a Go map from key to value, and an
// [orderindex.Index] from order key to the keys sharing it. Values may be
// mutated in place through a [Guard]; releasing the guard moves the entry
// to its new position if the mutation changed its order key.
//
// A Map does no locking of its own. Callers that share one across
// goroutines must serialize the mutating operations themselves. Watchers
// returned by [Map.Watcher] are the exception and may be used from any
// goroutine.
package valord

import (
	"cmp"
	"slices"

	"github.com/emirpasic/gods/v2/utils"

	"github.com/jmorganca/valord/logutil"
	"github.com/jmorganca/valord/orderindex"
	"github.com/jmorganca/valord/watch"
)

type entry[K comparable, O comparable, V any] struct {
	key   K
	value V

	// order key the entry is registered under in the order index
	order O
}

// head is the last head published to watchers.
type head[K comparable, O comparable] struct {
	ok    bool
	order O
	keys  []K
}

// Map is a key/value map ordered by a key derived from each value. The
// zero value is invalid; use one of the constructors.
type Map[K comparable, O comparable, V any] struct {
	entries map[K]*entry[K, O, V]
	order   *orderindex.Index[O, K]
	ordBy   func(V) O

	published head[K, O]
	slot      *watch.Slot[*Snapshot[K, O, V]]
}

// New returns an empty map for values that implement [OrdBy].
func New[K cmp.Ordered, O cmp.Ordered, V OrdBy[O]]() *Map[K, O, V] {
	return NewFunc[K](ordByMethod[O, V])
}

// NewFunc returns an empty map that derives order keys with ordBy.
func NewFunc[K cmp.Ordered, O cmp.Ordered, V any](ordBy func(V) O) *Map[K, O, V] {
	return NewWith(cmp.Compare[K], cmp.Compare[O], ordBy)
}

// NewOrdered returns an empty map whose values are their own order keys.
func NewOrdered[K cmp.Ordered, V cmp.Ordered]() *Map[K, V, V] {
	return NewFunc[K](identity[V])
}

// NewWith returns an empty map using explicit comparators. keyCmp breaks
// ties between entries with equal order keys; orderCmp orders the order
// keys themselves.
func NewWith[K comparable, O comparable, V any](keyCmp utils.Comparator[K], orderCmp utils.Comparator[O], ordBy func(V) O) *Map[K, O, V] {
	return &Map[K, O, V]{
		entries: make(map[K]*entry[K, O, V]),
		order:   orderindex.NewWith(orderCmp, keyCmp),
		ordBy:   ordBy,
		slot:    watch.New[*Snapshot[K, O, V]](nil),
	}
}

// Len returns the number of entries.
func (m *Map[K, O, V]) Len() int {
	return len(m.entries)
}

func (m *Map[K, O, V]) IsEmpty() bool {
	return len(m.entries) == 0
}

// Insert stores v under k. If k was present its previous value is returned
// with replaced set, and the entry is repositioned for the new value.
func (m *Map[K, O, V]) Insert(k K, v V) (old V, replaced bool) {
	if e, ok := m.entries[k]; ok {
		m.order.Remove(e.order, k)
		old, replaced = e.value, true
	}

	o := m.ordBy(v)
	m.entries[k] = &entry[K, O, V]{key: k, value: v, order: o}
	m.order.Insert(o, k)
	m.notify(k)
	return old, replaced
}

// Get returns the value stored under k.
func (m *Map[K, O, V]) Get(k K) (v V, ok bool) {
	if e, ok := m.entries[k]; ok {
		return e.value, true
	}
	return v, false
}

func (m *Map[K, O, V]) Contains(k K) bool {
	_, ok := m.entries[k]
	return ok
}

// Remove deletes k and returns the value it held.
func (m *Map[K, O, V]) Remove(k K) (v V, ok bool) {
	_, v, ok = m.RemoveEntry(k)
	return v, ok
}

// RemoveEntry deletes k and returns the stored key and value.
func (m *Map[K, O, V]) RemoveEntry(k K) (key K, v V, ok bool) {
	e, ok := m.entries[k]
	if !ok {
		return key, v, false
	}
	delete(m.entries, k)
	m.order.Remove(e.order, k)
	m.notify(k)
	return e.key, e.value, true
}

// Clear removes every entry.
func (m *Map[K, O, V]) Clear() {
	clear(m.entries)
	m.order.Clear()
	var zero K
	m.notify(zero)
}

// First returns every entry tied on the smallest order key, in key order.
// It returns nil for an empty map.
func (m *Map[K, O, V]) First() []Pair[K, V] {
	_, keys, ok := m.order.First()
	if !ok {
		return nil
	}
	return m.pairs(keys)
}

// Last returns every entry tied on the largest order key, in key order.
func (m *Map[K, O, V]) Last() []Pair[K, V] {
	_, keys, ok := m.order.Last()
	if !ok {
		return nil
	}
	return m.pairs(keys)
}

// FirstMut returns a guard for every entry tied on the smallest order key.
// Each guard must be released.
func (m *Map[K, O, V]) FirstMut() []*Guard[K, O, V] {
	_, keys, ok := m.order.First()
	if !ok {
		return nil
	}
	return m.guards(keys)
}

// LastMut returns a guard for every entry tied on the largest order key.
func (m *Map[K, O, V]) LastMut() []*Guard[K, O, V] {
	_, keys, ok := m.order.Last()
	if !ok {
		return nil
	}
	return m.guards(keys)
}

// Keys returns all keys in ascending value order.
func (m *Map[K, O, V]) Keys() []K {
	keys := make([]K, 0, len(m.entries))
	for _, k := range m.order.Ascend() {
		keys = append(keys, k)
	}
	return keys
}

// Values returns all values in ascending value order.
func (m *Map[K, O, V]) Values() []V {
	values := make([]V, 0, len(m.entries))
	for _, k := range m.order.Ascend() {
		values = append(values, m.entries[k].value)
	}
	return values
}

// Close tells every watcher the map is gone. The map itself stays usable
// but no further head changes are published.
func (m *Map[K, O, V]) Close() {
	m.slot.Close()
}

func (m *Map[K, O, V]) pairs(keys []K) []Pair[K, V] {
	pairs := make([]Pair[K, V], 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, Pair[K, V]{Key: k, Value: m.entries[k].value})
	}
	return pairs
}

func (m *Map[K, O, V]) guards(keys []K) []*Guard[K, O, V] {
	guards := make([]*Guard[K, O, V], 0, len(keys))
	for _, k := range keys {
		guards = append(guards, m.guard(m.entries[k]))
	}
	return guards
}

// notify publishes a new head snapshot if the largest bucket changed or
// touched is one of its members.
func (m *Map[K, O, V]) notify(touched K) {
	o, keys, ok := m.order.Last()

	prev := m.published
	changed := ok != prev.ok
	if ok && prev.ok {
		changed = m.order.Compare(o, prev.order) != 0 ||
			!slices.Equal(keys, prev.keys) ||
			slices.Contains(keys, touched)
	}
	if !changed {
		return
	}

	m.published = head[K, O]{ok: ok, order: o, keys: keys}
	if !ok {
		logutil.Trace("valord: head cleared")
		m.slot.Publish(nil)
		return
	}

	logutil.Trace("valord: head changed", "order", o, "keys", len(keys))
	m.slot.Publish(newSnapshot(o, m.pairs(keys)))
}
