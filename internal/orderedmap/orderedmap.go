// Package orderedmap holds key/value pairs in the order they were added, so
// a ranking taken from a valord map keeps its order when encoded as a JSON
// object. It wraps github.com/wk8/go-ordered-map/v2.
package orderedmap

import (
	"encoding/json"
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

type Map[K comparable, V any] struct {
	om *orderedmap.OrderedMap[K, V]
}

func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{om: orderedmap.New[K, V]()}
}

// Collect adds every pair of seq in turn. A key seen twice keeps its first
// position and its last value.
func Collect[K comparable, V any](seq iter.Seq2[K, V]) *Map[K, V] {
	m := New[K, V]()
	for k, v := range seq {
		m.Set(k, v)
	}
	return m
}

func (m *Map[K, V]) Get(key K) (V, bool) {
	if m == nil || m.om == nil {
		var zero V
		return zero, false
	}
	return m.om.Get(key)
}

// Set appends key, or updates its value in place if already present.
func (m *Map[K, V]) Set(key K, value V) {
	if m.om == nil {
		m.om = orderedmap.New[K, V]()
	}
	m.om.Set(key, value)
}

func (m *Map[K, V]) Len() int {
	if m == nil || m.om == nil {
		return 0
	}
	return m.om.Len()
}

// All yields the pairs in the order they were added.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if m == nil || m.om == nil {
			return
		}
		for pair := m.om.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// MarshalJSON encodes m as a JSON object with keys in order.
func (m *Map[K, V]) MarshalJSON() ([]byte, error) {
	if m == nil || m.om == nil {
		return []byte("null"), nil
	}
	return json.Marshal(m.om)
}

// UnmarshalJSON keeps the key order of the input.
func (m *Map[K, V]) UnmarshalJSON(data []byte) error {
	m.om = orderedmap.New[K, V]()
	return json.Unmarshal(data, &m.om)
}
