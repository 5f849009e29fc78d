// Package orderindex implements a sorted multimap from order keys to the
// set of primary keys that share each order key.
//
// Buckets are kept in a red-black tree keyed by order key. Each bucket is a
// tree set of primary keys so that keys tied on the same order key are
// always visited in the same, key-ascending order.
//
// An Index is not safe for concurrent use.
package orderindex

import (
	"cmp"
	"iter"

	"github.com/emirpasic/gods/v2/sets/treeset"
	rbt "github.com/emirpasic/gods/v2/trees/redblacktree"
	"github.com/emirpasic/gods/v2/utils"
)

type Index[O comparable, K comparable] struct {
	buckets *rbt.Tree[O, *treeset.Set[K]]
	keyCmp  utils.Comparator[K]
	size    int
}

// New returns an empty index for naturally ordered order and primary keys.
func New[O, K cmp.Ordered]() *Index[O, K] {
	return NewWith(cmp.Compare[O], cmp.Compare[K])
}

// NewWith returns an empty index using the given comparators. orderCmp
// positions buckets, keyCmp orders keys inside a bucket.
func NewWith[O, K comparable](orderCmp utils.Comparator[O], keyCmp utils.Comparator[K]) *Index[O, K] {
	return &Index[O, K]{
		buckets: rbt.NewWith[O, *treeset.Set[K]](orderCmp),
		keyCmp:  keyCmp,
	}
}

// Compare orders two order keys the way the index does.
func (x *Index[O, K]) Compare(a, b O) int {
	return x.buckets.Comparator(a, b)
}

// CompareKeys orders two primary keys the way buckets do.
func (x *Index[O, K]) CompareKeys(a, b K) int {
	return x.keyCmp(a, b)
}

// Insert adds k to the bucket for o, creating the bucket if needed.
// Inserting a pair that is already present is a no-op.
func (x *Index[O, K]) Insert(o O, k K) {
	bucket, ok := x.buckets.Get(o)
	if !ok {
		bucket = treeset.NewWith(x.keyCmp)
		x.buckets.Put(o, bucket)
	}
	if bucket.Contains(k) {
		return
	}
	bucket.Add(k)
	x.size++
}

// Remove takes k out of the bucket for o and drops the bucket once it is
// empty. It reports whether the pair was present.
func (x *Index[O, K]) Remove(o O, k K) bool {
	bucket, ok := x.buckets.Get(o)
	if !ok || !bucket.Contains(k) {
		return false
	}
	bucket.Remove(k)
	x.size--
	if bucket.Empty() {
		x.buckets.Remove(o)
	}
	return true
}

// Contains reports whether k is registered under o.
func (x *Index[O, K]) Contains(o O, k K) bool {
	bucket, ok := x.buckets.Get(o)
	return ok && bucket.Contains(k)
}

// Keys returns the keys of the bucket for o in ascending key order, or nil
// if there is no such bucket.
func (x *Index[O, K]) Keys(o O) []K {
	if bucket, ok := x.buckets.Get(o); ok {
		return bucket.Values()
	}
	return nil
}

// First returns the smallest order key and every key tied on it.
func (x *Index[O, K]) First() (o O, keys []K, ok bool) {
	node := x.buckets.Left()
	if node == nil {
		return o, nil, false
	}
	return node.Key, node.Value.Values(), true
}

// Last returns the largest order key and every key tied on it.
func (x *Index[O, K]) Last() (o O, keys []K, ok bool) {
	node := x.buckets.Right()
	if node == nil {
		return o, nil, false
	}
	return node.Key, node.Value.Values(), true
}

// Len returns the number of keys across all buckets.
func (x *Index[O, K]) Len() int {
	return x.size
}

// Buckets returns the number of distinct order keys.
func (x *Index[O, K]) Buckets() int {
	return x.buckets.Size()
}

func (x *Index[O, K]) Clear() {
	x.buckets.Clear()
	x.size = 0
}

// Ascend yields every (order key, key) pair in ascending order.
func (x *Index[O, K]) Ascend() iter.Seq2[O, K] {
	return x.Range(All[O]())
}

// Descend yields every (order key, key) pair in descending order. Keys tied
// on an order key are yielded in descending key order.
func (x *Index[O, K]) Descend() iter.Seq2[O, K] {
	return x.DescendRange(All[O]())
}

// Range yields the pairs whose order key falls within b, ascending. The
// sequence is lazy and may be ranged over any number of times; it must not
// be consumed while the index is being modified.
func (x *Index[O, K]) Range(b Bounds[O]) iter.Seq2[O, K] {
	return func(yield func(O, K) bool) {
		it := x.seek(b.Lower)
		if it == nil {
			return
		}
		for {
			o := it.Key()
			if b.above(o, x.Compare) {
				return
			}
			keys := it.Value().Iterator()
			for keys.Next() {
				if !yield(o, keys.Value()) {
					return
				}
			}
			if !it.Next() {
				return
			}
		}
	}
}

// DescendRange is Range in reverse.
func (x *Index[O, K]) DescendRange(b Bounds[O]) iter.Seq2[O, K] {
	return func(yield func(O, K) bool) {
		it := x.seekReverse(b.Upper)
		if it == nil {
			return
		}
		for {
			o := it.Key()
			if b.below(o, x.Compare) {
				return
			}
			keys := it.Value().Iterator()
			keys.End()
			for keys.Prev() {
				if !yield(o, keys.Value()) {
					return
				}
			}
			if !it.Prev() {
				return
			}
		}
	}
}

// seek positions an iterator on the first bucket satisfying lower, or
// returns nil if there is none.
func (x *Index[O, K]) seek(lower Bound[O]) *rbt.Iterator[O, *treeset.Set[K]] {
	if lower.Kind == Unbounded {
		it := x.buckets.Iterator()
		if !it.Next() {
			return nil
		}
		return it
	}

	node, found := x.buckets.Ceiling(lower.Value)
	if !found {
		return nil
	}
	it := x.buckets.IteratorAt(node)
	if lower.Kind == Excluded && x.Compare(node.Key, lower.Value) == 0 {
		if !it.Next() {
			return nil
		}
	}
	return it
}

func (x *Index[O, K]) seekReverse(upper Bound[O]) *rbt.Iterator[O, *treeset.Set[K]] {
	if upper.Kind == Unbounded {
		it := x.buckets.Iterator()
		if !it.Last() {
			return nil
		}
		return it
	}

	node, found := x.buckets.Floor(upper.Value)
	if !found {
		return nil
	}
	it := x.buckets.IteratorAt(node)
	if upper.Kind == Excluded && x.Compare(node.Key, upper.Value) == 0 {
		if !it.Prev() {
			return nil
		}
	}
	return it
}
