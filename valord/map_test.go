package valord

import (
	"fmt"
	"slices"
	"testing"

	gocmp "github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmorganca/valord/orderindex"
)

type person struct {
	Name string
	Age  uint8
}

func (p person) OrdBy() uint8 {
	return p.Age
}

func people(t *testing.T) *Map[int, uint8, person] {
	t.Helper()
	m := New[int, uint8, person]()
	for i := 1; i <= 5; i++ {
		m.Insert(i, person{Name: fmt.Sprintf("qians%d", i), Age: uint8(17 + i)})
	}
	require.NoError(t, m.Check())
	return m
}

func ages(pairs []Pair[int, person]) []uint8 {
	var out []uint8
	for _, p := range pairs {
		out = append(out, p.Value.Age)
	}
	return out
}

func TestPeopleByAge(t *testing.T) {
	m := people(t)

	// single youngest and oldest
	first := m.First()
	require.Len(t, first, 1)
	assert.Equal(t, Pair[int, person]{1, person{"qians1", 18}}, first[0])
	last := m.Last()
	require.Len(t, last, 1)
	assert.Equal(t, Pair[int, person]{5, person{"qians5", 22}}, last[0])

	// everyone ages one year
	for _, p := range m.IterMut() {
		p.Age++
	}
	require.NoError(t, m.Check())
	assert.Equal(t, []uint8{19}, ages(m.First()))
	assert.Equal(t, 1, m.First()[0].Key)
	assert.Equal(t, []uint8{23}, ages(m.Last()))
	assert.Equal(t, 5, m.Last()[0].Key)

	// two people aged 22 or more
	var got []uint8
	for _, p := range m.Range(orderindex.From[uint8](22)) {
		got = append(got, p.Age)
	}
	assert.Equal(t, []uint8{22, 23}, got)

	// both jump to 30 and tie for oldest
	for _, p := range m.RangeMut(orderindex.From[uint8](22)) {
		p.Age = 30
	}
	require.NoError(t, m.Check())
	want := []Pair[int, person]{
		{4, person{"qians4", 30}},
		{5, person{"qians5", 30}},
	}
	if diff := gocmp.Diff(want, m.Last()); diff != "" {
		t.Errorf("last mismatch (-want +got):\n%s", diff)
	}
}

func TestInsertReplace(t *testing.T) {
	m := NewOrdered[string, int]()
	_, replaced := m.Insert("qians", 1)
	assert.False(t, replaced)
	m.Insert("tedious", 2)
	m.Insert("xuandu", 3)

	old, replaced := m.Insert("xuandu", 1)
	assert.True(t, replaced)
	assert.Equal(t, 3, old)
	require.NoError(t, m.Check())

	assert.Equal(t, 3, m.Len())
	assert.Equal(t, []string{"qians", "xuandu", "tedious"}, m.Keys())
	assert.Equal(t, []int{1, 1, 2}, m.Values())
}

func TestInsertOrderByField(t *testing.T) {
	type item struct {
		sth     int
		orderBy int
	}
	m := NewFunc[string](func(v item) int { return v.orderBy })
	m.Insert("qians", item{123, 1})
	m.Insert("tedious", item{412, 2})
	m.Insert("xuandu", item{125, 3})
	m.Insert("xuandu", item{938, 1})

	var pairs []Pair[string, item]
	for k, v := range m.Iter() {
		pairs = append(pairs, Pair[string, item]{k, v})
	}
	require.Len(t, pairs, 3)
	assert.Equal(t, 1, pairs[0].Value.orderBy)
	assert.Equal(t, 1, pairs[1].Value.orderBy)
	assert.Equal(t, Pair[string, item]{"tedious", item{412, 2}}, pairs[2])
}

func TestRemove(t *testing.T) {
	m := NewOrdered[int, string]()
	m.Insert(1, "a")
	m.Insert(2, "b")

	_, ok := m.Remove(3)
	assert.False(t, ok)
	_, ok = m.Get(3)
	assert.False(t, ok)

	v, ok := m.Remove(1)
	assert.True(t, ok)
	assert.Equal(t, "a", v)
	_, ok = m.Get(1)
	assert.False(t, ok)

	k, v, ok := m.RemoveEntry(2)
	assert.True(t, ok)
	assert.Equal(t, 2, k)
	assert.Equal(t, "b", v)
	assert.True(t, m.IsEmpty())
	assert.Nil(t, m.First())
	assert.Nil(t, m.Last())
	require.NoError(t, m.Check())
}

func TestMultipleInsertAndRemove(t *testing.T) {
	m := NewOrdered[string, int]()
	m.Insert("qians", 1)
	m.Insert("tedious", 2)
	m.Insert("xuandu", 3)

	v, _ := m.Remove("tedious")
	assert.Equal(t, 2, v)
	v, _ = m.Remove("qians")
	assert.Equal(t, 1, v)

	m.Insert("x", 2)
	m.Insert("y", 4)

	var got []Pair[string, int]
	for k, v := range m.Iter() {
		got = append(got, Pair[string, int]{k, v})
	}
	assert.Equal(t, []Pair[string, int]{{"x", 2}, {"xuandu", 3}, {"y", 4}}, got)
}

func TestRoundTrip(t *testing.T) {
	m := people(t)
	before := m.Keys()

	m.Insert(42, person{"new", 20})
	require.NoError(t, m.Check())
	_, ok := m.Remove(42)
	require.True(t, ok)

	assert.Equal(t, 5, m.Len())
	assert.Equal(t, before, m.Keys())
	require.NoError(t, m.Check())
}

func TestMonotonic(t *testing.T) {
	m := NewOrdered[int, int]()
	for i, v := range []int{5, 3, 9, 3, 1, 9, 7, 0, 5} {
		m.Insert(i, v)
	}

	var asc []int
	for _, v := range m.Iter() {
		asc = append(asc, v)
	}
	assert.True(t, slices.IsSorted(asc))

	var desc []int
	for _, v := range m.RevIter() {
		desc = append(desc, v)
	}
	slices.Reverse(desc)
	assert.Equal(t, asc, desc)
}

func TestTies(t *testing.T) {
	m := NewOrdered[string, int]()
	m.Insert("c", 1)
	m.Insert("a", 1)
	m.Insert("b", 1)
	m.Insert("z", 0)
	m.Insert("y", 9)
	m.Insert("x", 9)

	assert.Equal(t, []Pair[string, int]{{"z", 0}}, m.First())
	assert.Equal(t, []Pair[string, int]{{"x", 9}, {"y", 9}}, m.Last())

	var keys []string
	for k := range m.Range(orderindex.Closed(1, 1)) {
		keys = append(keys, k)
	}
	assert.Equal(t, []string{"a", "b", "c"}, keys, "ties come back in key order")

	keys = keys[:0]
	for k := range m.RevRange(orderindex.Closed(1, 1)) {
		keys = append(keys, k)
	}
	assert.Equal(t, []string{"c", "b", "a"}, keys)
}

func TestClear(t *testing.T) {
	m := people(t)
	m.Clear()
	assert.Zero(t, m.Len())
	assert.Empty(t, m.Keys())
	require.NoError(t, m.Check())

	m.Insert(1, person{"again", 1})
	assert.Equal(t, 1, m.Len())
}

func TestCheckDetectsDrift(t *testing.T) {
	type box struct{ n *int }
	m := NewFunc[string](func(b box) int { return *b.n })

	n := 1
	m.Insert("a", box{&n})
	require.NoError(t, m.Check())

	// mutation behind the map's back
	n = 2
	assert.ErrorIs(t, m.Check(), ErrInvariant)

	// a guard round trip resyncs it
	g, ok := m.GetMut("a")
	require.True(t, ok)
	g.Release()
	assert.Equal(t, 1, g.Before())
	require.NoError(t, m.Check())
}
