package valord

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryOrInsert(t *testing.T) {
	m := NewOrdered[string, string]()

	e := m.Entry("key")
	assert.False(t, e.Occupied())
	g := e.OrInsert("value")
	assert.Equal(t, "value", *g.Value())
	g.Release()
	assert.True(t, e.Occupied())

	v, ok := m.Get("key")
	require.True(t, ok)
	assert.Equal(t, "value", v)

	// occupied: existing value wins
	g = m.Entry("key").OrInsert("other")
	assert.Equal(t, "value", g.Get())
	g.Release()
	require.NoError(t, m.Check())
}

func TestEntryOrInsertWith(t *testing.T) {
	m := NewOrdered[string, string]()

	calls := 0
	build := func() string {
		calls++
		return "value"
	}
	m.Entry("key").OrInsertWith(build).Release()
	m.Entry("key").OrInsertWith(build).Release()
	assert.Equal(t, 1, calls, "builder runs only for a vacant entry")

	g := m.Entry("other").OrInsertWithKey(func(k string) string { return fmt.Sprintf("value for %s", k) })
	assert.Equal(t, "other", g.Key())
	g.Release()

	v, _ := m.Get("other")
	assert.Equal(t, "value for other", v)
	require.NoError(t, m.Check())
}

func TestEntryOrDefault(t *testing.T) {
	m := NewOrdered[string, int]()
	m.Insert("a", -1)

	g := m.Entry("key").OrDefault()
	*g.Value() += 5
	g.Release()

	v, _ := m.Get("key")
	assert.Equal(t, 5, v)
	assert.Equal(t, []string{"a", "key"}, m.Keys())
	require.NoError(t, m.Check())
}

func TestEntryAndModify(t *testing.T) {
	m := NewOrdered[string, string]()

	m.Entry("key").AndModify(func(v *string) { *v = "new value" }).OrInsert("value").Release()
	v, _ := m.Get("key")
	assert.Equal(t, "value", v)

	m.Entry("key").AndModify(func(v *string) { *v = "new value" }).OrInsert("value").Release()
	v, _ = m.Get("key")
	assert.Equal(t, "new value", v)
	require.NoError(t, m.Check())
}

func TestEntryAndModifyMoves(t *testing.T) {
	m := people(t)
	m.Entry(1).AndModify(func(p *person) { p.Age = 50 })

	assert.Equal(t, 1, m.Last()[0].Key)
	assert.Equal(t, 2, m.First()[0].Key)
	require.NoError(t, m.Check())
}

func TestEntryInsertRemove(t *testing.T) {
	m := NewOrdered[int, int]()
	e := m.Entry(7)

	_, replaced := e.Insert(3)
	assert.False(t, replaced)
	old, replaced := e.Insert(4)
	assert.True(t, replaced)
	assert.Equal(t, 3, old)

	v, ok := e.Remove()
	assert.True(t, ok)
	assert.Equal(t, 4, v)
	assert.False(t, e.Occupied())
	_, ok = e.Remove()
	assert.False(t, ok)
	assert.Equal(t, 7, e.Key())
}
