package terrain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomain(t *testing.T) {
	t.Run("new domain ignores values out of range", func(t *testing.T) {
		d := NewDomain(4, 0, 2, 4, -1)
		assert.Equal(t, []Value{0, 2}, d.Values())
		assert.Equal(t, 2, d.Len())
		assert.False(t, d.Has(4))
		assert.False(t, d.Has(-1))
	})

	t.Run("full domain holds every value", func(t *testing.T) {
		d := FullDomain(10)
		assert.Equal(t, 10, d.Len())
		assert.Equal(t, 10, d.Max())
		for v := Value(0); v < 10; v++ {
			assert.True(t, d.Has(v))
		}
	})

	t.Run("empty", func(t *testing.T) {
		assert.True(t, NewDomain(6).Empty())
		assert.False(t, NewDomain(6, 5).Empty())
		assert.True(t, NewDomain(0).Empty())
	})

	t.Run("union and intersect", func(t *testing.T) {
		a := NewDomain(12, 0, 1, 9)
		b := NewDomain(12, 1, 2, 11)
		assert.Equal(t, []Value{0, 1, 2, 9, 11}, a.Union(b).Values())
		assert.Equal(t, []Value{1}, a.Intersect(b).Values())
		assert.Equal(t, []Value{0, 1, 9}, a.Values(), "operands are not modified")
	})

	t.Run("clone is independent", func(t *testing.T) {
		a := NewDomain(6, 3)
		b := a.Clone()
		b.add(4)
		assert.Equal(t, []Value{3}, a.Values())
		assert.Equal(t, []Value{3, 4}, b.Values())
	})

	t.Run("equal", func(t *testing.T) {
		assert.True(t, NewDomain(6, 1, 2).Equal(NewDomain(6, 2, 1)))
		assert.False(t, NewDomain(6, 1).Equal(NewDomain(6, 2)))
		assert.False(t, NewDomain(6, 1).Equal(NewDomain(7, 1)))
	})

	t.Run("string", func(t *testing.T) {
		assert.Equal(t, "[0 2 5]", NewDomain(6, 5, 0, 2).String())
		assert.Equal(t, "[]", NewDomain(6).String())
	})
}
