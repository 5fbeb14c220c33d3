package terrain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCell_Collapse(t *testing.T) {
	t.Run("picks a candidate and commits it", func(t *testing.T) {
		c := NewCell(7, NewDomain(6, 1, 3, 4))
		require.NoError(t, c.Collapse(NewRNG(1)))

		assert.True(t, c.IsCollapsed())
		assert.True(t, c.IsPropagated())
		assert.Contains(t, []Value{1, 3, 4}, c.Value())
		assert.Equal(t, []Value{c.Value()}, c.Domain().Values())
	})

	t.Run("same seed same value", func(t *testing.T) {
		a := NewCell(0, FullDomain(6))
		b := NewCell(0, FullDomain(6))
		require.NoError(t, a.Collapse(NewRNG(42)))
		require.NoError(t, b.Collapse(NewRNG(42)))
		assert.Equal(t, a.Value(), b.Value())
	})

	t.Run("every candidate can be picked", func(t *testing.T) {
		seen := map[Value]bool{}
		rng := NewRNG(3)
		for i := 0; i < 300; i++ {
			c := NewCell(0, NewDomain(6, 1, 3, 4))
			require.NoError(t, c.Collapse(rng))
			seen[c.Value()] = true
		}
		assert.Equal(t, map[Value]bool{1: true, 3: true, 4: true}, seen)
	})

	t.Run("empty domain is reported", func(t *testing.T) {
		c := NewCell(5, NewDomain(6))
		var err error
		require.NotPanics(t, func() { err = c.Collapse(NewRNG(1)) })
		require.ErrorIs(t, err, ErrEmptyDomainCollapse)

		var cellErr *CellError
		require.True(t, errors.As(err, &cellErr))
		assert.Equal(t, 5, cellErr.Index)
		assert.False(t, c.IsCollapsed())
		assert.Equal(t, Uncollapsed, c.Value())
	})
}

func TestCell_CollapseTo(t *testing.T) {
	c := NewCell(2, NewDomain(6, 0, 1))
	assert.ErrorIs(t, c.CollapseTo(3), ErrValueNotInDomain)
	assert.False(t, c.IsCollapsed())

	require.NoError(t, c.CollapseTo(1))
	assert.Equal(t, Value(1), c.Value())
	assert.Equal(t, []Value{1}, c.Domain().Values())

	empty := NewCell(3, NewDomain(6))
	assert.ErrorIs(t, empty.CollapseTo(0), ErrEmptyDomainCollapse)
}

func TestCell_DomainIsACopy(t *testing.T) {
	c := NewCell(0, NewDomain(3, 1))
	d := c.Domain()
	d.add(2)
	assert.Equal(t, []Value{1}, c.Domain().Values())
}
