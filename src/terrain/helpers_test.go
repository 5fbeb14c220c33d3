package terrain

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"wavegrid/src/logging"
)

var (
	//adjacent values differ by at most one
	testRules = [][]int{{0, 1}, {0, 1, 2}, {1, 2, 3}, {2, 3, 4}, {3, 4, 5}, {4, 5}}
	//every value is compatible with every other value
	openRules = [][]int{{0, 1, 2}, {0, 1, 2}, {0, 1, 2}}
)

func quietLogger() *slog.Logger {
	return logging.Nop()
}

func mustRules(t testing.TB, rules [][]int) *RuleTable {
	t.Helper()
	rt, err := BuildRuleTable(rules)
	require.NoError(t, err)
	return rt
}

func newTestGrid(t testing.TB, rows, cols int, rules [][]int, seed int64) *Grid {
	t.Helper()
	g := NewGrid(rows, cols, mustRules(t, rules), NewRNG(seed))
	g.SetLogger(quietLogger())
	return g
}

func testOptions(seed int64) *Options {
	o := DefaultTerrainOptions
	o.Seed = seed
	o.Logger = quietLogger()
	return &o
}

//requireCellInvariants checks the collapse and domain-range invariants on every cell
func requireCellInvariants(t *testing.T, g *Grid) {
	t.Helper()
	for i := 0; i < g.Len(); i++ {
		c := g.Cell(i)
		d := c.Domain()
		require.Equal(t, g.MaxDomains(), d.Max(), "cell %d domain bound", i)
		for _, v := range d.Values() {
			require.True(t, int(v) >= 0 && int(v) < g.MaxDomains(), "cell %d holds %d", i, v)
		}
		if c.IsCollapsed() {
			require.Equal(t, 1, d.Len(), "collapsed cell %d domain %v", i, d)
			require.True(t, d.Has(c.Value()), "collapsed cell %d value %d not in %v", i, c.Value(), d)
			require.True(t, c.IsPropagated(), "collapsed cell %d not propagated", i)
		} else {
			require.Equal(t, Uncollapsed, c.Value())
		}
	}
}

//requireAdjacentWithin checks that every pair of collapsed orthogonal neighbours differs by at most max
func requireAdjacentWithin(t *testing.T, g *Grid, max int) {
	t.Helper()
	for i := 0; i < g.Len(); i++ {
		a := g.Cell(i)
		if !a.IsCollapsed() {
			continue
		}
		for _, n := range g.Neighbors(i) {
			b := g.Cell(n)
			if !b.IsCollapsed() {
				continue
			}
			diff := int(a.Value() - b.Value())
			if diff < 0 {
				diff = -diff
			}
			require.LessOrEqual(t, diff, max, "cells %d=%d and %d=%d", i, a.Value(), n, b.Value())
		}
	}
}
