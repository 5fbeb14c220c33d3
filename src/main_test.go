package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wavegrid/src/terrain"
)

const openTiles = `
name: open
tiles:
  - name: land
    symbol: L
    neighbors: [land, sea]
  - name: sea
    symbol: S
    neighbors: [land, sea]
`

func parse(t *testing.T, args ...string) (*EnvOptions, *terrain.Options) {
	t.Helper()
	eo := &EnvOptions{}
	o := terrain.DefaultTerrainOptions
	require.NoError(t, newParser(eo, &o).ParseArgs(args))
	return eo, &o
}

func TestParser(t *testing.T) {
	eo, to := parse(t, "-s", "5", "-t", "21", "-d", "7", "-f", "-w", "1,2,3,4", "-c", "-v", "-r", "tiles.yaml")
	assert.Equal(t, 5, to.Size)
	assert.Equal(t, 21, to.Target)
	assert.Equal(t, int64(7), to.Seed)
	assert.True(t, to.FullRing)
	assert.Equal(t, "1,2,3,4", eo.window)
	assert.True(t, eo.noColor)
	assert.True(t, eo.verbose)
	assert.Equal(t, "tiles.yaml", eo.rulesPath)
	assert.False(t, eo.interactive)

	eo, to = parse(t)
	assert.Equal(t, terrain.DefSize, to.Size)
	assert.Equal(t, terrain.DefTarget, to.Target)
	assert.Empty(t, eo.window)
}

func TestParseWindow(t *testing.T) {
	w, err := parseWindow("1, 2,3,4")
	require.NoError(t, err)
	assert.Equal(t, &window{1, 2, 3, 4}, w)

	w, err = parseWindow("")
	require.NoError(t, err)
	assert.Nil(t, w)

	_, err = parseWindow("1,2,3")
	assert.Error(t, err)
	_, err = parseWindow("1,2,x,4")
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	eo, to := parse(t, "-s", "3", "-t", "3", "-d", "11", "-c")
	var stdout, stderr bytes.Buffer

	require.NoError(t, run(&stdout, &stderr, eo, to))
	out := stdout.String()
	assert.Contains(t, out, "Running configuration:")
	assert.Contains(t, out, "Finished:")
	assert.Contains(t, out, "  Uncollapsed: 0")
	assert.NotContains(t, out, "_", "every cell of a 3x3 terrain collapses")
	assert.Contains(t, stderr.String(), "building terrain")
}

func TestRun_RulesFileAndWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "open.yaml")
	require.NoError(t, os.WriteFile(path, []byte(openTiles), 0o600))

	eo, to := parse(t, "-s", "3", "-t", "3", "-d", "5", "-c", "-f", "-r", path, "-w", "2,2,4,4")
	var stdout, stderr bytes.Buffer
	require.NoError(t, run(&stdout, &stderr, eo, to))

	out := stdout.String()
	assert.Contains(t, out, "  Size: 7 x 7")
	assert.Contains(t, out, "  Expansions: 2")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	grid := lines[len(lines)-4:]
	for _, l := range grid {
		assert.Len(t, l, 4)
		assert.Empty(t, strings.Trim(l, "LS"), "row %q", l)
	}
}

func TestRun_Errors(t *testing.T) {
	var stdout, stderr bytes.Buffer

	eo, to := parse(t, "-r", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, run(&stdout, &stderr, eo, to), os.ErrNotExist)

	eo, to = parse(t, "-w", "1,2")
	assert.Error(t, run(&stdout, &stderr, eo, to))

	eo, to = parse(t, "-s", "3", "-t", "3", "-d", "1", "-c", "-w", "0,0,0,2")
	assert.ErrorIs(t, run(&stdout, &stderr, eo, to), terrain.ErrOutOfBounds)
}

func TestRun_Landmarks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marks.yaml")
	tiles := openTiles + "landmarks:\n  - {row: 0, col: 0, tile: sea}\n  - {row: 2, col: 2, tile: sea}\n"
	require.NoError(t, os.WriteFile(path, []byte(tiles), 0o600))

	eo, to := parse(t, "-s", "3", "-t", "3", "-d", "2", "-c", "-r", path)
	var stdout, stderr bytes.Buffer
	require.NoError(t, run(&stdout, &stderr, eo, to))

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	grid := lines[len(lines)-3:]
	assert.Equal(t, byte('S'), grid[0][0])
	assert.Equal(t, byte('S'), grid[2][2])
	assert.Contains(t, stderr.String(), "landmarks settled")

	path = filepath.Join(t.TempDir(), "outside.yaml")
	require.NoError(t, os.WriteFile(path, []byte(openTiles+"landmarks:\n  - {row: 5, col: 0, tile: sea}\n"), 0o600))
	eo, to = parse(t, "-s", "3", "-c", "-r", path)
	assert.ErrorIs(t, run(&stdout, &stderr, eo, to), terrain.ErrOutOfBounds)
}
