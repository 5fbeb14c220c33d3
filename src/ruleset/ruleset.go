//Package ruleset loads tile sets from YAML and turns them into terrain rule tables.
//A tile's position in the file is its domain value.
package ruleset

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"wavegrid/src/terrain"
)

var (
	ErrNoTiles       = errors.New("rule set has no tiles")
	ErrUnnamedTile   = errors.New("tile has no name")
	ErrDuplicateTile = errors.New("duplicate tile name")
	ErrUnknownTile   = errors.New("unknown neighbour tile")
)

//go:embed default.yaml
var defaultYAML []byte

//Tile is one terrain category
type Tile struct {
	Name      string   `yaml:"name"`
	Symbol    string   `yaml:"symbol"`
	Color     uint8    `yaml:"color"`     //256-colour palette index
	Neighbors []string `yaml:"neighbors"` //tile names or indices allowed next to this tile
}

//Landmark pins a tile at a cell of the initial grid
type Landmark struct {
	Row  int    `yaml:"row"`
	Col  int    `yaml:"col"`
	Tile string `yaml:"tile"`
}

//Ruleset is an ordered list of tiles with their adjacency, plus optional landmarks
type Ruleset struct {
	Name      string     `yaml:"name"`
	Tiles     []Tile     `yaml:"tiles"`
	Landmarks []Landmark `yaml:"landmarks"`

	index map[string]int
}

//Parse decodes and validates a YAML rule set
func Parse(data []byte) (*Ruleset, error) {
	rs := &Ruleset{}
	if err := yaml.Unmarshal(data, rs); err != nil {
		return nil, fmt.Errorf("decode rule set: %w", err)
	}
	if err := rs.validate(); err != nil {
		return nil, err
	}
	return rs, nil
}

//Load reads a rule set file
func Load(path string) (*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule set: %w", err)
	}
	rs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rs, nil
}

//Default returns the built-in six tile terrain set
func Default() *Ruleset {
	rs, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded rule set: %v", err))
	}
	return rs
}

func (rs *Ruleset) validate() error {
	if len(rs.Tiles) == 0 {
		return ErrNoTiles
	}
	rs.index = make(map[string]int, len(rs.Tiles))
	for i, t := range rs.Tiles {
		if t.Name == "" {
			return fmt.Errorf("tile %d: %w", i, ErrUnnamedTile)
		}
		if _, ok := rs.index[t.Name]; ok {
			return fmt.Errorf("tile %q: %w", t.Name, ErrDuplicateTile)
		}
		rs.index[t.Name] = i
		if t.Symbol == "" {
			first, _ := utf8.DecodeRuneInString(t.Name)
			rs.Tiles[i].Symbol = string(first)
		}
	}
	for _, t := range rs.Tiles {
		for _, n := range t.Neighbors {
			if _, err := rs.lookup(n); err != nil {
				return fmt.Errorf("tile %q: %w", t.Name, err)
			}
		}
	}
	for _, m := range rs.Landmarks {
		if _, err := rs.lookup(m.Tile); err != nil {
			return fmt.Errorf("landmark %d,%d: %w", m.Row, m.Col, err)
		}
	}
	return nil
}

//position finds a tile by name; rule sets not built by Parse have no index and are scanned
func (rs *Ruleset) position(name string) (int, bool) {
	if rs.index != nil {
		i, ok := rs.index[name]
		return i, ok
	}
	for i, t := range rs.Tiles {
		if t.Name == name {
			return i, true
		}
	}
	return 0, false
}

//lookup resolves a tile name, falling back to a numeric index
func (rs *Ruleset) lookup(ref string) (int, error) {
	if i, ok := rs.position(ref); ok {
		return i, nil
	}
	if i, err := strconv.Atoi(ref); err == nil && i >= 0 && i < len(rs.Tiles) {
		return i, nil
	}
	return 0, fmt.Errorf("%q: %w", ref, ErrUnknownTile)
}

//Len returns the number of tiles
func (rs *Ruleset) Len() int { return len(rs.Tiles) }

//Tile returns the tile for a domain value
func (rs *Ruleset) Tile(v terrain.Value) (Tile, bool) {
	if int(v) < 0 || int(v) >= len(rs.Tiles) {
		return Tile{}, false
	}
	return rs.Tiles[v], true
}

//Value returns the domain value of the named tile
func (rs *Ruleset) Value(name string) (terrain.Value, bool) {
	i, ok := rs.position(name)
	return terrain.Value(i), ok
}

//TerrainLandmarks resolves the landmark tiles to domain values
func (rs *Ruleset) TerrainLandmarks() ([]terrain.Landmark, error) {
	marks := make([]terrain.Landmark, 0, len(rs.Landmarks))
	for _, m := range rs.Landmarks {
		v, err := rs.lookup(m.Tile)
		if err != nil {
			return nil, fmt.Errorf("landmark %d,%d: %w", m.Row, m.Col, err)
		}
		marks = append(marks, terrain.Landmark{Row: m.Row, Col: m.Col, Value: terrain.Value(v)})
	}
	return marks, nil
}

//Rules builds the engine rule table, one row per tile in file order
func (rs *Ruleset) Rules() (*terrain.RuleTable, error) {
	table := make([][]int, len(rs.Tiles))
	for i, t := range rs.Tiles {
		row := make([]int, 0, len(t.Neighbors))
		for _, n := range t.Neighbors {
			v, err := rs.lookup(n)
			if err != nil {
				return nil, fmt.Errorf("tile %q: %w", t.Name, err)
			}
			row = append(row, v)
		}
		table[i] = row
	}
	rt, err := terrain.BuildRuleTable(table)
	if err != nil {
		return nil, fmt.Errorf("rule set %q: %w", rs.Name, err)
	}
	return rt, nil
}
