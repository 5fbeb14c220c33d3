package view

import (
	"bytes"
	"strconv"

	"github.com/logrusorgru/aurora"

	"wavegrid/src/ruleset"
	"wavegrid/src/terrain"
)

const (
	uncollapsedFiller = "_"
	emptyFiller       = "!"
)

//Palette renders cells as coloured tile symbols
type Palette struct {
	au    aurora.Aurora
	tiles *ruleset.Ruleset
}

//NewPalette creates a palette for the tiles; colors=false renders plain symbols
func NewPalette(tiles *ruleset.Ruleset, colors bool) *Palette {
	return &Palette{au: aurora.NewAurora(colors), tiles: tiles}
}

//Cell returns the rendering of one cell: the tile symbol on its background colour,
//"_" for an uncollapsed cell and a red "!" for a cell left without candidates
func (p *Palette) Cell(c terrain.Cell) string {
	if !c.IsCollapsed() {
		if c.Domain().Empty() {
			return p.au.Red(emptyFiller).String()
		}
		return uncollapsedFiller
	}
	tile, ok := p.tiles.Tile(c.Value())
	if !ok {
		return strconv.Itoa(int(c.Value()))
	}
	return p.au.BgIndex(tile.Color, tile.Symbol).String()
}

//Grid renders the grid row by row, cropped to maxW x maxH cells (0 means unlimited)
func (p *Palette) Grid(g *terrain.Grid, maxW int, maxH int) string {
	var b bytes.Buffer
	for r := 0; r < g.Rows(); r++ {
		if maxH > 0 && r >= maxH {
			break
		}
		if r != 0 {
			b.WriteByte('\n')
		}
		for c := 0; c < g.Cols(); c++ {
			if maxW > 0 && c >= maxW {
				break
			}
			b.WriteString(p.Cell(g.At(r, c)))
		}
	}
	return b.String()
}

//Domains renders every cell followed by its remaining candidates
func (p *Palette) Domains(g *terrain.Grid) string {
	var b bytes.Buffer
	for r := 0; r < g.Rows(); r++ {
		if r != 0 {
			b.WriteByte('\n')
		}
		for c := 0; c < g.Cols(); c++ {
			if c != 0 {
				b.WriteByte(' ')
			}
			cell := g.At(r, c)
			b.WriteString(p.Cell(cell))
			b.WriteByte(' ')
			b.WriteString(cell.Domain().String())
		}
	}
	return b.String()
}

//Legend lists the tiles with their symbols
func (p *Palette) Legend() []string {
	legend := make([]string, 0, p.tiles.Len())
	for i, t := range p.tiles.Tiles {
		legend = append(legend, p.Cell(collapsedCell(p.tiles.Len(), terrain.Value(i)))+" "+t.Name)
	}
	return legend
}

func collapsedCell(max int, v terrain.Value) terrain.Cell {
	c := terrain.NewCell(0, terrain.NewDomain(max, v))
	_ = c.CollapseTo(v)
	return c
}
