package view

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"wavegrid/src/terrain"
)

//ConsoleOut is a non-interactive viewer printing progress and the final grid to a writer
type ConsoleOut struct {
	t         *terrain.Terrain
	w         io.Writer
	palette   *Palette
	verbose   bool
	startTime time.Time
}

//NewConsoleOut creates a console viewer; verbose adds the per-cell candidate dump
func NewConsoleOut(w io.Writer, p *Palette, verbose bool) *ConsoleOut {
	return &ConsoleOut{w: w, palette: p, verbose: verbose}
}

func (c *ConsoleOut) Refresh() {
	st := c.t.Status()
	if st.Err != nil {
		_, _ = fmt.Fprintf(c.w, "\nHalted at size %v x %v: %v\n", st.Size, st.Size, st.Err)
		return
	}
	_, _ = fmt.Fprintf(c.w, "  Size: %v x %v, collapsed: %v, built in %v\n",
		st.Size, st.Size, st.Collapsed, st.BuildTime.Round(time.Microsecond))
}

func (c *ConsoleOut) Register(t *terrain.Terrain) {
	c.t = t
	o := t.Options()
	_, _ = fmt.Fprintln(c.w, "Running configuration:")
	c.printHashData(map[string]interface{}{
		"Initial size": fmt.Sprintf("%v x %v", o.Size, o.Size),
		"Seed":         o.Seed,
		"Full ring":    o.FullRing,
		"Workers":      o.Workers,
		"Tiles":        strings.Join(c.palette.Legend(), ", "),
	})
}

func (c *ConsoleOut) Start() {
	c.startTime = time.Now()
	_, _ = fmt.Fprintln(c.w, "\nGeneration started...")
}

//Finish prints the totals and the grid g (the whole terrain or a window of it)
func (c *ConsoleOut) Finish(g *terrain.Grid) {
	st := c.t.Status()
	totalTime := time.Since(c.startTime).Round(time.Millisecond)
	_, _ = fmt.Fprintln(c.w, "\nFinished:")
	c.printHashData(map[string]interface{}{
		"Total time":  totalTime,
		"Size":        fmt.Sprintf("%v x %v", st.Size, st.Size),
		"Expansions":  st.Expansions,
		"Collapsed":   st.Collapsed,
		"Uncollapsed": st.Uncollapsed,
	})
	c.PrintGrid(g)
}

//PrintGrid prints the grid, followed by the candidate dump in verbose mode
func (c *ConsoleOut) PrintGrid(g *terrain.Grid) {
	_, _ = fmt.Fprintln(c.w)
	_, _ = fmt.Fprintln(c.w, c.palette.Grid(g, 0, 0))
	if c.verbose {
		_, _ = fmt.Fprintln(c.w, strings.Repeat("-", 2*g.Cols()))
		_, _ = fmt.Fprintln(c.w, c.palette.Domains(g))
	}
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		_, _ = fmt.Fprintf(c.w, "  %s: %v\n", propName, d[propName])
	}
}
