package view

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"

	"wavegrid/src/terrain"
)

type keyBindings struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

//ConsoleUI is the interactive terminal viewer: the terrain is shown in a scrollable pane
//and can be grown ring by ring from the keyboard
type ConsoleUI struct {
	t       *terrain.Terrain
	g       *gocui.Gui
	k       []keyBindings
	palette *Palette
	ox, oy  int //first visible column and row of the terrain
}

//NewConsoleUI creates the terminal UI. The palette must be built with colors enabled
//to get the 256-colour tiles.
func NewConsoleUI(p *Palette) (*ConsoleUI, error) {
	var err error
	t := ConsoleUI{palette: p}

	t.g, err = gocui.NewGui(gocui.Output256)
	if err != nil {
		return nil, fmt.Errorf("init terminal: %w", err)
	}

	t.k = []keyBindings{
		{gocui.KeyCtrlC, "^C", "Exit", t.cmdQuit, ""},
		{'q', "Q", "Exit", t.cmdQuit, ""},
		{'e', "E", "Expand", t.cmdExpand, ""},
		{gocui.KeyArrowUp, "↑", "", t.cmdScroll(0, -1), ""},
		{gocui.KeyArrowDown, "↓", "", t.cmdScroll(0, 1), ""},
		{gocui.KeyArrowLeft, "←", "", t.cmdScroll(-1, 0), ""},
		{gocui.KeyArrowRight, "→", "Scroll", t.cmdScroll(1, 0), ""},
	}
	t.g.SetManagerFunc(t.layout)

	if err := t.initKeyBindings(t.k); err != nil {
		t.g.Close()
		return nil, err
	}
	return &t, nil
}

func (t *ConsoleUI) initKeyBindings(k []keyBindings) error {
	for _, kb := range k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(gui *gocui.Gui, view *gocui.View) error { return h(view) }); err != nil {
			return fmt.Errorf("key %s: %w", kb.name, err)
		}
	}
	return nil
}

func (t *ConsoleUI) Register(tr *terrain.Terrain) {
	t.t = tr
}

//Start runs the UI loop until the user quits
func (t *ConsoleUI) Start() {
	defer t.g.Close()
	if err := t.g.MainLoop(); err != nil && !errors.Is(err, gocui.ErrQuit) {
		t.t.Options().Logger.Error("terminal UI stopped", "error", err)
	}
}

func (t *ConsoleUI) Refresh() {
	t.renderTerrain()
	t.renderConfiguration()
	t.renderStatus()
}

func (t *ConsoleUI) renderTerrain() {
	t.g.Update(func(g *gocui.Gui) error {
		v, e := g.View("terrain")
		if e != nil {
			return e
		}
		t.drawTerrain(v)
		return nil
	})
}

func (t *ConsoleUI) drawTerrain(v *gocui.View) {
	v.Clear()
	_, _ = fmt.Fprint(v, t.visibleTerrain(v.Size()))
}

//visibleTerrain renders the part of the grid that fits in a w x h pane starting at the scroll offset
func (t *ConsoleUI) visibleTerrain(w int, h int) string {
	grid := t.t.Grid()
	t.ox = clamp(t.ox, 0, grid.Cols()-1)
	t.oy = clamp(t.oy, 0, grid.Rows()-1)
	cols := min(w, grid.Cols()-t.ox)
	rows := min(h, grid.Rows()-t.oy)
	window, err := grid.Range(t.oy, t.ox, rows, cols)
	if err != nil {
		return ""
	}
	return t.palette.Grid(window, 0, 0)
}

func (t *ConsoleUI) renderStatus() {
	s := t.t.Status()
	t.g.Update(func(g *gocui.Gui) error {
		if v, e := g.View("status"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, t.renderProp("Size", "%v x %v", s.Size, s.Size))
			_, _ = fmt.Fprintln(v, t.renderProp("Expansions", "%v", s.Expansions))
			_, _ = fmt.Fprintln(v, t.renderProp("Collapsed", "%v", s.Collapsed))
			_, _ = fmt.Fprintln(v, t.renderProp("Uncollapsed", "%v", s.Uncollapsed))
			_, _ = fmt.Fprintln(v, t.renderProp("Build time", "%v", s.BuildTime.Round(time.Microsecond)))
			_, _ = fmt.Fprintln(v, t.renderProp("Origin", "%v,%v", t.oy, t.ox))
			if s.Err != nil {
				_, _ = fmt.Fprintln(v, " "+aurora.Red("halted").String()+": "+s.Err.Error())
			}
		}
		return nil
	})
}

func (t *ConsoleUI) renderConfiguration() {
	t.g.Update(func(g *gocui.Gui) error {
		o := t.t.Options()
		if v, e := g.View("configuration"); e == nil {
			v.Clear()
			_, _ = fmt.Fprintln(v, t.renderProp("Initial size", "%v x %v", o.Size, o.Size))
			_, _ = fmt.Fprintln(v, t.renderProp("Seed", "%v", o.Seed))
			_, _ = fmt.Fprintln(v, t.renderProp("Full ring", "%v", o.FullRing))
			_, _ = fmt.Fprintln(v, t.renderProp("Workers", "%v", o.Workers))
			for _, l := range t.palette.Legend() {
				_, _ = fmt.Fprintln(v, " "+l)
			}
		}
		return nil
	})
}

func (t *ConsoleUI) renderProp(name string, valueformat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueformat, values...)
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	leftColumnWidth := 28
	minWindowHeight := 20

	if maxY < minWindowHeight {
		if _, err := t.headerLayout(g, maxY, "Terminal height too small"); err != nil && err != gocui.ErrUnknownView {
			return err
		}
		_ = g.DeleteView("configuration")
		_ = g.DeleteView("status")
		_ = g.DeleteView("terrain")
		return nil
	}
	if _, err := t.headerLayout(g, 3, "Wave function collapse terrain"); err != nil && err != gocui.ErrUnknownView {
		return err
	}

	if v, err := g.SetView("configuration", 0, 3, leftColumnWidth, 3+(maxY-5-3)/2); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Configuration"
		v.Frame = true
		t.renderConfiguration()
	}

	if v, err := g.SetView("status", 0, 3+(maxY-5-3)/2+1, leftColumnWidth, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Status"
		v.Frame = true
		t.renderStatus()
	}

	v, err := g.SetView("terrain", leftColumnWidth+1, 3, maxX-1, maxY-5)
	if err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Terrain"
		v.Frame = true
	}
	//drawn on every layout so a resize re-crops the terrain
	t.drawTerrain(v)

	if v, err := g.SetView("help", -1, maxY-5, maxX, maxY-3); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Frame = false
		_, _ = fmt.Fprintln(v, t.keyHelp())
	}
	return nil
}

func (t *ConsoleUI) keyHelp() string {
	b := bytes.Buffer{}
	b.WriteString("KEYBINDINGS: ")
	for i, k := range t.k {
		if i != 0 {
			b.WriteString(" ")
		}
		b.WriteString(aurora.Green(k.name).String())
		if k.descr != "" {
			b.WriteString(": ")
			b.WriteString(k.descr)
			b.WriteString(",")
		}
	}
	return strings.TrimSuffix(b.String(), ",")
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) (v *gocui.View, err error) {
	maxX, _ := g.Size()
	if v, err = g.SetView("header", -1, -1, maxX+1, height); err != nil {
		if err == gocui.ErrUnknownView && v != nil {
			v.Frame = false
			v.BgColor = gocui.ColorCyan
			v.FgColor = gocui.ColorBlack
		}
	}
	if v != nil {
		v.Clear()
		pad := 0
		if maxX > len(text) {
			pad = (maxX - len(text)) / 2
		}
		_, _ = fmt.Fprintln(v, strings.Repeat("\n", height/2+1)+strings.Repeat(" ", pad)+text)
	}
	return
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

//cmdExpand grows the terrain by one ring; a failure is shown in the status pane
func (t *ConsoleUI) cmdExpand(_ *gocui.View) error {
	if t.t.Status().Err != nil {
		return nil
	}
	if err := t.t.Expand(); err == nil {
		//the previous content moved one cell down and right
		if t.ox > 0 || t.oy > 0 {
			t.ox++
			t.oy++
		}
	}
	return nil
}

func (t *ConsoleUI) cmdScroll(dx int, dy int) func(v *gocui.View) error {
	return func(_ *gocui.View) error {
		t.ox += dx
		t.oy += dy
		t.Refresh()
		return nil
	}
}

func clamp(v int, lo int, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
