package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/integrii/flaggy"

	"wavegrid/src/logging"
	"wavegrid/src/ruleset"
	"wavegrid/src/terrain"
	"wavegrid/src/view"
)

type EnvOptions struct {
	interactive bool
	rulesPath   string
	window      string
	noColor     bool
	verbose     bool
	jsonLogs    bool
}

//window is a rectangle of the terrain requested from the command line
type window struct {
	row, col, rows, cols int
}

func main() {
	eo, to := initOptions()
	if err := run(os.Stdout, os.Stderr, eo, to); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initOptions() (eo *EnvOptions, to *terrain.Options) {
	eo = &EnvOptions{}
	o := terrain.DefaultTerrainOptions
	to = &o
	p := newParser(eo, to)
	if err := p.Parse(); err != nil {
		p.ShowHelpAndExit(err.Error())
	}
	return
}

func newParser(eo *EnvOptions, to *terrain.Options) *flaggy.Parser {
	p := flaggy.NewParser("wavegrid")
	p.Description = "Wave function collapse terrain generator"
	p.ShowHelpOnUnexpected = true
	p.Int(&to.Size, "s", "size", "Side of the initial square grid")
	p.Int(&to.Target, "t", "target", "Side the terrain grows to")
	p.Int64(&to.Seed, "d", "seed", "Random seed, 0 picks one from the clock")
	p.Bool(&to.FullRing, "f", "fullRing", "Collapse every cell of each new ring")
	p.Int(&to.Workers, "k", "workers", "Goroutines allocating the cells of a new grid")
	p.String(&eo.rulesPath, "r", "rules", "YAML rule set file, the built-in terrain tiles by default")
	p.String(&eo.window, "w", "window", "Print only the window row,col,rows,cols, growing the terrain until it fits")
	p.Bool(&eo.interactive, "n", "interactive", "Start interactive mode")
	p.Bool(&eo.noColor, "c", "noColor", "Print plain tile symbols")
	p.Bool(&eo.verbose, "v", "verbose", "Debug logging and the candidate dump of every cell")
	p.Bool(&eo.jsonLogs, "j", "jsonLogs", "Log in JSON")
	return p
}

//parseWindow reads "row,col,rows,cols"; an empty string means no window
func parseWindow(s string) (*window, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("window %q: expected row,col,rows,cols", s)
	}
	values := make([]int, 4)
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("window %q: %w", s, err)
		}
		values[i] = v
	}
	return &window{values[0], values[1], values[2], values[3]}, nil
}

func loadRules(path string) (*ruleset.Ruleset, error) {
	if path == "" {
		return ruleset.Default(), nil
	}
	return ruleset.Load(path)
}

func run(stdout io.Writer, stderr io.Writer, eo *EnvOptions, to *terrain.Options) error {
	level := logging.LevelInfo
	if eo.verbose {
		level = logging.LevelDebug
	}
	logger := logging.New(logging.Config{Level: level, JSON: eo.jsonLogs, Service: "wavegrid", Output: stderr})
	to.Logger = logger

	win, err := parseWindow(eo.window)
	if err != nil {
		return err
	}
	rs, err := loadRules(eo.rulesPath)
	if err != nil {
		return err
	}
	rules, err := rs.Rules()
	if err != nil {
		return err
	}
	if !rules.Symmetric() {
		logger.Warn("rule set is not symmetric, propagation may reject valid neighbours", "rules", rs.Name)
	}

	t := terrain.New(to.Size, rules, to)
	marks, err := rs.TerrainLandmarks()
	if err != nil {
		return err
	}
	if len(marks) > 0 {
		if err := t.Settle(marks); err != nil {
			return err
		}
	}

	if eo.interactive {
		ui, err := view.NewConsoleUI(view.NewPalette(rs, true))
		if err != nil {
			return err
		}
		t.RegisterViewer(ui)
		//a failed build is shown in the status pane
		_ = t.Init(to.Target)
		ui.Start()
		return nil
	}

	out := view.NewConsoleOut(stdout, view.NewPalette(rs, !eo.noColor), eo.verbose)
	t.RegisterViewer(out)
	out.Start()
	if err := t.Init(to.Target); err != nil {
		out.Finish(t.Grid())
		return err
	}
	g := t.Grid()
	if win != nil {
		if g, err = t.Window(win.row, win.col, win.rows, win.cols); err != nil {
			out.Finish(t.Grid())
			return err
		}
	}
	out.Finish(g)
	return nil
}
