package terrain

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"
)

//Options represents the Terrain's configurable options
type Options struct {
	Size     int          //initial square side
	Target   int          //side to grow to, used by callers that drive Init from options
	Seed     int64        //random seed, 0 picks one from the clock
	FullRing bool         //collapse every cell of each new ring, resuming the walk where it dead-ends
	Workers  int          //goroutines used to allocate the cells of a fresh grid
	Logger   *slog.Logger //nil logs to slog.Default()
}

//Status represents the status of the Terrain at concrete moment
type Status struct {
	Size        int
	Expansions  int
	Collapsed   int
	Uncollapsed int
	BuildTime   time.Duration //time spent in the last Init or Expand
	Err         error         //error that halted generation, if any
}

//Viewer is the interface to any Viewer - the object who can display the terrain
type Viewer interface {
	Refresh()
	Register(t *Terrain)
	Start()
}

//default options
const (
	DefSize   = 3
	DefTarget = 10
)

var DefaultTerrainOptions = Options{
	Size:    DefSize,
	Target:  DefTarget,
	Workers: DefWorkers,
}

//Terrain owns one Grid and grows it in rings of one cell, keeping the collapsed interior.
//The previous grid is dropped as soon as an expansion completes.
type Terrain struct {
	options Options
	size    int
	rules   *RuleTable
	grid    *Grid
	rng     *rand.Rand
	logger  *slog.Logger
	status  Status
	views   []Viewer
}

//New creates a size x size terrain whose cells are all unconstrained.
//A nil o uses DefaultTerrainOptions; o.Size is ignored in favour of size.
func New(size int, rules *RuleTable, o *Options) *Terrain {
	if o == nil {
		o = &DefaultTerrainOptions
	}
	opts := *o
	if size <= 0 {
		size = 1
	}
	opts.Size = size
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.Workers <= 0 {
		opts.Workers = DefWorkers
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	t := &Terrain{
		options: opts,
		size:    size,
		rules:   rules,
		rng:     NewRNG(opts.Seed),
		logger:  opts.Logger,
	}
	t.grid = t.newGrid(size)
	t.status.Size = size
	t.updateCounts()
	return t
}

func (t *Terrain) newGrid(size int) *Grid {
	return newGrid(size, size, t.rules, t.rng, t.options.Workers, t.logger)
}

//Landmark pins a value at a row and column of the initial grid
type Landmark struct {
	Row   int
	Col   int
	Value Value
}

//Settle pins the landmarks and propagates their constraints to the rest of the grid.
//It must be called before Init; a landmark outside the grid is ErrOutOfBounds.
//Adjacent landmarks the rule table does not allow side by side halt with ErrContradiction.
func (t *Terrain) Settle(marks []Landmark) error {
	frontier := make([]int, 0, 4*len(marks))
	for _, m := range marks {
		if m.Row < 0 || m.Row >= t.size || m.Col < 0 || m.Col >= t.size {
			return fmt.Errorf("landmark %d,%d: %w", m.Row, m.Col, ErrOutOfBounds)
		}
		index := m.Row*t.size + m.Col
		if err := t.grid.CollapseTo(index, m.Value); err != nil {
			return fmt.Errorf("landmark %d,%d: %w", m.Row, m.Col, err)
		}
		frontier = append(frontier, t.grid.Neighbors(index)...)
	}
	//propagation skips collapsed cells, so pinned pairs are checked directly
	for _, m := range marks {
		allowed := t.rules.Allowed(m.Value)
		for _, n := range t.grid.Neighbors(m.Row*t.size + m.Col) {
			c := &t.grid.cells[n]
			if c.collapsed && !allowed.Has(c.value) {
				t.updateCounts()
				return t.halt(fmt.Errorf("settle landmarks: %d,%d next to %d: %w", m.Row, m.Col, n, cellError(n, ErrContradiction)))
			}
		}
	}
	err := t.grid.PropagateFrontier(frontier)
	t.updateCounts()
	if err != nil {
		return t.halt(fmt.Errorf("settle landmarks: %w", err))
	}
	t.logger.Info("landmarks settled", "count", len(marks))
	return nil
}

//Init collapses the initial grid starting at its centre cell,
//then expands ceil((target-size)/2) times so the side reaches at least target.
func (t *Terrain) Init(target int) error {
	start := time.Now()
	centre := t.size * t.size / 2
	t.logger.Info("building terrain", "size", t.size, "target", target, "seed", t.options.Seed)

	err := t.grid.Build(centre)
	if err == nil && t.options.FullRing {
		err = t.complete(t.grid, allIndices(t.grid.Len()))
	}
	t.status.BuildTime = time.Since(start)
	if err != nil {
		return t.halt(fmt.Errorf("build initial %dx%d grid: %w", t.size, t.size, err))
	}
	t.updateCounts()
	t.refreshView()

	expansions := 0
	if target > t.size {
		expansions = int(math.Ceil(float64(target-t.size) / 2))
	}
	for i := 0; i < expansions; i++ {
		if err := t.Expand(); err != nil {
			return err
		}
	}
	return nil
}

//Expand grows the terrain by a one-cell ring on every side.
//The current grid becomes the interior of a (size+2) x (size+2) grid, the border cell at index 1 is
//propagated and the collapse walk resumes from it. On error the current grid is kept.
func (t *Terrain) Expand() error {
	start := time.Now()
	grid := t.newGrid(t.size + 2)
	if err := grid.Merge(t.grid, 1, 1); err != nil {
		return t.halt(fmt.Errorf("expand to %d: %w", t.size+2, err))
	}
	if _, err := grid.Propagate(1); err != nil {
		return t.halt(fmt.Errorf("expand to %d: %w", t.size+2, err))
	}
	err := grid.Build(1)
	if err == nil && t.options.FullRing {
		err = t.complete(grid, grid.Ring())
	}
	t.status.BuildTime = time.Since(start)
	if err != nil {
		return t.halt(fmt.Errorf("expand to %d: %w", t.size+2, err))
	}

	t.grid = grid
	t.size += 2
	t.status.Expansions++
	t.status.Size = t.size
	t.updateCounts()
	t.logger.Info("terrain expanded", "size", t.size, "collapsed", t.status.Collapsed, "elapsed", t.status.BuildTime)
	t.refreshView()
	return nil
}

//complete resumes the collapse walk from every listed cell still uncollapsed
func (t *Terrain) complete(g *Grid, indices []int) error {
	for _, i := range indices {
		if g.cells[i].collapsed {
			continue
		}
		if err := g.Build(i); err != nil {
			return err
		}
	}
	return nil
}

//Window returns a copy of the rowSize x colSize window at (fromRow, fromCol),
//expanding the terrain until the window fits in the current grid.
func (t *Terrain) Window(fromRow int, fromCol int, rowSize int, colSize int) (*Grid, error) {
	if fromRow < 0 || fromCol < 0 || rowSize <= 0 || colSize <= 0 {
		return nil, fmt.Errorf("window %d,%d size %dx%d: %w", fromRow, fromCol, rowSize, colSize, ErrOutOfBounds)
	}
	for fromRow+rowSize > t.size || fromCol+colSize > t.size {
		if err := t.Expand(); err != nil {
			return nil, err
		}
	}
	return t.grid.Range(fromRow, fromCol, rowSize, colSize)
}

//Grid returns the current grid
func (t *Terrain) Grid() *Grid { return t.grid }

//Size returns the current square side
func (t *Terrain) Size() int { return t.size }

//Rules returns the rule table
func (t *Terrain) Rules() *RuleTable { return t.rules }

//Options returns the effective options (seed and workers resolved)
func (t *Terrain) Options() Options { return t.options }

//Status returns current terrain status represented by Status struct
func (t *Terrain) Status() Status { return t.status }

//RegisterViewer registers the viewer - the terrain will call the viewer when the grid changes
func (t *Terrain) RegisterViewer(v Viewer) {
	t.views = append(t.views, v)
	v.Register(t)
}

//halt records the error that stopped generation
func (t *Terrain) halt(err error) error {
	t.status.Err = err
	t.logger.Error("terrain generation halted", "error", err)
	t.updateCounts()
	t.refreshView()
	return err
}

func (t *Terrain) updateCounts() {
	t.status.Collapsed = t.grid.CollapsedCount()
	t.status.Uncollapsed = t.grid.Len() - t.status.Collapsed
}

//refreshView calls Refresh event for all registered views
func (t *Terrain) refreshView() {
	for _, v := range t.views {
		v.Refresh()
	}
}

func allIndices(n int) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return indices
}
