package terrain

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"
)

//Grid is a rows x cols array of cells stored in row-major order (index = row*cols + col).
//It owns the constraint propagation and the randomized collapse walk.
//A Grid is not safe for concurrent use: every step depends on the previous one.
type Grid struct {
	cells      []Cell
	rows       int
	cols       int
	rules      *RuleTable
	maxDomains int
	rng        *rand.Rand
	logger     *slog.Logger
	collapsed  int
}

//NewGrid creates a grid whose cells all start with the full domain of rules.
//rng drives every random choice; a nil rng is seeded from the clock.
func NewGrid(rows int, cols int, rules *RuleTable, rng *rand.Rand) *Grid {
	return newGrid(rows, cols, rules, rng, DefWorkers, nil)
}

func newGrid(rows int, cols int, rules *RuleTable, rng *rand.Rand, workers int, logger *slog.Logger) *Grid {
	if rows <= 0 {
		rows = 1
	}
	if cols <= 0 {
		cols = 1
	}
	if rng == nil {
		rng = NewRNG(time.Now().UnixNano())
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Grid{
		cells:      allocCells(rows, cols, rules.Len(), workers),
		rows:       rows,
		cols:       cols,
		rules:      rules,
		maxDomains: rules.Len(),
		rng:        rng,
		logger:     logger,
	}
}

//NewRNG creates a deterministic random source for the given seed
func NewRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}

//SetLogger replaces the logger used for collapse and contradiction reports
func (g *Grid) SetLogger(l *slog.Logger) {
	if l != nil {
		g.logger = l
	}
}

//Rows returns the number of rows
func (g *Grid) Rows() int { return g.rows }

//Cols returns the number of columns
func (g *Grid) Cols() int { return g.cols }

//Len returns the total number of cells
func (g *Grid) Len() int { return len(g.cells) }

//MaxDomains returns the number of domain values
func (g *Grid) MaxDomains() int { return g.maxDomains }

//Rules returns the rule table the grid propagates with
func (g *Grid) Rules() *RuleTable { return g.rules }

//Cell returns a copy of the cell at index
func (g *Grid) Cell(index int) Cell { return g.cells[index].clone() }

//At returns a copy of the cell at row, col
func (g *Grid) At(row int, col int) Cell { return g.Cell(row*g.cols + col) }

//Values returns the collapsed value of every cell in row-major order (Uncollapsed for open cells)
func (g *Grid) Values() []Value {
	values := make([]Value, len(g.cells))
	for i := range g.cells {
		values[i] = g.cells[i].value
	}
	return values
}

//CollapsedCount returns how many cells are collapsed
func (g *Grid) CollapsedCount() int { return g.collapsed }

//AllCollapsed reports whether every cell is collapsed
func (g *Grid) AllCollapsed() bool { return g.collapsed == len(g.cells) }

//Neighbors returns the orthogonal neighbours of id: top, bottom, right, left.
//No neighbour crosses a row boundary.
func (g *Grid) Neighbors(id int) []int {
	total := len(g.cells)
	neighbors := make([]int, 0, 4)
	if id >= g.cols {
		neighbors = append(neighbors, id-g.cols)
	}
	if id+g.cols < total {
		neighbors = append(neighbors, id+g.cols)
	}
	if (id+1)%g.cols != 0 && id+1 < total {
		neighbors = append(neighbors, id+1)
	}
	if id != 0 && (id-1)%g.cols != g.cols-1 {
		neighbors = append(neighbors, id-1)
	}
	return neighbors
}

//Ring returns the border cells clockwise, starting at index 0
func (g *Grid) Ring() []int {
	if g.rows == 1 || g.cols == 1 {
		ring := make([]int, len(g.cells))
		for i := range ring {
			ring[i] = i
		}
		return ring
	}
	ring := make([]int, 0, 2*(g.rows+g.cols)-4)
	for c := 0; c < g.cols; c++ {
		ring = append(ring, c)
	}
	for r := 1; r < g.rows; r++ {
		ring = append(ring, r*g.cols+g.cols-1)
	}
	for c := g.cols - 2; c >= 0; c-- {
		ring = append(ring, (g.rows-1)*g.cols+c)
	}
	for r := g.rows - 2; r >= 1; r-- {
		ring = append(ring, r*g.cols)
	}
	return ring
}

//Collapse collapses the cell at index with the grid's random source
func (g *Grid) Collapse(index int) error {
	if index < 0 || index >= len(g.cells) {
		return cellError(index, ErrOutOfBounds)
	}
	c := &g.cells[index]
	was := c.collapsed
	if err := c.Collapse(g.rng); err != nil {
		return err
	}
	if !was {
		g.collapsed++
	}
	g.logger.Debug("collapsed cell", "index", index, "value", int(c.value))
	return nil
}

//CollapseTo pins the cell at index to v without propagating
func (g *Grid) CollapseTo(index int, v Value) error {
	if index < 0 || index >= len(g.cells) {
		return cellError(index, ErrOutOfBounds)
	}
	c := &g.cells[index]
	was := c.collapsed
	if err := c.CollapseTo(v); err != nil {
		return err
	}
	if !was {
		g.collapsed++
	}
	return nil
}

//Propagate recomputes the domain of index as the intersection, over its neighbours,
//of the values reachable from each neighbour's candidates.
//It returns the neighbours that have not been propagated yet.
//Collapsed cells are left alone. A cell without neighbours is only marked propagated.
//An empty result is kept (there is no rollback) and reported as ErrContradiction.
func (g *Grid) Propagate(index int) ([]int, error) {
	if index < 0 || index >= len(g.cells) {
		return nil, cellError(index, ErrOutOfBounds)
	}
	if g.cells[index].collapsed {
		return nil, nil
	}
	neighbors := g.Neighbors(index)
	if len(neighbors) == 0 {
		g.cells[index].propagated = true
		return nil, nil
	}

	var domain Domain
	unpropagated := make([]int, 0, len(neighbors))
	for i, n := range neighbors {
		reachable := g.rules.Reachable(g.cells[n].domain)
		if i == 0 {
			domain = reachable
		} else {
			domain = domain.Intersect(reachable)
		}
		if !g.cells[n].propagated {
			unpropagated = append(unpropagated, n)
		}
	}

	c := &g.cells[index]
	c.propagated = true
	c.domain = domain
	if domain.Empty() {
		g.logger.Warn("cell has no candidates left", "index", index)
		return unpropagated, cellError(index, ErrContradiction)
	}
	return unpropagated, nil
}

//PropagateFrontier runs propagation waves starting at seed until no unpropagated cell is reached.
//Each wave propagates the current frontier; the unpropagated neighbours it reports form the next one.
//It stops at the first contradiction.
func (g *Grid) PropagateFrontier(seed []int) error {
	frontier := seed
	waves := 0
	for len(frontier) > 0 {
		waves++
		next := make([]int, 0, len(frontier))
		queued := make(map[int]struct{}, len(frontier))
		for _, index := range frontier {
			unpropagated, err := g.Propagate(index)
			if err != nil {
				return err
			}
			for _, n := range unpropagated {
				if _, ok := queued[n]; ok {
					continue
				}
				queued[n] = struct{}{}
				next = append(next, n)
			}
		}
		frontier = next
	}
	g.logger.Debug("propagation settled", "waves", waves)
	return nil
}

//Build runs the randomized collapse walk from index: collapse the cell, propagate its neighbours,
//then move to a random uncollapsed neighbour. The walk ends when it reaches a cell without
//uncollapsed neighbours or when every cell is collapsed; it does not resume elsewhere.
func (g *Grid) Build(index int) error {
	if index < 0 || index >= len(g.cells) {
		return cellError(index, ErrOutOfBounds)
	}
	for !g.AllCollapsed() {
		if err := g.Collapse(index); err != nil {
			return err
		}
		neighbors := g.Neighbors(index)
		uncollapsed := make([]int, 0, len(neighbors))
		for _, n := range neighbors {
			if !g.cells[n].collapsed {
				uncollapsed = append(uncollapsed, n)
			}
		}
		if err := g.PropagateFrontier(neighbors); err != nil {
			return err
		}
		if len(uncollapsed) == 0 {
			g.logger.Debug("collapse walk dead-ended", "index", index, "collapsed", g.collapsed)
			return nil
		}
		index = uncollapsed[g.rng.IntN(len(uncollapsed))]
	}
	return nil
}

//Merge copies every cell of sub into g at (rowOffset+subRow, colOffset+subCol).
//Copied cells take the index of their destination. Cells landing outside g are skipped.
func (g *Grid) Merge(sub *Grid, rowOffset int, colOffset int) error {
	if sub.maxDomains != g.maxDomains {
		return fmt.Errorf("merge %dx%d into %dx%d: %w", sub.rows, sub.cols, g.rows, g.cols, ErrDomainMismatch)
	}
	for i := range sub.cells {
		row := rowOffset + i/sub.cols
		col := colOffset + i%sub.cols
		if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
			continue
		}
		target := row*g.cols + col
		if g.cells[target].collapsed {
			g.collapsed--
		}
		g.cells[target] = sub.cells[i].clone()
		g.cells[target].id = target
		if g.cells[target].collapsed {
			g.collapsed++
		}
	}
	return nil
}

//Range returns a new grid holding a copy of the rowSize x colSize window at (fromRow, fromCol).
//Copied cells are renumbered to their index in the new grid. The window gets its own random source,
//seeded with one draw from g's, so building on it does not shift g's sequence.
func (g *Grid) Range(fromRow int, fromCol int, rowSize int, colSize int) (*Grid, error) {
	if fromRow < 0 || fromCol < 0 || rowSize <= 0 || colSize <= 0 ||
		fromRow+rowSize > g.rows || fromCol+colSize > g.cols {
		return nil, fmt.Errorf("range %d,%d size %dx%d of %dx%d grid: %w",
			fromRow, fromCol, rowSize, colSize, g.rows, g.cols, ErrOutOfBounds)
	}
	r := &Grid{
		cells:      make([]Cell, rowSize*colSize),
		rows:       rowSize,
		cols:       colSize,
		rules:      g.rules,
		maxDomains: g.maxDomains,
		rng:        NewRNG(int64(g.rng.Uint64())),
		logger:     g.logger,
	}
	for i := 0; i < rowSize; i++ {
		for j := 0; j < colSize; j++ {
			index := i*colSize + j
			r.cells[index] = g.cells[(fromRow+i)*g.cols+fromCol+j].clone()
			r.cells[index].id = index
			if r.cells[index].collapsed {
				r.collapsed++
			}
		}
	}
	return r, nil
}
