package terrain

import "golang.org/x/sync/errgroup"

/*
	Bulk cell allocation for a fresh grid.
	Every cell starts with the same full domain, so the rows are split into work areas
	and each area is filled by its own goroutine.
*/

const (
	DefWorkers          = 4 //default workers
	DefMinRowsPerWorker = 8 //minimum rows for one worker
)

//workArea describes the rows [y1, y2] filled by one worker
type workArea struct {
	y1 int
	y2 int
}

//workAreas splits rows between at most workers areas
func workAreas(rows int, workers int) []workArea {
	if workers < 1 {
		workers = 1
	}
	linesPerWorker := rows / workers
	if linesPerWorker < DefMinRowsPerWorker {
		linesPerWorker = DefMinRowsPerWorker
	} else if linesPerWorker*workers < rows {
		linesPerWorker++
	}
	areas := make([]workArea, 0, workers)
	for y1 := 0; y1 < rows; y1 += linesPerWorker {
		y2 := y1 + linesPerWorker - 1
		if y2 > rows-1 {
			y2 = rows - 1
		}
		areas = append(areas, workArea{y1, y2})
	}
	return areas
}

//allocCells creates rows*cols unconstrained cells
func allocCells(rows int, cols int, maxDomains int, workers int) []Cell {
	cells := make([]Cell, rows*cols)
	var eg errgroup.Group
	for _, wa := range workAreas(rows, workers) {
		eg.Go(func() error {
			for i := wa.y1 * cols; i < (wa.y2+1)*cols; i++ {
				cells[i] = NewCell(i, FullDomain(maxDomains))
			}
			return nil
		})
	}
	//the workers cannot fail
	_ = eg.Wait()
	return cells
}
