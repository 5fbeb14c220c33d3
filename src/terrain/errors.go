package terrain

import (
	"errors"
	"fmt"
)

var (
	//ErrContradiction indicates propagation reduced a cell's domain to nothing
	ErrContradiction = errors.New("contradiction: no value satisfies the neighbour constraints")

	//ErrEmptyDomainCollapse indicates a collapse was attempted on a cell without candidates
	ErrEmptyDomainCollapse = errors.New("cannot collapse a cell with an empty domain")

	//ErrOutOfBounds indicates a requested window or index lies outside the grid
	ErrOutOfBounds = errors.New("out of bounds")

	//ErrInvalidRule indicates a rule table that references unknown values
	ErrInvalidRule = errors.New("invalid rule table")

	//ErrValueNotInDomain indicates a pinned value is not a candidate of the cell
	ErrValueNotInDomain = errors.New("value is not in the cell domain")

	//ErrDomainMismatch indicates two grids built over rule tables of different sizes
	ErrDomainMismatch = errors.New("grids have different domain sizes")
)

//CellError ties an engine error to the cell index that caused it
type CellError struct {
	Index int
	Err   error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("cell %d: %v", e.Index, e.Err)
}

func (e *CellError) Unwrap() error { return e.Err }

func cellError(index int, err error) error {
	return &CellError{Index: index, Err: err}
}
