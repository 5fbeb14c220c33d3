package terrain

import "math/rand/v2"

//Cell is one grid slot: its candidate domain plus the collapse and propagation flags.
//A collapsed cell always holds a single candidate equal to its collapsed value.
type Cell struct {
	id         int
	domain     Domain
	value      Value
	collapsed  bool
	propagated bool
}

//NewCell creates an uncollapsed cell with the given candidates
func NewCell(id int, domain Domain) Cell {
	return Cell{id: id, domain: domain, value: Uncollapsed}
}

//Collapse commits the cell to one candidate picked uniformly at random.
//It fails with ErrEmptyDomainCollapse when no candidate is left. Collapse is irreversible.
func (c *Cell) Collapse(rng *rand.Rand) error {
	values := c.domain.Values()
	if len(values) == 0 {
		return cellError(c.id, ErrEmptyDomainCollapse)
	}
	c.commit(values[rng.IntN(len(values))])
	return nil
}

//CollapseTo commits the cell to v, which must still be a candidate
func (c *Cell) CollapseTo(v Value) error {
	if c.domain.Empty() {
		return cellError(c.id, ErrEmptyDomainCollapse)
	}
	if !c.domain.Has(v) {
		return cellError(c.id, ErrValueNotInDomain)
	}
	c.commit(v)
	return nil
}

func (c *Cell) commit(v Value) {
	c.value = v
	c.collapsed = true
	c.propagated = true
	c.domain = NewDomain(c.domain.Max(), v)
}

//ID returns the row-major index of the cell in its grid
func (c Cell) ID() int { return c.id }

//Domain returns a copy of the current candidates
func (c Cell) Domain() Domain { return c.domain.Clone() }

//Value returns the collapsed value, or Uncollapsed
func (c Cell) Value() Value { return c.value }

//IsCollapsed reports whether the cell has been committed to a value
func (c Cell) IsCollapsed() bool { return c.collapsed }

//IsPropagated reports whether the cell took part in a propagation wave.
//The flag is never reset for the lifetime of a grid.
func (c Cell) IsPropagated() bool { return c.propagated }

//clone returns a copy that does not share the domain bitmap
func (c Cell) clone() Cell {
	c.domain = c.domain.Clone()
	return c
}
