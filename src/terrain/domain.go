package terrain

import (
	"strconv"
	"strings"

	"github.com/boljen/go-bitmap"
)

//Value names one terrain category (a domain value)
type Value int

//Uncollapsed is reported by Cell.Value for cells that have not been collapsed yet
const Uncollapsed Value = -1

//Domain is the set of candidate values a cell could still become.
//Values live in [0, max); the set is backed by a bitmap so union and intersection are byte-wise.
type Domain struct {
	bits bitmap.Bitmap
	max  int
}

//NewDomain creates a domain over [0, max) holding the given values.
//Values outside the range are ignored.
func NewDomain(max int, values ...Value) Domain {
	if max < 0 {
		max = 0
	}
	d := Domain{bits: bitmap.New(max), max: max}
	for _, v := range values {
		d.add(v)
	}
	return d
}

//FullDomain creates an unconstrained domain holding every value in [0, max)
func FullDomain(max int) Domain {
	d := NewDomain(max)
	for v := 0; v < max; v++ {
		d.bits.Set(v, true)
	}
	return d
}

func (d *Domain) add(v Value) {
	if int(v) < 0 || int(v) >= d.max {
		return
	}
	d.bits.Set(int(v), true)
}

//Max returns the exclusive upper bound of the values this domain can hold
func (d Domain) Max() int { return d.max }

//Has reports whether v is a candidate
func (d Domain) Has(v Value) bool {
	if int(v) < 0 || int(v) >= d.max {
		return false
	}
	return d.bits.Get(int(v))
}

//Len returns the number of candidates
func (d Domain) Len() int {
	n := 0
	for v := 0; v < d.max; v++ {
		if d.bits.Get(v) {
			n++
		}
	}
	return n
}

//Empty reports whether no candidate is left
func (d Domain) Empty() bool {
	for _, b := range d.bits {
		if b != 0 {
			return false
		}
	}
	return true
}

//Values returns the candidates in ascending order
func (d Domain) Values() []Value {
	values := make([]Value, 0, d.max)
	for v := 0; v < d.max; v++ {
		if d.bits.Get(v) {
			values = append(values, Value(v))
		}
	}
	return values
}

//Union returns a new domain holding the candidates of both domains
func (d Domain) Union(o Domain) Domain {
	max := d.max
	if o.max > max {
		max = o.max
	}
	r := NewDomain(max)
	copy(r.bits, d.bits)
	for i := range o.bits {
		r.bits[i] |= o.bits[i]
	}
	return r
}

//Intersect returns a new domain holding the candidates present in both domains
func (d Domain) Intersect(o Domain) Domain {
	r := NewDomain(d.max)
	for i := range r.bits {
		if i < len(d.bits) && i < len(o.bits) {
			r.bits[i] = d.bits[i] & o.bits[i]
		}
	}
	return r
}

//Clone returns an independent copy
func (d Domain) Clone() Domain {
	return Domain{bits: bitmap.Bitmap(d.bits.Data(true)), max: d.max}
}

//Equal reports whether both domains hold the same candidates
func (d Domain) Equal(o Domain) bool {
	if d.max != o.max {
		return false
	}
	for i := range d.bits {
		if d.bits[i] != o.bits[i] {
			return false
		}
	}
	return true
}

func (d Domain) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range d.Values() {
		if i != 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(int(v)))
	}
	b.WriteByte(']')
	return b.String()
}
