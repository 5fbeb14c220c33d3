package terrain

import "fmt"

//RuleTable lists, for every domain value, the values allowed as its direct orthogonal neighbour.
//It is immutable once built. Symmetry is not enforced.
type RuleTable struct {
	rules   [][]Value
	allowed []Domain
}

//BuildRuleTable validates the raw rules and builds the table.
//rules[v] holds the values compatible with v; every referenced value must be < len(rules).
func BuildRuleTable(rules [][]int) (*RuleTable, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("%w: no domain values", ErrInvalidRule)
	}
	max := len(rules)
	rt := &RuleTable{
		rules:   make([][]Value, max),
		allowed: make([]Domain, max),
	}
	for v, compatible := range rules {
		rt.rules[v] = make([]Value, 0, len(compatible))
		rt.allowed[v] = NewDomain(max)
		for _, n := range compatible {
			if n < 0 || n >= max {
				return nil, fmt.Errorf("%w: value %d references %d, expected [0, %d)", ErrInvalidRule, v, n, max)
			}
			rt.rules[v] = append(rt.rules[v], Value(n))
			rt.allowed[v].add(Value(n))
		}
	}
	return rt, nil
}

//Len returns the number of domain values (maxDomains)
func (rt *RuleTable) Len() int {
	if rt == nil {
		return 0
	}
	return len(rt.allowed)
}

//Allowed returns the values compatible as a direct neighbour of v
func (rt *RuleTable) Allowed(v Value) Domain {
	if int(v) < 0 || int(v) >= len(rt.allowed) {
		return NewDomain(len(rt.allowed))
	}
	return rt.allowed[v].Clone()
}

//Reachable returns the union of Allowed over every candidate in d.
//This is the set of values a neighbour of a cell with domain d may still take.
func (rt *RuleTable) Reachable(d Domain) Domain {
	r := NewDomain(rt.Len())
	if rt == nil {
		return r
	}
	for _, v := range d.Values() {
		if int(v) < len(rt.allowed) {
			r = r.Union(rt.allowed[v])
		}
	}
	return r
}

//Symmetric reports whether a allows b exactly when b allows a
func (rt *RuleTable) Symmetric() bool {
	for a := range rt.allowed {
		for _, b := range rt.rules[a] {
			if !rt.allowed[b].Has(Value(a)) {
				return false
			}
		}
	}
	return true
}

//Rules returns a copy of the raw rule lists
func (rt *RuleTable) Rules() [][]Value {
	out := make([][]Value, len(rt.rules))
	for i, r := range rt.rules {
		out[i] = append([]Value(nil), r...)
	}
	return out
}
