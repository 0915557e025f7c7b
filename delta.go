package gcl

import (
	"fmt"
	"strings"

	"github.com/benbjohnson/immutable"
)

// Delta is a value context: a mapping from variables to the values known for
// them at a program point. A Delta is a cache. The path condition remains the
// source of truth for every variable, so an implementation may forget any
// binding at any time without affecting soundness.
//
// Implementations are persistent values. Set and Merge return new contexts
// and leave the receiver unchanged.
type Delta[D any] interface {
	// Get returns the value bound to v or ErrNotBound.
	Get(v *Var) (Value, error)

	// GetExpr returns the binding bound to v or ErrNotBound.
	GetExpr(v *Var) (Binding, error)

	// Set returns a context with v bound to value.
	Set(v *Var, value Value) D

	// Simplify substitutes bound variables in b and folds constants.
	Simplify(b Binding) Value

	// Merge returns a context valid at the join of two paths. Only bindings
	// that are identical in both contexts survive.
	Merge(other D) D
}

var (
	_ Delta[MapDelta] = MapDelta{}
	_ Delta[NopDelta] = NopDelta{}
)

// MapDelta is a Delta backed by a persistent sorted map.
// The zero value is an empty context.
type MapDelta struct {
	m *immutable.SortedMap[*Var, Value]
}

// NewMapDelta returns an empty MapDelta.
func NewMapDelta() MapDelta {
	return MapDelta{m: immutable.NewSortedMap[*Var, Value](varComparer{})}
}

// Len returns the number of bound variables.
func (d MapDelta) Len() int {
	if d.m == nil {
		return 0
	}
	return d.m.Len()
}

// Get returns the value bound to v.
func (d MapDelta) Get(v *Var) (Value, error) {
	if d.m != nil {
		if value, ok := d.m.Get(v); ok {
			return value, nil
		}
	}
	return Value{}, fmt.Errorf("%w: %s", ErrNotBound, v)
}

// GetExpr returns the binding bound to v.
func (d MapDelta) GetExpr(v *Var) (Binding, error) {
	value, err := d.Get(v)
	if err != nil {
		return nil, err
	}
	return value.Binding, nil
}

// Set returns a new context with v bound to value.
func (d MapDelta) Set(v *Var, value Value) MapDelta {
	if d.m == nil {
		d = NewMapDelta()
	}
	return MapDelta{m: d.m.Set(v, value)}
}

// Simplify substitutes bound variables in b and folds constants.
func (d MapDelta) Simplify(b Binding) Value {
	return simplify(b, func(v *Var) (Value, bool) {
		if d.m == nil {
			return Value{}, false
		}
		return d.m.Get(v)
	})
}

// Merge returns the intersection of identical bindings in d and other.
func (d MapDelta) Merge(other MapDelta) MapDelta {
	if d.m == other.m {
		return d
	} else if d.Len() == 0 || other.Len() == 0 {
		return NewMapDelta()
	}

	b := immutable.NewSortedMapBuilder[*Var, Value](varComparer{})
	itr := d.m.Iterator()
	for !itr.Done() {
		v, value, _ := itr.Next()
		if o, ok := other.m.Get(v); ok && value.Equal(o) {
			b.Set(v, value)
		}
	}
	return MapDelta{m: b.Map()}
}

// Vars returns the bound variables ordered by ID.
func (d MapDelta) Vars() []*Var {
	if d.m == nil {
		return nil
	}
	a := make([]*Var, 0, d.m.Len())
	itr := d.m.Iterator()
	for !itr.Done() {
		v, _, _ := itr.Next()
		a = append(a, v)
	}
	return a
}

// String returns the bindings as a sorted list.
func (d MapDelta) String() string {
	var buf strings.Builder
	buf.WriteByte('{')
	for i, v := range d.Vars() {
		value, _ := d.m.Get(v)
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "%s: %s", v, value.Binding)
	}
	buf.WriteByte('}')
	return buf.String()
}

// NopDelta is a Delta that never retains a binding. Simplify still folds
// constants. It is useful as a baseline: evaluation results under NopDelta
// rely on the path condition alone.
type NopDelta struct{}

// Get always returns ErrNotBound.
func (NopDelta) Get(v *Var) (Value, error) {
	return Value{}, fmt.Errorf("%w: %s", ErrNotBound, v)
}

// GetExpr always returns ErrNotBound.
func (NopDelta) GetExpr(v *Var) (Binding, error) {
	return nil, fmt.Errorf("%w: %s", ErrNotBound, v)
}

// Set discards the binding.
func (NopDelta) Set(v *Var, value Value) NopDelta { return NopDelta{} }

// Simplify folds constants in b.
func (NopDelta) Simplify(b Binding) Value {
	return simplify(b, func(*Var) (Value, bool) { return Value{}, false })
}

// Merge returns an empty context.
func (NopDelta) Merge(other NopDelta) NopDelta { return NopDelta{} }

// simplify rewrites b, replacing scalar variables and memory roots found by
// lookup with their bound values.
func simplify(b Binding, lookup func(*Var) (Value, bool)) Value {
	out := Rewrite(b, func(b Binding) (Binding, RewriteAction) {
		switch b := b.(type) {
		case *ConstantExpr:
			return b, RewriteSkip
		case *VarExpr:
			if value, ok := lookup(b.Var); ok {
				return value.Binding, RewriteReplace
			}
			return b, RewriteSkip
		case *Array:
			if b.Updates != nil || b.Root == nil {
				return b, RewriteContinue
			} else if value, ok := lookup(b.Root); ok {
				return value.Binding, RewriteReplace
			}
			return b, RewriteSkip
		}
		return b, RewriteContinue
	})
	return ValueOf(out)
}
