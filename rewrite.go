package gcl

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// RewriteAction tells Rewrite how to proceed after visiting a node.
type RewriteAction int

const (
	// RewriteContinue leaves the node unchanged and descends into its children.
	RewriteContinue RewriteAction = iota

	// RewriteReplace substitutes the returned binding for the node.
	RewriteReplace

	// RewriteSkip keeps the node as-is and does not descend.
	RewriteSkip
)

// RewriteFunc is called for every node visited by Rewrite.
type RewriteFunc func(b Binding) (Binding, RewriteAction)

// Rewrite returns b with substitutions from fn applied bottom-up. Nodes are
// rebuilt through their constructors, so substituted constants fold into
// their parents. The input is never modified and unchanged subtrees are
// returned as-is.
//
// For arrays, fn first sees the whole array. On RewriteContinue it then sees
// the root-only base array followed by every stored index and value.
func Rewrite(b Binding, fn RewriteFunc) Binding {
	if other, action := fn(b); action == RewriteReplace {
		return other
	} else if action == RewriteSkip {
		return b
	}

	switch b := b.(type) {
	case *ConstantExpr, *VarExpr:
		return b

	case *BinaryExpr:
		lhs, rhs := rewriteExpr(b.LHS, fn), rewriteExpr(b.RHS, fn)
		if lhs == b.LHS && rhs == b.RHS {
			return b
		}
		return NewBinaryExpr(b.Op, lhs, rhs)

	case *CastExpr:
		if src := rewriteExpr(b.Src, fn); src != b.Src {
			return NewCastExpr(src, b.Width, b.Signed)
		}
		return b

	case *ConcatExpr:
		msb, lsb := rewriteExpr(b.MSB, fn), rewriteExpr(b.LSB, fn)
		if msb == b.MSB && lsb == b.LSB {
			return b
		}
		return NewConcatExpr(msb, lsb)

	case *ExtractExpr:
		if expr := rewriteExpr(b.Expr, fn); expr != b.Expr {
			return NewExtractExpr(expr, b.Offset, b.Width)
		}
		return b

	case *NotExpr:
		if expr := rewriteExpr(b.Expr, fn); expr != b.Expr {
			return NewNotExpr(expr)
		}
		return b

	case *SelectExpr:
		array := Rewrite(b.Array, fn).(*Array)
		index := rewriteExpr(b.Index, fn)
		if array == b.Array && index == b.Index {
			return b
		}
		return array.selectByte(index)

	case *Array:
		return rewriteArray(b, fn)

	default:
		panic(fmt.Sprintf("unexpected binding: %T", b))
	}
}

func rewriteExpr(expr Expr, fn RewriteFunc) Expr {
	return Rewrite(expr, fn).(Expr)
}

func rewriteArray(a *Array, fn RewriteFunc) *Array {
	if a.Updates == nil {
		return a
	}

	base := a.Base()
	newBase := Rewrite(base, fn).(*Array)
	changed := newBase != base

	updates := a.updates()
	indexes, values := make([]Expr, len(updates)), make([]Expr, len(updates))
	for i, upd := range updates {
		indexes[i], values[i] = rewriteExpr(upd.Index, fn), rewriteExpr(upd.Value, fn)
		changed = changed || indexes[i] != upd.Index || values[i] != upd.Value
	}
	if !changed {
		return a
	}

	other := newBase.Clone()
	for i := len(updates) - 1; i >= 0; i-- {
		other.storeByte(indexes[i], values[i])
	}
	return other
}

// Walk calls fn for b and, while fn returns true, for every node below it in
// pre-order. Arrays visit their base, then each store's index and value.
func Walk(b Binding, fn func(Binding) bool) {
	if !fn(b) {
		return
	}

	switch b := b.(type) {
	case *ConstantExpr, *VarExpr:
	case *BinaryExpr:
		Walk(b.LHS, fn)
		Walk(b.RHS, fn)
	case *CastExpr:
		Walk(b.Src, fn)
	case *ConcatExpr:
		Walk(b.MSB, fn)
		Walk(b.LSB, fn)
	case *ExtractExpr:
		Walk(b.Expr, fn)
	case *NotExpr:
		Walk(b.Expr, fn)
	case *SelectExpr:
		Walk(b.Array, fn)
		Walk(b.Index, fn)
	case *Array:
		if b.Updates == nil {
			return
		}
		Walk(b.Base(), fn)
		for upd := b.Updates; upd != nil; upd = upd.Next {
			Walk(upd.Index, fn)
			Walk(upd.Value, fn)
		}
	default:
		panic(fmt.Sprintf("unexpected binding: %T", b))
	}
}

// FindVars returns every variable referenced by the bindings, ordered by ID.
// Memory variables are found through array roots.
func FindVars(bindings ...Binding) []*Var {
	m := make(map[uint64]*Var)
	for _, b := range bindings {
		Walk(b, func(b Binding) bool {
			switch b := b.(type) {
			case *VarExpr:
				m[b.Var.ID] = b.Var
			case *Array:
				if b.Root != nil {
					m[b.Root.ID] = b.Root
				}
			}
			return true
		})
	}

	a := make([]*Var, 0, len(m))
	for _, v := range m {
		a = append(a, v)
	}
	sort.Slice(a, func(i, j int) bool { return a[i].ID < a[j].ID })
	return a
}

// HashBinding returns a structural hash of b. Bindings that compare equal
// with CompareBinding hash to the same value.
func HashBinding(b Binding) uint64 {
	d := xxhash.New()
	hashBinding(d, b)
	return d.Sum64()
}

func hashBinding(d *xxhash.Digest, b Binding) {
	var buf [17]byte
	write := func(kind byte, x, y uint64) {
		buf[0] = kind
		binary.LittleEndian.PutUint64(buf[1:], x)
		binary.LittleEndian.PutUint64(buf[9:], y)
		d.Write(buf[:])
	}

	switch b := b.(type) {
	case *ConstantExpr:
		write(1, uint64(b.Width), b.Value)
	case *VarExpr:
		write(2, b.Var.ID, uint64(b.Var.Width))
	case *SelectExpr:
		write(3, 0, 0)
		hashBinding(d, b.Index)
		hashBinding(d, b.Array)
	case *ConcatExpr:
		write(4, 0, 0)
		hashBinding(d, b.MSB)
		hashBinding(d, b.LSB)
	case *ExtractExpr:
		write(5, uint64(b.Offset), uint64(b.Width))
		hashBinding(d, b.Expr)
	case *NotExpr:
		write(6, 0, 0)
		hashBinding(d, b.Expr)
	case *CastExpr:
		var signed uint64
		if b.Signed {
			signed = 1
		}
		write(7, uint64(b.Width), signed)
		hashBinding(d, b.Src)
	case *BinaryExpr:
		write(8, uint64(b.Op), 0)
		hashBinding(d, b.LHS)
		hashBinding(d, b.RHS)
	case *Array:
		var root uint64
		if b.Root != nil {
			root = b.Root.ID
		}
		write(9, root, uint64(b.Size))
		for upd := b.Updates; upd != nil; upd = upd.Next {
			hashBinding(d, upd.Index)
			hashBinding(d, upd.Value)
		}
	default:
		panic(fmt.Sprintf("unexpected binding: %T", b))
	}
}
