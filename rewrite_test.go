package gcl_test

import (
	"testing"

	"github.com/benbjohnson/gcl"
	"github.com/google/go-cmp/cmp"
)

func TestRewrite(t *testing.T) {
	x, y := gcl.NewVar("x", 8), gcl.NewVar("y", 8)

	// replaceVar returns a rewrite func substituting k for v.
	replaceVar := func(v *gcl.Var, k gcl.Expr) gcl.RewriteFunc {
		return func(b gcl.Binding) (gcl.Binding, gcl.RewriteAction) {
			if e, ok := b.(*gcl.VarExpr); ok && e.Var == v {
				return k, gcl.RewriteReplace
			}
			return b, gcl.RewriteContinue
		}
	}

	t.Run("Fold", func(t *testing.T) {
		expr := gcl.NewBinaryExpr(gcl.ADD, gcl.NewVarExpr(x), gcl.NewConstantExpr8(2))
		if diff := cmp.Diff(gcl.Rewrite(expr, replaceVar(x, gcl.NewConstantExpr8(3))), gcl.Binding(gcl.NewConstantExpr8(5))); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("Partial", func(t *testing.T) {
		expr := gcl.NewBinaryExpr(gcl.ADD, gcl.NewVarExpr(x), gcl.NewVarExpr(y))
		exp := gcl.NewBinaryExpr(gcl.ADD, gcl.NewConstantExpr8(3), gcl.NewVarExpr(y))
		if diff := cmp.Diff(gcl.Rewrite(expr, replaceVar(x, gcl.NewConstantExpr8(3))), gcl.Binding(exp)); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("Unchanged", func(t *testing.T) {
		expr := gcl.NewBinaryExpr(gcl.ADD, gcl.NewVarExpr(x), gcl.NewVarExpr(y))
		if other := gcl.Rewrite(expr, replaceVar(gcl.NewVar("z", 8), gcl.NewConstantExpr8(1))); other != gcl.Binding(expr) {
			t.Fatalf("expected same expression, got %s", other)
		}
	})

	t.Run("Skip", func(t *testing.T) {
		inner := gcl.NewBinaryExpr(gcl.MUL, gcl.NewVarExpr(x), gcl.NewVarExpr(y))
		expr := gcl.NewBinaryExpr(gcl.SUB, inner, gcl.NewVarExpr(x))
		other := gcl.Rewrite(expr, func(b gcl.Binding) (gcl.Binding, gcl.RewriteAction) {
			if b == gcl.Binding(inner) {
				return b, gcl.RewriteSkip
			}
			return replaceVar(x, gcl.NewConstantExpr8(1))(b)
		})

		exp := gcl.NewBinaryExpr(gcl.SUB, inner, gcl.NewConstantExpr8(1))
		if diff := cmp.Diff(other, gcl.Binding(exp)); diff != "" {
			t.Fatal(diff)
		}
	})

	t.Run("ArrayUpdate", func(t *testing.T) {
		m := gcl.NewMemoryVar("m", 2)
		a := gcl.NewArray(m, 2).Store(gcl.NewConstantExpr64(1), gcl.NewVarExpr(x), true)
		other := gcl.Rewrite(a, replaceVar(x, gcl.NewConstantExpr8(9))).(*gcl.Array)

		if other == a {
			t.Fatal("expected new array")
		} else if got, exp := other.Select(gcl.NewConstantExpr64(1), 8, true), gcl.Expr(gcl.NewConstantExpr8(9)); cmp.Diff(got, exp) != "" {
			t.Fatalf("unexpected byte: %s", got)
		}

		// The original array is untouched.
		if got := a.Select(gcl.NewConstantExpr64(1), 8, true); cmp.Diff(got, gcl.Expr(gcl.NewVarExpr(x))) != "" {
			t.Fatalf("unexpected byte: %s", got)
		}
	})

	// Ensure a read blocked by a symbolic store resolves once the index is known.
	t.Run("SelectResolve", func(t *testing.T) {
		i := gcl.NewVar("i", 64)
		a := gcl.NewArray(gcl.NewMemoryVar("m", 4), 4).Store(gcl.NewVarExpr(i), gcl.NewConstantExpr8(7), true)
		sel := a.Select(gcl.NewConstantExpr64(1), 8, true)
		if _, ok := sel.(*gcl.SelectExpr); !ok {
			t.Fatalf("expected select, got %s", sel)
		}

		other := gcl.Rewrite(sel, replaceVar(i, gcl.NewConstantExpr64(1)))
		if diff := cmp.Diff(other, gcl.Binding(gcl.NewConstantExpr8(7))); diff != "" {
			t.Fatal(diff)
		}
	})
}

func TestWalk(t *testing.T) {
	x := gcl.NewVar("x", 8)
	expr := gcl.NewBinaryExpr(gcl.ULT,
		gcl.NewBinaryExpr(gcl.ADD, gcl.NewVarExpr(x), gcl.NewConstantExpr8(1)),
		gcl.NewConstantExpr8(9),
	)

	var n int
	gcl.Walk(expr, func(b gcl.Binding) bool {
		n++
		return true
	})
	if got, exp := n, 5; got != exp {
		t.Fatalf("visited %d nodes, expected %d", got, exp)
	}

	// Returning false prunes the subtree.
	n = 0
	gcl.Walk(expr, func(b gcl.Binding) bool {
		n++
		return false
	})
	if got, exp := n, 1; got != exp {
		t.Fatalf("visited %d nodes, expected %d", got, exp)
	}
}

func TestFindVars(t *testing.T) {
	x, y := gcl.NewVar("x", 8), gcl.NewVar("y", 64)
	m := gcl.NewMemoryVar("m", 4)

	expr := gcl.NewBinaryExpr(gcl.EQ,
		gcl.NewArray(m, 4).Select(gcl.NewVarExpr(y), 8, true),
		gcl.NewVarExpr(x),
	)
	vars := gcl.FindVars(expr, gcl.NewVarExpr(x))
	if diff := cmp.Diff(vars, []*gcl.Var{x, y, m}); diff != "" {
		t.Fatal(diff)
	}
}

func TestHashBinding(t *testing.T) {
	x := gcl.NewVar("x", 8)
	m := gcl.NewMemoryVar("m", 4)

	newExpr := func(k uint64) gcl.Expr {
		a := gcl.NewArray(m, 4).Store(gcl.NewConstantExpr64(0), gcl.NewVarExpr(x), true)
		return gcl.NewBinaryExpr(gcl.EQ, a.Select(gcl.NewVarExpr(gcl.NewVar("i", 64)), 8, true), gcl.NewConstantExpr8(k))
	}

	t.Run("Equal", func(t *testing.T) {
		a := gcl.NewBinaryExpr(gcl.ADD, gcl.NewVarExpr(x), gcl.NewConstantExpr8(1))
		b := gcl.NewBinaryExpr(gcl.ADD, gcl.NewVarExpr(x), gcl.NewConstantExpr8(1))
		if gcl.HashBinding(a) != gcl.HashBinding(b) {
			t.Fatal("expected equal hashes")
		}
	})

	t.Run("NotEqual", func(t *testing.T) {
		if gcl.HashBinding(newExpr(1)) == gcl.HashBinding(newExpr(2)) {
			t.Fatal("expected different hashes")
		}
	})
}
