package gcl_test

import (
	"strings"
	"testing"

	"github.com/benbjohnson/gcl"
	"github.com/google/go-cmp/cmp"
)

func TestNewAssignStmt(t *testing.T) {
	t.Run("ErrWidthMismatch", func(t *testing.T) {
		defer MustPanic(t)
		gcl.NewAssignStmt(gcl.NewVar("x", 8), gcl.NewConstantExpr16(1))
	})

	t.Run("ErrSizeMismatch", func(t *testing.T) {
		defer MustPanic(t)
		gcl.NewAssignStmt(gcl.NewMemoryVar("m", 4), gcl.NewZeroArray(8))
	})

	t.Run("ErrScalarToMemory", func(t *testing.T) {
		defer MustPanic(t)
		gcl.NewAssignStmt(gcl.NewMemoryVar("m", 1), gcl.NewConstantExpr8(1))
	})
}

func TestNewAssertStmt(t *testing.T) {
	t.Run("ErrNonBoolean", func(t *testing.T) {
		defer MustPanic(t)
		gcl.NewAssertStmt(gcl.NewConstantExpr8(1))
	})
}

func TestFormatProg(t *testing.T) {
	x, y := gcl.NewVar("x", 8), gcl.NewVar("y", 8)
	b := gcl.NewVarExpr(gcl.NewVar("b", gcl.WidthBool))

	t.Run("Ite", func(t *testing.T) {
		p := gcl.Prog{
			gcl.NewAssignStmt(x, gcl.NewConstantExpr8(1)),
			gcl.NewIteStmt(b,
				gcl.Prog{gcl.NewAssertStmt(b)},
				gcl.Prog{gcl.NewAssignStmt(y, gcl.NewVarExpr(x))},
			),
		}
		exp := "x := (const 1 8)\n" +
			"if b {\n" +
			"\tassert b\n" +
			"} else {\n" +
			"\ty := x\n" +
			"}\n"
		if got := gcl.FormatProg(p); got != exp {
			t.Fatalf("unexpected output:\n%s", got)
		} else if got := p.String(); got != exp {
			t.Fatalf("unexpected output:\n%s", got)
		}
	})

	t.Run("NoElse", func(t *testing.T) {
		p := gcl.Prog{gcl.NewIteStmt(b, gcl.Prog{gcl.NewAssertStmt(b)}, nil)}
		if got, exp := gcl.FormatProg(p), "if b {\n\tassert b\n}\n"; got != exp {
			t.Fatalf("unexpected output:\n%s", got)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		if got := gcl.FormatProg(nil); got != "" {
			t.Fatalf("unexpected output: %q", got)
		}
	})

	t.Run("Printer", func(t *testing.T) {
		pr := gcl.Printer{Indent: "  ", Keyword: strings.ToUpper}
		p := gcl.Prog{
			gcl.NewIteStmt(b,
				gcl.Prog{gcl.NewIteStmt(b, gcl.Prog{gcl.NewAssertStmt(b)}, nil)},
				gcl.Prog{gcl.NewAssertStmt(gcl.NewIsZeroExpr(b))},
			),
		}
		exp := "IF b {\n" +
			"  IF b {\n" +
			"    ASSERT b\n" +
			"  }\n" +
			"} ELSE {\n" +
			"  ASSERT (eq (const 0 1) b)\n" +
			"}\n"
		if got := pr.Format(p); got != exp {
			t.Fatalf("unexpected output:\n%s", got)
		}
	})
}

func TestStmt_String(t *testing.T) {
	x := gcl.NewVar("x", 8)
	b := gcl.NewVarExpr(gcl.NewVar("b", gcl.WidthBool))

	for _, tt := range []struct {
		stmt gcl.Stmt
		exp  string
	}{
		{gcl.NewAssignStmt(x, gcl.NewConstantExpr8(2)), `x := (const 2 8)`},
		{gcl.NewAssertStmt(b), `assert b`},
		{
			gcl.NewIteStmt(b,
				gcl.Prog{gcl.NewAssignStmt(x, gcl.NewConstantExpr8(1)), gcl.NewAssertStmt(b)},
				nil,
			),
			`if b { x := (const 1 8); assert b } else {  }`,
		},
		{gcl.NewAssignStmt(gcl.NewMemoryVar("m", 2), gcl.NewZeroArray(2)), `m := (array 2)`},
	} {
		if got := tt.stmt.String(); got != tt.exp {
			t.Errorf("String()=%s, expected %s", got, tt.exp)
		}
	}
}

func TestAssignedVars(t *testing.T) {
	x, y, z := gcl.NewVar("x", 8), gcl.NewVar("y", 8), gcl.NewVar("z", 8)
	b := gcl.NewVarExpr(gcl.NewVar("b", gcl.WidthBool))
	p := gcl.Prog{
		gcl.NewIteStmt(b,
			gcl.Prog{gcl.NewAssignStmt(z, gcl.NewConstantExpr8(1))},
			gcl.Prog{gcl.NewIteStmt(b, nil, gcl.Prog{gcl.NewAssignStmt(x, gcl.NewConstantExpr8(1))})},
		),
		gcl.NewAssignStmt(z, gcl.NewConstantExpr8(2)),
		gcl.NewAssertStmt(gcl.NewBinaryExpr(gcl.EQ, gcl.NewVarExpr(y), gcl.NewVarExpr(z))),
	}
	if diff := cmp.Diff(gcl.AssignedVars(p), []*gcl.Var{x, z}); diff != "" {
		t.Fatal(diff)
	}
}

// MustPanic fails the test if the deferring function did not panic.
func MustPanic(tb testing.TB) {
	tb.Helper()
	if r := recover(); r == nil {
		tb.Fatal("expected panic")
	}
}
