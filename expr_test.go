package gcl_test

import (
	"testing"

	"github.com/benbjohnson/gcl"
	"github.com/google/go-cmp/cmp"
)

func TestExprWidth(t *testing.T) {
	t.Run("ConstantExpr", func(t *testing.T) {
		if w := gcl.ExprWidth(&gcl.ConstantExpr{Value: 0, Width: 8}); w != 8 {
			t.Fatalf("unexpected width: %d", w)
		}
	})
	t.Run("VarExpr", func(t *testing.T) {
		if w := gcl.ExprWidth(gcl.NewVarExpr(gcl.NewVar("x", 16))); w != 16 {
			t.Fatalf("unexpected width: %d", w)
		}
	})
	t.Run("SelectExpr", func(t *testing.T) {
		if w := gcl.ExprWidth(&gcl.SelectExpr{}); w != 8 {
			t.Fatalf("unexpected width: %d", w)
		}
	})
	t.Run("ConcatExpr", func(t *testing.T) {
		if w := gcl.ExprWidth(&gcl.ConcatExpr{
			MSB: &gcl.ConstantExpr{Value: 0, Width: 8},
			LSB: &gcl.ConstantExpr{Value: 0, Width: 16},
		}); w != 24 {
			t.Fatalf("unexpected width: %d", w)
		}
	})
	t.Run("ExtractExpr", func(t *testing.T) {
		if w := gcl.ExprWidth(&gcl.ExtractExpr{
			Expr:   &gcl.ConstantExpr{Value: 0, Width: 32},
			Offset: 8,
			Width:  16,
		}); w != 16 {
			t.Fatalf("unexpected width: %d", w)
		}
	})
	t.Run("NotExpr", func(t *testing.T) {
		if w := gcl.ExprWidth(&gcl.NotExpr{Expr: &gcl.ConstantExpr{Value: 0, Width: 8}}); w != 8 {
			t.Fatalf("unexpected width: %d", w)
		}
	})
	t.Run("CastExpr", func(t *testing.T) {
		if w := gcl.ExprWidth(&gcl.CastExpr{Src: &gcl.ConstantExpr{Value: 0, Width: 8}, Width: 16}); w != 16 {
			t.Fatalf("unexpected width: %d", w)
		}
	})
	t.Run("BinaryExpr", func(t *testing.T) {
		t.Run("Bool", func(t *testing.T) {
			if w := gcl.ExprWidth(&gcl.BinaryExpr{
				Op:  gcl.EQ,
				LHS: &gcl.ConstantExpr{Value: 0, Width: 8},
				RHS: &gcl.ConstantExpr{Value: 0, Width: 8},
			}); w != 1 {
				t.Fatalf("unexpected width: %d", w)
			}
		})
		t.Run("NonBool", func(t *testing.T) {
			if w := gcl.ExprWidth(&gcl.BinaryExpr{
				Op:  gcl.ADD,
				LHS: &gcl.ConstantExpr{Value: 0, Width: 8},
				RHS: &gcl.ConstantExpr{Value: 0, Width: 8},
			}); w != 8 {
				t.Fatalf("unexpected width: %d", w)
			}
		})
	})
}

func TestBinaryOp_String(t *testing.T) {
	t.Run("Known", func(t *testing.T) {
		if s := gcl.ADD.String(); s != "add" {
			t.Fatalf("unexpected string: %s", s)
		}
	})
	t.Run("Unknown", func(t *testing.T) {
		if s := gcl.BinaryOp(100).String(); s != "BinaryOp<100>" {
			t.Fatalf("unexpected string: %s", s)
		}
	})
}

func TestBinaryOp_IsArithmetic(t *testing.T) {
	if !gcl.ADD.IsArithmetic() {
		t.Fatal("expected true")
	} else if gcl.EQ.IsArithmetic() {
		t.Fatal("expected false")
	}
}

func TestBinaryOp_IsCompare(t *testing.T) {
	if !gcl.ULT.IsCompare() {
		t.Fatal("expected true")
	} else if gcl.SUB.IsCompare() {
		t.Fatal("expected false")
	}
}

func TestBinaryExpr_String(t *testing.T) {
	expr := &gcl.BinaryExpr{Op: gcl.ADD, LHS: gcl.NewConstantExpr(0, 32), RHS: gcl.NewConstantExpr(1, 32)}
	if s := expr.String(); s != "(add (const 0 32) (const 1 32))" {
		t.Fatalf("unexpected string: %s", s)
	}
}

func TestNewBinaryExpr_ADD(t *testing.T) {
	x := gcl.NewVarExpr(gcl.NewVar("x", 8))

	t.Run("Constant", func(t *testing.T) {
		if diff := cmp.Diff(
			gcl.NewBinaryExpr(gcl.ADD, gcl.NewConstantExpr8(6), gcl.NewConstantExpr8(4)),
			gcl.Expr(gcl.NewConstantExpr8(10)),
		); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("Overflow", func(t *testing.T) {
		if diff := cmp.Diff(
			gcl.NewBinaryExpr(gcl.ADD, gcl.NewConstantExpr8(250), gcl.NewConstantExpr8(10)),
			gcl.Expr(gcl.NewConstantExpr8(4)),
		); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("Zero", func(t *testing.T) {
		if diff := cmp.Diff(gcl.NewBinaryExpr(gcl.ADD, gcl.NewConstantExpr8(0), x), gcl.Expr(x)); diff != "" {
			t.Fatal(diff)
		} else if diff := cmp.Diff(gcl.NewBinaryExpr(gcl.ADD, x, gcl.NewConstantExpr8(0)), gcl.Expr(x)); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("ConstantBool", func(t *testing.T) {
		if diff := cmp.Diff(
			gcl.NewBinaryExpr(gcl.ADD, gcl.NewBoolConstantExpr(true), gcl.NewBoolConstantExpr(true)),
			gcl.Expr(gcl.NewBoolConstantExpr(false)),
		); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("ConstantRHS", func(t *testing.T) {
		if diff := cmp.Diff(
			gcl.NewBinaryExpr(gcl.ADD, x, gcl.NewConstantExpr8(2)),
			gcl.Expr(&gcl.BinaryExpr{Op: gcl.ADD, LHS: gcl.NewConstantExpr8(2), RHS: x}),
		); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("Associative", func(t *testing.T) {
		t.Run("ADD", func(t *testing.T) {
			if diff := cmp.Diff(
				gcl.NewBinaryExpr(gcl.ADD,
					gcl.NewConstantExpr8(1),
					&gcl.BinaryExpr{Op: gcl.ADD, LHS: gcl.NewConstantExpr8(3), RHS: x},
				),
				gcl.Expr(&gcl.BinaryExpr{Op: gcl.ADD, LHS: gcl.NewConstantExpr8(4), RHS: x}),
			); diff != "" {
				t.Fatal(diff)
			}
		})
		t.Run("SUB", func(t *testing.T) {
			if diff := cmp.Diff(
				gcl.NewBinaryExpr(gcl.ADD,
					gcl.NewConstantExpr8(1),
					&gcl.BinaryExpr{Op: gcl.SUB, LHS: gcl.NewConstantExpr8(3), RHS: x},
				),
				gcl.Expr(&gcl.BinaryExpr{Op: gcl.SUB, LHS: gcl.NewConstantExpr8(4), RHS: x}),
			); diff != "" {
				t.Fatal(diff)
			}
		})
	})
}

func TestNewBinaryExpr_SUB(t *testing.T) {
	x := gcl.NewVarExpr(gcl.NewVar("x", 8))

	t.Run("Constant", func(t *testing.T) {
		if diff := cmp.Diff(
			gcl.NewBinaryExpr(gcl.SUB, gcl.NewConstantExpr8(6), gcl.NewConstantExpr8(4)),
			gcl.Expr(gcl.NewConstantExpr8(2)),
		); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("EqualExprs", func(t *testing.T) {
		if diff := cmp.Diff(gcl.NewBinaryExpr(gcl.SUB, x, x), gcl.Expr(gcl.NewConstantExpr8(0))); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("ConstantRHS", func(t *testing.T) {
		if diff := cmp.Diff(
			gcl.NewBinaryExpr(gcl.SUB, x, gcl.NewConstantExpr8(2)),
			gcl.Expr(&gcl.BinaryExpr{Op: gcl.ADD, LHS: gcl.NewConstantExpr8(254), RHS: x}),
		); diff != "" {
			t.Fatal(diff)
		}
	})
}

func TestNewBinaryExpr_MUL(t *testing.T) {
	x := gcl.NewVarExpr(gcl.NewVar("x", 8))

	t.Run("Constant", func(t *testing.T) {
		if diff := cmp.Diff(
			gcl.NewBinaryExpr(gcl.MUL, gcl.NewConstantExpr8(3), gcl.NewConstantExpr8(4)),
			gcl.Expr(gcl.NewConstantExpr8(12)),
		); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("One", func(t *testing.T) {
		if diff := cmp.Diff(gcl.NewBinaryExpr(gcl.MUL, x, gcl.NewConstantExpr8(1)), gcl.Expr(x)); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("Zero", func(t *testing.T) {
		if diff := cmp.Diff(
			gcl.NewBinaryExpr(gcl.MUL, x, gcl.NewConstantExpr8(0)),
			gcl.Expr(gcl.NewConstantExpr8(0)),
		); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("Symbolic", func(t *testing.T) {
		y := gcl.NewVarExpr(gcl.NewVar("y", 8))
		if diff := cmp.Diff(
			gcl.NewBinaryExpr(gcl.MUL, x, y),
			gcl.Expr(&gcl.BinaryExpr{Op: gcl.MUL, LHS: x, RHS: y}),
		); diff != "" {
			t.Fatal(diff)
		}
	})
}

func TestNewBinaryExpr_DivRem(t *testing.T) {
	x := gcl.NewVarExpr(gcl.NewVar("x", 8))

	for _, tt := range []struct {
		name     string
		op       gcl.BinaryOp
		lhs, rhs uint64
		exp      uint64
	}{
		{"UDIV", gcl.UDIV, 200, 7, 28},
		{"UDIVByZero", gcl.UDIV, 7, 0, 0xFF},
		{"UREM", gcl.UREM, 200, 7, 4},
		{"UREMByZero", gcl.UREM, 7, 0, 7},
		{"SDIV", gcl.SDIV, 0xF6, 3, 0xFD},     // -10 / 3 = -3
		{"SDIVByZero", gcl.SDIV, 0xF6, 0, 1},  // -(all ones)
		{"SREM", gcl.SREM, 0xF6, 3, 0xFF},     // -10 % 3 = -1
		{"SREMByZero", gcl.SREM, 0xF6, 0, 0xF6},
		{"SDIVMin", gcl.SDIV, 0x80, 0xFF, 0x80}, // MinInt8 / -1 wraps
	} {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(
				gcl.NewBinaryExpr(tt.op, gcl.NewConstantExpr8(tt.lhs), gcl.NewConstantExpr8(tt.rhs)),
				gcl.Expr(gcl.NewConstantExpr8(tt.exp)),
			); diff != "" {
				t.Fatal(diff)
			}
		})
	}

	t.Run("DivideByOne", func(t *testing.T) {
		if diff := cmp.Diff(gcl.NewBinaryExpr(gcl.UDIV, x, gcl.NewConstantExpr8(1)), gcl.Expr(x)); diff != "" {
			t.Fatal(diff)
		} else if diff := cmp.Diff(gcl.NewBinaryExpr(gcl.SREM, x, gcl.NewConstantExpr8(1)), gcl.Expr(gcl.NewConstantExpr8(0))); diff != "" {
			t.Fatal(diff)
		}
	})
}

func TestNewBinaryExpr_Bitwise(t *testing.T) {
	x := gcl.NewVarExpr(gcl.NewVar("x", 8))

	t.Run("AND", func(t *testing.T) {
		if diff := cmp.Diff(gcl.NewBinaryExpr(gcl.AND, x, x), gcl.Expr(x)); diff != "" {
			t.Fatal(diff)
		} else if diff := cmp.Diff(gcl.NewBinaryExpr(gcl.AND, x, gcl.NewConstantExpr8(0xFF)), gcl.Expr(x)); diff != "" {
			t.Fatal(diff)
		} else if diff := cmp.Diff(gcl.NewBinaryExpr(gcl.AND, gcl.NewConstantExpr8(0), x), gcl.Expr(gcl.NewConstantExpr8(0))); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("OR", func(t *testing.T) {
		if diff := cmp.Diff(gcl.NewBinaryExpr(gcl.OR, x, x), gcl.Expr(x)); diff != "" {
			t.Fatal(diff)
		} else if diff := cmp.Diff(gcl.NewBinaryExpr(gcl.OR, x, gcl.NewConstantExpr8(0)), gcl.Expr(x)); diff != "" {
			t.Fatal(diff)
		} else if diff := cmp.Diff(gcl.NewBinaryExpr(gcl.OR, x, gcl.NewConstantExpr8(0xFF)), gcl.Expr(gcl.NewConstantExpr8(0xFF))); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("BoolIdentity", func(t *testing.T) {
		cond := gcl.NewBinaryExpr(gcl.EQ, x, gcl.NewConstantExpr8(0))
		if diff := cmp.Diff(gcl.NewBinaryExpr(gcl.AND, gcl.NewBoolConstantExpr(true), cond), cond); diff != "" {
			t.Fatal(diff)
		} else if diff := cmp.Diff(gcl.NewBinaryExpr(gcl.AND, cond, gcl.NewBoolConstantExpr(true)), cond); diff != "" {
			t.Fatal(diff)
		} else if diff := cmp.Diff(gcl.NewBinaryExpr(gcl.OR, gcl.NewBoolConstantExpr(false), cond), cond); diff != "" {
			t.Fatal(diff)
		} else if diff := cmp.Diff(gcl.NewOrExpr(cond), cond); diff != "" {
			t.Fatal(diff)
		} else if diff := cmp.Diff(gcl.NewAndExpr(cond), cond); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("XOR", func(t *testing.T) {
		if diff := cmp.Diff(gcl.NewBinaryExpr(gcl.XOR, x, x), gcl.Expr(gcl.NewConstantExpr8(0))); diff != "" {
			t.Fatal(diff)
		} else if diff := cmp.Diff(gcl.NewBinaryExpr(gcl.XOR, gcl.NewConstantExpr8(0), x), gcl.Expr(x)); diff != "" {
			t.Fatal(diff)
		} else if diff := cmp.Diff(
			gcl.NewBinaryExpr(gcl.XOR, gcl.NewConstantExpr8(0x0F), gcl.NewConstantExpr8(0xFF)),
			gcl.Expr(gcl.NewConstantExpr8(0xF0)),
		); diff != "" {
			t.Fatal(diff)
		}
	})
}

func TestNewBinaryExpr_Shift(t *testing.T) {
	x := gcl.NewVarExpr(gcl.NewVar("x", 8))

	for _, tt := range []struct {
		name     string
		op       gcl.BinaryOp
		lhs, rhs uint64
		exp      uint64
	}{
		{"SHL", gcl.SHL, 1, 3, 8},
		{"SHLOverflow", gcl.SHL, 1, 8, 0},
		{"LSHR", gcl.LSHR, 0x80, 3, 0x10},
		{"LSHROverflow", gcl.LSHR, 0x80, 200, 0},
		{"ASHR", gcl.ASHR, 0x80, 3, 0xF0},
		{"ASHROverflow", gcl.ASHR, 0x80, 200, 0xFF},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(
				gcl.NewBinaryExpr(tt.op, gcl.NewConstantExpr8(tt.lhs), gcl.NewConstantExpr8(tt.rhs)),
				gcl.Expr(gcl.NewConstantExpr8(tt.exp)),
			); diff != "" {
				t.Fatal(diff)
			}
		})
	}

	t.Run("ZeroAmount", func(t *testing.T) {
		if diff := cmp.Diff(gcl.NewBinaryExpr(gcl.SHL, x, gcl.NewConstantExpr8(0)), gcl.Expr(x)); diff != "" {
			t.Fatal(diff)
		}
	})
}

func TestNewBinaryExpr_EQ(t *testing.T) {
	x := gcl.NewVarExpr(gcl.NewVar("x", 8))
	b := gcl.NewVarExpr(gcl.NewVar("b", gcl.WidthBool))

	t.Run("Constant", func(t *testing.T) {
		if !gcl.IsConstantTrue(gcl.NewBinaryExpr(gcl.EQ, gcl.NewConstantExpr8(5), gcl.NewConstantExpr8(5))) {
			t.Fatal("expected true")
		} else if !gcl.IsConstantFalse(gcl.NewBinaryExpr(gcl.EQ, gcl.NewConstantExpr8(5), gcl.NewConstantExpr8(6))) {
			t.Fatal("expected false")
		}
	})
	t.Run("SymbolicEqual", func(t *testing.T) {
		if !gcl.IsConstantTrue(gcl.NewBinaryExpr(gcl.EQ, x, x)) {
			t.Fatal("expected true")
		}
	})
	t.Run("ConstantLeft", func(t *testing.T) {
		if diff := cmp.Diff(
			gcl.NewBinaryExpr(gcl.EQ, x, gcl.NewConstantExpr8(5)),
			gcl.Expr(&gcl.BinaryExpr{Op: gcl.EQ, LHS: gcl.NewConstantExpr8(5), RHS: x}),
		); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("True", func(t *testing.T) {
		if diff := cmp.Diff(gcl.NewBinaryExpr(gcl.EQ, gcl.NewBoolConstantExpr(true), b), gcl.Expr(b)); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("AddConstant", func(t *testing.T) {
		// 10 == 3 + x => 7 == x
		if diff := cmp.Diff(
			gcl.NewBinaryExpr(gcl.EQ, gcl.NewConstantExpr8(10), gcl.NewBinaryExpr(gcl.ADD, gcl.NewConstantExpr8(3), x)),
			gcl.Expr(&gcl.BinaryExpr{Op: gcl.EQ, LHS: gcl.NewConstantExpr8(7), RHS: x}),
		); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("Cast", func(t *testing.T) {
		t.Run("Fits", func(t *testing.T) {
			if diff := cmp.Diff(
				gcl.NewBinaryExpr(gcl.EQ, gcl.NewConstantExpr32(5), gcl.NewCastExpr(x, 32, false)),
				gcl.Expr(&gcl.BinaryExpr{Op: gcl.EQ, LHS: gcl.NewConstantExpr8(5), RHS: x}),
			); diff != "" {
				t.Fatal(diff)
			}
		})
		t.Run("OutOfRange", func(t *testing.T) {
			if !gcl.IsConstantFalse(gcl.NewBinaryExpr(gcl.EQ, gcl.NewConstantExpr32(300), gcl.NewCastExpr(x, 32, false))) {
				t.Fatal("expected false")
			}
		})
		t.Run("Signed", func(t *testing.T) {
			if diff := cmp.Diff(
				gcl.NewBinaryExpr(gcl.EQ, gcl.NewConstantExpr32(0xFFFFFFFF), gcl.NewCastExpr(x, 32, true)),
				gcl.Expr(&gcl.BinaryExpr{Op: gcl.EQ, LHS: gcl.NewConstantExpr8(0xFF), RHS: x}),
			); diff != "" {
				t.Fatal(diff)
			}
		})
	})
}

func TestNewBinaryExpr_NE(t *testing.T) {
	x := gcl.NewVarExpr(gcl.NewVar("x", 8))

	if !gcl.IsConstantTrue(gcl.NewBinaryExpr(gcl.NE, gcl.NewConstantExpr8(1), gcl.NewConstantExpr8(2))) {
		t.Fatal("expected true")
	}
	if diff := cmp.Diff(
		gcl.NewBinaryExpr(gcl.NE, x, gcl.NewConstantExpr8(5)),
		gcl.Expr(&gcl.BinaryExpr{
			Op:  gcl.EQ,
			LHS: gcl.NewBoolConstantExpr(false),
			RHS: &gcl.BinaryExpr{Op: gcl.EQ, LHS: gcl.NewConstantExpr8(5), RHS: x},
		}),
	); diff != "" {
		t.Fatal(diff)
	}
}

func TestNewBinaryExpr_Compare(t *testing.T) {
	x := gcl.NewVarExpr(gcl.NewVar("x", 8))

	t.Run("Constant", func(t *testing.T) {
		if !gcl.IsConstantTrue(gcl.NewBinaryExpr(gcl.ULT, gcl.NewConstantExpr8(1), gcl.NewConstantExpr8(0xFF))) {
			t.Fatal("expected ult true")
		} else if !gcl.IsConstantFalse(gcl.NewBinaryExpr(gcl.SLT, gcl.NewConstantExpr8(1), gcl.NewConstantExpr8(0xFF))) {
			t.Fatal("expected slt false")
		} else if !gcl.IsConstantTrue(gcl.NewBinaryExpr(gcl.SGE, gcl.NewConstantExpr8(0), gcl.NewConstantExpr8(0x80))) {
			t.Fatal("expected sge true")
		}
	})
	t.Run("Swap", func(t *testing.T) {
		if diff := cmp.Diff(
			gcl.NewBinaryExpr(gcl.UGT, x, gcl.NewConstantExpr8(5)),
			gcl.Expr(&gcl.BinaryExpr{Op: gcl.ULT, LHS: gcl.NewConstantExpr8(5), RHS: x}),
		); diff != "" {
			t.Fatal(diff)
		} else if diff := cmp.Diff(
			gcl.NewBinaryExpr(gcl.SGE, x, gcl.NewConstantExpr8(5)),
			gcl.Expr(&gcl.BinaryExpr{Op: gcl.SLE, LHS: gcl.NewConstantExpr8(5), RHS: x}),
		); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("Reflexive", func(t *testing.T) {
		if !gcl.IsConstantFalse(gcl.NewBinaryExpr(gcl.SLT, x, x)) {
			t.Fatal("expected false")
		} else if !gcl.IsConstantTrue(gcl.NewBinaryExpr(gcl.ULE, x, x)) {
			t.Fatal("expected true")
		}
	})
}

func TestNewConcatExpr(t *testing.T) {
	t.Run("Constant", func(t *testing.T) {
		if diff := cmp.Diff(
			gcl.NewConcatExpr(gcl.NewConstantExpr8(0xAA), gcl.NewConstantExpr8(0xBB)),
			gcl.Expr(gcl.NewConstantExpr16(0xAABB)),
		); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("ContiguousExtracts", func(t *testing.T) {
		y := gcl.NewVarExpr(gcl.NewVar("y", 16))
		if diff := cmp.Diff(
			gcl.NewConcatExpr(gcl.NewExtractExpr(y, 8, 8), gcl.NewExtractExpr(y, 0, 8)),
			gcl.Expr(y),
		); diff != "" {
			t.Fatal(diff)
		}
	})
}

func TestNewExtractExpr(t *testing.T) {
	x, z := gcl.NewVarExpr(gcl.NewVar("x", 8)), gcl.NewVarExpr(gcl.NewVar("z", 8))
	y := gcl.NewVarExpr(gcl.NewVar("y", 16))
	concat := &gcl.ConcatExpr{MSB: x, LSB: z}

	t.Run("Constant", func(t *testing.T) {
		if diff := cmp.Diff(gcl.NewExtractExpr(gcl.NewConstantExpr16(0xAABB), 8, 8), gcl.Expr(gcl.NewConstantExpr8(0xAA))); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("FullWidth", func(t *testing.T) {
		if diff := cmp.Diff(gcl.NewExtractExpr(y, 0, 16), gcl.Expr(y)); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("ConcatMSB", func(t *testing.T) {
		if diff := cmp.Diff(gcl.NewExtractExpr(concat, 8, 8), gcl.Expr(x)); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("ConcatLSB", func(t *testing.T) {
		if diff := cmp.Diff(gcl.NewExtractExpr(concat, 0, 8), gcl.Expr(z)); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("ConcatStraddle", func(t *testing.T) {
		if diff := cmp.Diff(
			gcl.NewExtractExpr(concat, 4, 8),
			gcl.Expr(&gcl.ConcatExpr{
				MSB: &gcl.ExtractExpr{Expr: x, Offset: 0, Width: 4},
				LSB: &gcl.ExtractExpr{Expr: z, Offset: 4, Width: 4},
			}),
		); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("Nested", func(t *testing.T) {
		if diff := cmp.Diff(
			gcl.NewExtractExpr(gcl.NewExtractExpr(y, 4, 8), 2, 4),
			gcl.Expr(&gcl.ExtractExpr{Expr: y, Offset: 6, Width: 4}),
		); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("Cast", func(t *testing.T) {
		if diff := cmp.Diff(gcl.NewExtractExpr(gcl.NewCastExpr(x, 32, true), 0, 8), gcl.Expr(x)); diff != "" {
			t.Fatal(diff)
		}
	})
}

func TestNewCastExpr(t *testing.T) {
	y := gcl.NewVarExpr(gcl.NewVar("y", 16))

	t.Run("SameWidth", func(t *testing.T) {
		if diff := cmp.Diff(gcl.NewCastExpr(y, 16, false), gcl.Expr(y)); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("Truncate", func(t *testing.T) {
		if diff := cmp.Diff(gcl.NewCastExpr(y, 8, false), gcl.Expr(&gcl.ExtractExpr{Expr: y, Offset: 0, Width: 8})); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("SignExtendConstant", func(t *testing.T) {
		if diff := cmp.Diff(gcl.NewCastExpr(gcl.NewConstantExpr8(0x80), 16, true), gcl.Expr(gcl.NewConstantExpr16(0xFF80))); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("ZeroExtendConstant", func(t *testing.T) {
		if diff := cmp.Diff(gcl.NewCastExpr(gcl.NewConstantExpr8(0x80), 16, false), gcl.Expr(gcl.NewConstantExpr16(0x80))); diff != "" {
			t.Fatal(diff)
		}
	})
	t.Run("String", func(t *testing.T) {
		if s := gcl.NewCastExpr(y, 32, true).String(); s != "(sext y 32)" {
			t.Fatalf("unexpected string: %s", s)
		}
	})
}

func TestNewNotExpr(t *testing.T) {
	x := gcl.NewVarExpr(gcl.NewVar("x", 8))
	if diff := cmp.Diff(gcl.NewNotExpr(gcl.NewNotExpr(x)), gcl.Expr(x)); diff != "" {
		t.Fatal(diff)
	} else if diff := cmp.Diff(gcl.NewNotExpr(gcl.NewConstantExpr8(0x0F)), gcl.Expr(gcl.NewConstantExpr8(0xF0))); diff != "" {
		t.Fatal(diff)
	}
}

func TestNewAndExpr(t *testing.T) {
	b := gcl.NewVarExpr(gcl.NewVar("b", gcl.WidthBool))

	if !gcl.IsConstantTrue(gcl.NewAndExpr()) {
		t.Fatal("expected empty conjunction to be true")
	} else if !gcl.IsConstantFalse(gcl.NewOrExpr()) {
		t.Fatal("expected empty disjunction to be false")
	} else if !gcl.IsConstantFalse(gcl.NewAndExpr(b, gcl.NewBoolConstantExpr(false))) {
		t.Fatal("expected false")
	} else if diff := cmp.Diff(gcl.NewAndExpr(gcl.NewBoolConstantExpr(true), b), gcl.Expr(b)); diff != "" {
		t.Fatal(diff)
	}
}

func TestCompareExpr(t *testing.T) {
	x, y := gcl.NewVarExpr(gcl.NewVar("x", 8)), gcl.NewVarExpr(gcl.NewVar("y", 8))

	t.Run("nil", func(t *testing.T) {
		if cmp := gcl.CompareExpr(nil, x); cmp != -1 {
			t.Fatalf("unexpected result: %d", cmp)
		} else if cmp := gcl.CompareExpr(x, nil); cmp != 1 {
			t.Fatalf("unexpected result: %d", cmp)
		} else if cmp := gcl.CompareExpr(nil, nil); cmp != 0 {
			t.Fatalf("unexpected result: %d", cmp)
		}
	})
	t.Run("Kind", func(t *testing.T) {
		if cmp := gcl.CompareExpr(gcl.NewConstantExpr8(100), x); cmp != -1 {
			t.Fatalf("unexpected result: %d", cmp)
		}
	})
	t.Run("Var", func(t *testing.T) {
		if cmp := gcl.CompareExpr(x, y); cmp != -1 {
			t.Fatalf("unexpected result: %d", cmp)
		} else if cmp := gcl.CompareExpr(x, gcl.NewVarExpr(x.Var)); cmp != 0 {
			t.Fatalf("unexpected result: %d", cmp)
		}
	})
	t.Run("Binary", func(t *testing.T) {
		a := &gcl.BinaryExpr{Op: gcl.ADD, LHS: x, RHS: y}
		b := &gcl.BinaryExpr{Op: gcl.ADD, LHS: x, RHS: x}
		if cmp := gcl.CompareExpr(a, b); cmp != 1 {
			t.Fatalf("unexpected result: %d", cmp)
		}
	})
}
