package gcl

import (
	"fmt"
)

// Expr represents an immutable bit-vector expression.
type Expr interface {
	Binding
	expr()
}

func (*BinaryExpr) expr()   {}
func (*CastExpr) expr()     {}
func (*ConcatExpr) expr()   {}
func (*ConstantExpr) expr() {}
func (*ExtractExpr) expr()  {}
func (*NotExpr) expr()      {}
func (*SelectExpr) expr()   {}
func (*VarExpr) expr()      {}

// ExprWidth returns the bit width of the expression.
func ExprWidth(expr Expr) uint {
	switch expr := expr.(type) {
	case *ConstantExpr:
		return expr.Width
	case *VarExpr:
		return expr.Var.Width
	case *SelectExpr:
		return Width8
	case *ConcatExpr:
		return ExprWidth(expr.MSB) + ExprWidth(expr.LSB)
	case *ExtractExpr:
		return expr.Width
	case *NotExpr:
		return ExprWidth(expr.Expr)
	case *CastExpr:
		return expr.Width
	case *BinaryExpr:
		if expr.Op.IsCompare() {
			return WidthBool
		}
		return ExprWidth(expr.LHS)
	default:
		panic(fmt.Sprintf("unexpected expr: %T", expr))
	}
}

// BinaryOp represents a binary expression operation.
type BinaryOp int

// BinaryExpr operations.
const (
	arithmetic_op_begin = BinaryOp(iota)
	ADD
	SUB
	MUL
	UDIV
	SDIV
	UREM
	SREM
	AND
	OR
	XOR
	SHL
	LSHR
	ASHR
	arithmetic_op_end

	compare_op_begin
	EQ
	NE
	ULT
	ULE
	UGT
	UGE
	SLT
	SLE
	SGT
	SGE
	compare_op_end
)

var binaryOps = [...]string{
	ADD:  "add",
	SUB:  "sub",
	MUL:  "mul",
	UDIV: "udiv",
	SDIV: "sdiv",
	UREM: "urem",
	SREM: "srem",
	AND:  "and",
	OR:   "or",
	XOR:  "xor",
	SHL:  "shl",
	LSHR: "lshr",
	ASHR: "ashr",
	EQ:   "eq",
	NE:   "ne",
	ULT:  "ult",
	ULE:  "ule",
	UGT:  "ugt",
	UGE:  "uge",
	SLT:  "slt",
	SLE:  "sle",
	SGT:  "sgt",
	SGE:  "sge",
}

// String returns the string representation of the operation.
func (op BinaryOp) String() string {
	if op >= 0 && op < BinaryOp(len(binaryOps)) && binaryOps[op] != "" {
		return binaryOps[op]
	}
	return fmt.Sprintf("BinaryOp<%d>", op)
}

// IsArithmetic returns true if op is an arithmetic operator.
func (op BinaryOp) IsArithmetic() bool {
	return op > arithmetic_op_begin && op < arithmetic_op_end
}

// IsCompare returns true if op is a comparison operator.
func (op BinaryOp) IsCompare() bool {
	return op > compare_op_begin && op < compare_op_end
}

// BinaryExpr represents an operation on two expressions.
type BinaryExpr struct {
	Op  BinaryOp
	LHS Expr
	RHS Expr
}

// NewBinaryExpr returns an expression for op applied to lhs & rhs. Constant
// operands are folded and a small set of algebraic identities is applied, so
// the result is not necessarily a *BinaryExpr.
func NewBinaryExpr(op BinaryOp, lhs, rhs Expr) Expr {
	assert(ExprWidth(lhs) == ExprWidth(rhs), "binary expr width mismatch: op=%s %d != %d", op, ExprWidth(lhs), ExprWidth(rhs))

	switch op {
	case ADD:
		return newAddExpr(lhs, rhs)
	case SUB:
		return newSubExpr(lhs, rhs)
	case MUL:
		return newMulExpr(lhs, rhs)
	case UDIV, SDIV, UREM, SREM:
		return newDivRemExpr(op, lhs, rhs)
	case AND:
		return newAndExpr(lhs, rhs)
	case OR:
		return newOrExpr(lhs, rhs)
	case XOR:
		return newXorExpr(lhs, rhs)
	case SHL, LSHR, ASHR:
		return newShiftExpr(op, lhs, rhs)
	case EQ:
		return newEqExpr(lhs, rhs)
	case NE:
		return NewIsZeroExpr(newEqExpr(lhs, rhs))

	// Greater-than forms are rewritten as less-than with swapped operands.
	case ULT, ULE, SLT, SLE:
		return newCompareExpr(op, lhs, rhs)
	case UGT:
		return newCompareExpr(ULT, rhs, lhs)
	case UGE:
		return newCompareExpr(ULE, rhs, lhs)
	case SGT:
		return newCompareExpr(SLT, rhs, lhs)
	case SGE:
		return newCompareExpr(SLE, rhs, lhs)
	default:
		panic(fmt.Sprintf("invalid binary op: %s", op))
	}
}

// String returns the string representation of the expression.
func (e *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Op, e.LHS, e.RHS)
}

// newAddExpr returns the expression representing the sum of lhs & rhs.
func newAddExpr(lhs, rhs Expr) Expr {
	if ExprWidth(lhs) == WidthBool {
		return newXorExpr(lhs, rhs)
	}

	// Keep constants on the left.
	if !IsConstantExpr(lhs) && IsConstantExpr(rhs) {
		lhs, rhs = rhs, lhs
	}

	if k, ok := lhs.(*ConstantExpr); ok {
		if k.Value == 0 {
			return rhs
		} else if rhs, ok := rhs.(*ConstantExpr); ok {
			return k.Add(rhs)
		}

		// K + (J+x) => (K+J) + x, K + (J-x) => (K+J) - x
		if rhs, ok := rhs.(*BinaryExpr); ok && IsConstantExpr(rhs.LHS) && (rhs.Op == ADD || rhs.Op == SUB) {
			return NewBinaryExpr(rhs.Op, k.Add(rhs.LHS.(*ConstantExpr)), rhs.RHS)
		}
		return &BinaryExpr{Op: ADD, LHS: lhs, RHS: rhs}
	}

	// Hoist a constant out of either operand.
	if l, ok := lhs.(*BinaryExpr); ok && IsConstantExpr(l.LHS) {
		switch l.Op {
		case ADD: // (K+x) + y => K + (x+y)
			return NewBinaryExpr(ADD, l.LHS, NewBinaryExpr(ADD, l.RHS, rhs))
		case SUB: // (K-x) + y => K + (y-x)
			return NewBinaryExpr(ADD, l.LHS, NewBinaryExpr(SUB, rhs, l.RHS))
		}
	}
	if r, ok := rhs.(*BinaryExpr); ok && IsConstantExpr(r.LHS) {
		switch r.Op {
		case ADD: // x + (K+y) => K + (x+y)
			return NewBinaryExpr(ADD, r.LHS, NewBinaryExpr(ADD, lhs, r.RHS))
		case SUB: // x + (K-y) => K + (x-y)
			return NewBinaryExpr(ADD, r.LHS, NewBinaryExpr(SUB, lhs, r.RHS))
		}
	}
	return &BinaryExpr{Op: ADD, LHS: lhs, RHS: rhs}
}

// newSubExpr returns an expression representing the difference of lhs & rhs.
func newSubExpr(lhs, rhs Expr) Expr {
	if CompareExpr(lhs, rhs) == 0 {
		return NewConstantExpr(0, ExprWidth(lhs))
	} else if ExprWidth(lhs) == WidthBool {
		return newXorExpr(lhs, rhs)
	}

	l, lok := lhs.(*ConstantExpr)
	r, rok := rhs.(*ConstantExpr)
	switch {
	case lok && rok:
		return l.Sub(r)
	case rok: // x - K => -K + x
		return NewBinaryExpr(ADD, r.Neg(), lhs)
	case lok:
		// K - (J+x) => (K-J) - x, K - (J-x) => (K-J) + x
		if rhs, ok := rhs.(*BinaryExpr); ok && IsConstantExpr(rhs.LHS) {
			switch rhs.Op {
			case ADD:
				return NewBinaryExpr(SUB, l.Sub(rhs.LHS.(*ConstantExpr)), rhs.RHS)
			case SUB:
				return NewBinaryExpr(ADD, l.Sub(rhs.LHS.(*ConstantExpr)), rhs.RHS)
			}
		}
		return &BinaryExpr{Op: SUB, LHS: lhs, RHS: rhs}
	}

	if lhs, ok := lhs.(*BinaryExpr); ok && IsConstantExpr(lhs.LHS) {
		switch lhs.Op {
		case ADD: // (K+x) - y => K + (x-y)
			return NewBinaryExpr(ADD, lhs.LHS, NewBinaryExpr(SUB, lhs.RHS, rhs))
		case SUB: // (K-x) - y => K - (x+y)
			return NewBinaryExpr(SUB, lhs.LHS, NewBinaryExpr(ADD, lhs.RHS, rhs))
		}
	}
	if rhs, ok := rhs.(*BinaryExpr); ok && IsConstantExpr(rhs.LHS) {
		switch rhs.Op {
		case ADD: // x - (K+y) => (x-y) - K
			return NewBinaryExpr(SUB, NewBinaryExpr(SUB, lhs, rhs.RHS), rhs.LHS)
		case SUB: // x - (K-y) => (x+y) - K
			return NewBinaryExpr(SUB, NewBinaryExpr(ADD, lhs, rhs.RHS), rhs.LHS)
		}
	}
	return &BinaryExpr{Op: SUB, LHS: lhs, RHS: rhs}
}

// newMulExpr returns an expression that represents the product of lhs & rhs.
func newMulExpr(lhs, rhs Expr) Expr {
	if ExprWidth(lhs) == WidthBool {
		return newAndExpr(lhs, rhs)
	}
	if !IsConstantExpr(lhs) && IsConstantExpr(rhs) {
		lhs, rhs = rhs, lhs
	}
	if k, ok := lhs.(*ConstantExpr); ok {
		if rhs, ok := rhs.(*ConstantExpr); ok {
			return k.Mul(rhs)
		}
		switch k.Value {
		case 0:
			return k
		case 1:
			return rhs
		}
	}
	return &BinaryExpr{Op: MUL, LHS: lhs, RHS: rhs}
}

// newDivRemExpr returns a division or remainder expression. Division by zero
// follows SMT-LIB bit-vector semantics rather than trapping.
func newDivRemExpr(op BinaryOp, lhs, rhs Expr) Expr {
	if l, ok := lhs.(*ConstantExpr); ok {
		if r, ok := rhs.(*ConstantExpr); ok {
			switch op {
			case UDIV:
				return l.UDiv(r)
			case SDIV:
				return l.SDiv(r)
			case UREM:
				return l.URem(r)
			default:
				return l.SRem(r)
			}
		}
	}

	// Dividing by one is the identity and leaves no remainder.
	if r, ok := rhs.(*ConstantExpr); ok && r.Value == 1 {
		if op == UDIV || op == SDIV {
			return lhs
		}
		return NewConstantExpr(0, r.Width)
	}
	return &BinaryExpr{Op: op, LHS: lhs, RHS: rhs}
}

// newAndExpr returns an expression that represents the bitwise AND of lhs & rhs.
func newAndExpr(lhs, rhs Expr) Expr {
	if IsConstantExpr(lhs) && !IsConstantExpr(rhs) {
		lhs, rhs = rhs, lhs
	}
	if k, ok := rhs.(*ConstantExpr); ok {
		if l, ok := lhs.(*ConstantExpr); ok {
			return l.And(k)
		} else if k.IsAllOnes() {
			return lhs
		} else if k.Value == 0 {
			return k
		}
	}
	if CompareExpr(lhs, rhs) == 0 {
		return lhs
	}
	return &BinaryExpr{Op: AND, LHS: lhs, RHS: rhs}
}

// newOrExpr returns an expression that represents the bitwise OR of lhs & rhs.
func newOrExpr(lhs, rhs Expr) Expr {
	if IsConstantExpr(lhs) && !IsConstantExpr(rhs) {
		lhs, rhs = rhs, lhs
	}
	if k, ok := rhs.(*ConstantExpr); ok {
		if l, ok := lhs.(*ConstantExpr); ok {
			return l.Or(k)
		} else if k.IsAllOnes() {
			return k
		} else if k.Value == 0 {
			return lhs
		}
	}
	if CompareExpr(lhs, rhs) == 0 {
		return lhs
	}
	return &BinaryExpr{Op: OR, LHS: lhs, RHS: rhs}
}

// newXorExpr returns an expression that represents the bitwise XOR of lhs & rhs.
func newXorExpr(lhs, rhs Expr) Expr {
	if !IsConstantExpr(lhs) && IsConstantExpr(rhs) {
		lhs, rhs = rhs, lhs
	}
	if k, ok := lhs.(*ConstantExpr); ok {
		if k.Value == 0 {
			return rhs
		} else if rhs, ok := rhs.(*ConstantExpr); ok {
			return k.Xor(rhs)
		}
	}
	if CompareExpr(lhs, rhs) == 0 {
		return NewConstantExpr(0, ExprWidth(lhs))
	}
	return &BinaryExpr{Op: XOR, LHS: lhs, RHS: rhs}
}

// newShiftExpr returns a left, logical right, or arithmetic right shift.
func newShiftExpr(op BinaryOp, lhs, rhs Expr) Expr {
	if l, ok := lhs.(*ConstantExpr); ok {
		if r, ok := rhs.(*ConstantExpr); ok {
			switch op {
			case SHL:
				return l.Shl(r)
			case LSHR:
				return l.LShr(r)
			default:
				return l.AShr(r)
			}
		}
	}
	if r, ok := rhs.(*ConstantExpr); ok && r.Value == 0 {
		return lhs
	}

	// A single bit survives only a zero shift, except for the sign bit.
	if ExprWidth(lhs) == WidthBool {
		if op == ASHR {
			return lhs
		}
		return newAndExpr(lhs, NewIsZeroExpr(rhs))
	}
	return &BinaryExpr{Op: op, LHS: lhs, RHS: rhs}
}

// newEqExpr returns an expression that represents the equality of lhs and rhs.
func newEqExpr(lhs, rhs Expr) Expr {
	if !IsConstantExpr(lhs) && IsConstantExpr(rhs) {
		lhs, rhs = rhs, lhs
	}

	if k, ok := lhs.(*ConstantExpr); ok {
		if rhs, ok := rhs.(*ConstantExpr); ok {
			return k.Eq(rhs)
		}
		if expr := foldConstantEq(k, rhs); expr != nil {
			return expr
		}
	}

	if CompareExpr(lhs, rhs) == 0 {
		return NewBoolConstantExpr(true)
	}
	return &BinaryExpr{Op: EQ, LHS: lhs, RHS: rhs}
}

// foldConstantEq simplifies (k == rhs) for a non-constant rhs.
// Returns nil if no simplification applies.
func foldConstantEq(k *ConstantExpr, rhs Expr) Expr {
	if k.IsTrue() {
		return rhs // T == a => a
	}

	switch rhs := rhs.(type) {
	case *BinaryExpr:
		switch rhs.Op {
		case EQ:
			if k.IsFalse() && IsConstantFalse(rhs.LHS) {
				return rhs.RHS // F == (F == a) => a
			}
		case OR:
			if k.IsFalse() { // F == (a || b) => !a && !b
				return newAndExpr(NewIsZeroExpr(rhs.LHS), NewIsZeroExpr(rhs.RHS))
			}
		case ADD:
			if j, ok := rhs.LHS.(*ConstantExpr); ok { // K == J + x => K-J == x
				return newEqExpr(k.Sub(j), rhs.RHS)
			}
		case SUB:
			if j, ok := rhs.LHS.(*ConstantExpr); ok { // K == J - x => J-K == x
				return newEqExpr(j.Sub(k), rhs.RHS)
			}
		}

	case *CastExpr:
		// Compare against the source when the constant survives the round trip.
		trunc := k.Extract(0, ExprWidth(rhs.Src))
		ext := trunc.ZExt(k.Width)
		if rhs.Signed {
			ext = trunc.SExt(k.Width)
		}
		if CompareExpr(k, ext) != 0 {
			return NewBoolConstantExpr(false)
		}
		return newEqExpr(trunc, rhs.Src)
	}
	return nil
}

// newCompareExpr returns an ordered comparison. Only ULT, ULE, SLT and SLE
// are accepted; greater-than forms are normalized by NewBinaryExpr.
func newCompareExpr(op BinaryOp, lhs, rhs Expr) Expr {
	if l, ok := lhs.(*ConstantExpr); ok {
		if r, ok := rhs.(*ConstantExpr); ok {
			switch op {
			case ULT:
				return l.Ult(r)
			case ULE:
				return l.Ule(r)
			case SLT:
				return l.Slt(r)
			default:
				return l.Sle(r)
			}
		}
	}

	if CompareExpr(lhs, rhs) == 0 {
		return NewBoolConstantExpr(op == ULE || op == SLE)
	}

	// Boolean orderings reduce to connectives. As a signed 1-bit value,
	// true is -1 and therefore the smaller value.
	if ExprWidth(lhs) == WidthBool {
		switch op {
		case ULT: // !l && r
			return newAndExpr(NewIsZeroExpr(lhs), rhs)
		case ULE: // !l || r
			return newOrExpr(NewIsZeroExpr(lhs), rhs)
		case SLT: // l && !r
			return newAndExpr(lhs, NewIsZeroExpr(rhs))
		default: // l || !r
			return newOrExpr(lhs, NewIsZeroExpr(rhs))
		}
	}
	return &BinaryExpr{Op: op, LHS: lhs, RHS: rhs}
}

// SelectExpr represents a one byte read from an array.
type SelectExpr struct {
	Array *Array
	Index Expr
}

// NewSelectExpr returns a new instance of SelectExpr based on a given array.
func NewSelectExpr(a *Array, index Expr) Expr {
	return &SelectExpr{
		Array: a,
		Index: index,
	}
}

// String returns the string representation of the expression.
func (e *SelectExpr) String() string {
	return fmt.Sprintf("(select %s %s)", e.Array, e.Index)
}

// ConcatExpr represents a concatenation of two expressions.
type ConcatExpr struct {
	MSB Expr
	LSB Expr
}

// NewConcatExpr returns a new instance of ConcatExpr.
func NewConcatExpr(msb, lsb Expr) Expr {
	if msb, ok := msb.(*ConstantExpr); ok {
		if lsb, ok := lsb.(*ConstantExpr); ok {
			return msb.Concat(lsb)
		}
	}

	// Join contiguous extractions of the same expression.
	if msb, ok := msb.(*ExtractExpr); ok {
		if lsb, ok := lsb.(*ExtractExpr); ok {
			if CompareExpr(msb.Expr, lsb.Expr) == 0 && lsb.Offset+lsb.Width == msb.Offset {
				return NewExtractExpr(msb.Expr, lsb.Offset, msb.Width+lsb.Width)
			}
		}
	}

	return &ConcatExpr{
		MSB: msb,
		LSB: lsb,
	}
}

// String returns the string representation of the expression.
func (e *ConcatExpr) String() string {
	return fmt.Sprintf("(concat %s %s)", e.MSB, e.LSB)
}

// ExtractExpr represents the extraction of a set of bits at a given offset/width.
type ExtractExpr struct {
	Expr   Expr
	Offset uint
	Width  uint
}

// NewExtractExpr returns a new instance of ExtractExpr.
func NewExtractExpr(expr Expr, offset uint, width uint) Expr {
	kw := ExprWidth(expr)
	assert(width > 0, "extract width cannot be zero")
	assert(offset+width <= kw, "extract out of bounds: %d+%d > %d", offset, width, kw)

	if width == kw {
		return expr
	}

	switch expr := expr.(type) {
	case *ConstantExpr:
		return expr.Extract(offset, width)

	case *ExtractExpr:
		return NewExtractExpr(expr.Expr, expr.Offset+offset, width)

	case *ConcatExpr:
		lw := ExprWidth(expr.LSB)
		if offset >= lw {
			return NewExtractExpr(expr.MSB, offset-lw, width)
		} else if offset+width <= lw {
			return NewExtractExpr(expr.LSB, offset, width)
		}

		// Straddles both halves: E(C(x,y)) = C(E(x), E(y))
		return NewConcatExpr(
			NewExtractExpr(expr.MSB, 0, offset+width-lw),
			NewExtractExpr(expr.LSB, offset, lw-offset),
		)

	case *CastExpr:
		if offset+width <= ExprWidth(expr.Src) {
			return NewExtractExpr(expr.Src, offset, width)
		}
	}

	return &ExtractExpr{
		Expr:   expr,
		Offset: offset,
		Width:  width,
	}
}

// String returns the string representation of the expression.
func (e *ExtractExpr) String() string {
	return fmt.Sprintf("(extract %s %d %d)", e.Expr, e.Offset, e.Width)
}

// NotExpr represents a bitwise not of an expression.
type NotExpr struct {
	Expr Expr
}

// NewNotExpr returns a new instance of NotExpr.
func NewNotExpr(expr Expr) Expr {
	switch expr := expr.(type) {
	case *ConstantExpr:
		return expr.Not()
	case *NotExpr:
		return expr.Expr
	}
	return &NotExpr{Expr: expr}
}

// String returns the string representation of the expression.
func (e *NotExpr) String() string {
	return fmt.Sprintf("(not %s)", e.Expr)
}

// CastExpr represents an expression that extends an expression to a wider width.
type CastExpr struct {
	Src    Expr
	Width  uint
	Signed bool
}

// NewCastExpr returns an expression converting src to width bits. Narrowing
// casts truncate; widening casts sign- or zero-extend.
func NewCastExpr(src Expr, width uint, signed bool) Expr {
	sw := ExprWidth(src)
	if width == sw {
		return src
	} else if width < sw {
		return NewExtractExpr(src, 0, width)
	}

	if src, ok := src.(*ConstantExpr); ok {
		if signed {
			return src.SExt(width)
		}
		return src.ZExt(width)
	}
	return &CastExpr{Src: src, Width: width, Signed: signed}
}

// String returns the string representation of the expression.
func (e *CastExpr) String() string {
	if e.Signed {
		return fmt.Sprintf("(sext %s %d)", e.Src, e.Width)
	}
	return fmt.Sprintf("(zext %s %d)", e.Src, e.Width)
}

// VarExpr represents a reference to a scalar program variable.
type VarExpr struct {
	Var *Var
}

// NewVarExpr returns a reference to v. v must be a scalar variable.
func NewVarExpr(v *Var) *VarExpr {
	assert(!v.IsMemory(), "var expr requires a scalar variable: %s", v)
	return &VarExpr{Var: v}
}

// String returns the string representation of the expression.
func (e *VarExpr) String() string {
	return e.Var.String()
}

// IsConstantExpr returns true if expr is an instance of ConstantExpr.
func IsConstantExpr(expr Expr) bool {
	_, ok := expr.(*ConstantExpr)
	return ok
}

// IsConstantTrue returns true if expr is an instance of ConstantExpr and is true.
func IsConstantTrue(expr Expr) bool {
	tmp, ok := expr.(*ConstantExpr)
	return ok && tmp.IsTrue()
}

// IsConstantFalse returns true if expr is an instance of ConstantExpr and is false.
func IsConstantFalse(expr Expr) bool {
	tmp, ok := expr.(*ConstantExpr)
	return ok && tmp.IsFalse()
}

// NewIsZeroExpr returns an expression that checks the equality of other to zero.
// For booleans this is logical negation.
func NewIsZeroExpr(other Expr) Expr {
	return newEqExpr(NewConstantExpr(0, ExprWidth(other)), other)
}

// NewAndExpr returns the conjunction of a set of boolean expressions.
// Returns true if no expressions are passed.
func NewAndExpr(exprs ...Expr) Expr {
	var result Expr = NewBoolConstantExpr(true)
	for _, expr := range exprs {
		result = newAndExpr(result, expr)
	}
	return result
}

// NewOrExpr returns the disjunction of a set of boolean expressions.
// Returns false if no expressions are passed.
func NewOrExpr(exprs ...Expr) Expr {
	var result Expr = NewBoolConstantExpr(false)
	for _, expr := range exprs {
		result = newOrExpr(result, expr)
	}
	return result
}

// CompareExpr returns an integer comparing two expressions.
// The result will be 0 if a==b, -1 if a < b, and +1 if a > b.
func CompareExpr(a, b Expr) int {
	if a == nil && b != nil {
		return -1
	} else if a != nil && b == nil {
		return 1
	} else if a == nil && b == nil {
		return 0
	}

	if ak, bk := exprKind(a), exprKind(b); ak < bk {
		return -1
	} else if ak > bk {
		return 1
	}

	switch a := a.(type) {
	case *ConstantExpr:
		b := b.(*ConstantExpr)
		if cmp := compareUint(uint64(a.Width), uint64(b.Width)); cmp != 0 {
			return cmp
		}
		return compareUint(a.Value, b.Value)
	case *VarExpr:
		return CompareVar(a.Var, b.(*VarExpr).Var)
	case *SelectExpr:
		b := b.(*SelectExpr)
		if cmp := CompareExpr(a.Index, b.Index); cmp != 0 {
			return cmp
		}
		return CompareArray(a.Array, b.Array)
	case *ConcatExpr:
		b := b.(*ConcatExpr)
		if cmp := CompareExpr(a.MSB, b.MSB); cmp != 0 {
			return cmp
		}
		return CompareExpr(a.LSB, b.LSB)
	case *ExtractExpr:
		b := b.(*ExtractExpr)
		if cmp := compareUint(uint64(a.Offset), uint64(b.Offset)); cmp != 0 {
			return cmp
		} else if cmp := compareUint(uint64(a.Width), uint64(b.Width)); cmp != 0 {
			return cmp
		}
		return CompareExpr(a.Expr, b.Expr)
	case *NotExpr:
		return CompareExpr(a.Expr, b.(*NotExpr).Expr)
	case *CastExpr:
		b := b.(*CastExpr)
		if a.Signed != b.Signed {
			if a.Signed {
				return -1
			}
			return 1
		} else if cmp := compareUint(uint64(a.Width), uint64(b.Width)); cmp != 0 {
			return cmp
		}
		return CompareExpr(a.Src, b.Src)
	case *BinaryExpr:
		b := b.(*BinaryExpr)
		if cmp := compareUint(uint64(a.Op), uint64(b.Op)); cmp != 0 {
			return cmp
		} else if cmp := CompareExpr(a.LHS, b.LHS); cmp != 0 {
			return cmp
		}
		return CompareExpr(a.RHS, b.RHS)
	default:
		panic(fmt.Sprintf("unexpected expr: %T", a))
	}
}

func compareUint(a, b uint64) int {
	if a < b {
		return -1
	} else if a > b {
		return 1
	}
	return 0
}

// exprKind returns a numeric value for the type of expression.
// Only used internally for equality checks and sorting.
func exprKind(expr Expr) int {
	switch expr.(type) {
	case *ConstantExpr:
		return 1
	case *VarExpr:
		return 2
	case *SelectExpr:
		return 3
	case *ConcatExpr:
		return 4
	case *ExtractExpr:
		return 5
	case *NotExpr:
		return 6
	case *CastExpr:
		return 7
	case *BinaryExpr:
		return 8
	default:
		panic(fmt.Sprintf("unexpected expr: %T", expr))
	}
}
