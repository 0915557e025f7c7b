//go:build z3

// Package z3 implements an incremental solver backed by the Z3 C API.
package z3

import (
	"fmt"
	"strings"
	"time"
	"unsafe"

	"github.com/benbjohnson/gcl"
)

/*
#cgo LDFLAGS: -lz3
#include <z3.h>
#include <stdlib.h>
#include <stdio.h>
*/
import "C"

// Ensure solver implements interfaces.
var (
	_ gcl.Solver = (*Solver)(nil)
	_ gcl.Model  = (*Solver)(nil)
)

// Solver represents an incremental solver that uses an embedded Z3 solver.
type Solver struct {
	// Maximum time spent in a single Check. Zero means no limit.
	Timeout time.Duration

	ctx     *Context
	raw     C.Z3_solver
	timeout time.Duration // timeout applied to raw

	depth int
	sat   bool
	stats Stats
}

// NewSolver returns a new instance of Solver.
func NewSolver() *Solver {
	ctx := NewContext()
	raw := C.Z3_mk_solver(ctx.raw)
	C.Z3_solver_inc_ref(ctx.raw, raw)
	return &Solver{ctx: ctx, raw: raw}
}

// Close deletes the underlying Z3 solver and context.
func (s *Solver) Close() error {
	C.Z3_solver_dec_ref(s.ctx.raw, s.raw)
	return s.ctx.Close()
}

// Stats returns statistics for the solver.
func (s *Solver) Stats() Stats {
	return s.stats
}

// Depth returns the number of open scopes.
func (s *Solver) Depth() int {
	return s.depth
}

// Assert adds a boolean constraint to the innermost scope.
func (s *Solver) Assert(expr gcl.Expr) error {
	if w := gcl.ExprWidth(expr); w != gcl.WidthBool {
		return fmt.Errorf("z3: assert: non-boolean constraint of width %d", w)
	}

	ast, err := s.ctx.toAST(expr)
	if err != nil {
		return err
	}
	C.Z3_solver_assert(s.ctx.raw, s.raw, ast)
	if err := s.ctx.err("Z3_solver_assert"); err != nil {
		return err
	}
	s.stats.AssertN++
	s.sat = false
	return nil
}

// Check returns true if the constraints of every open scope are satisfiable
// together.
func (s *Solver) Check() (bool, error) {
	t := time.Now()
	defer func() {
		s.stats.CheckN++
		s.stats.CheckTime += time.Since(t)
	}()

	if err := s.applyTimeout(); err != nil {
		return false, err
	}

	s.sat = false
	ret := C.Z3_solver_check(s.ctx.raw, s.raw)
	if err := s.ctx.err("Z3_solver_check"); err != nil {
		return false, err
	} else if ret == C.Z3_L_FALSE {
		return false, nil
	} else if ret == C.Z3_L_UNDEF {
		reason := C.GoString(C.Z3_solver_get_reason_unknown(s.ctx.raw, s.raw))
		switch {
		case strings.Contains(reason, "timeout"):
			return false, gcl.ErrSolverTimeout
		case strings.Contains(reason, "canceled"):
			return false, gcl.ErrSolverCanceled
		case strings.Contains(reason, "(resource limits reached)"):
			return false, gcl.ErrSolverResourceLimit
		case strings.Contains(reason, "unknown"):
			return false, gcl.ErrSolverUnknown
		default:
			return false, fmt.Errorf("z3: %s", reason)
		}
	}
	s.sat = true
	return true, nil
}

// applyTimeout updates the solver parameters when Timeout has changed.
func (s *Solver) applyTimeout() error {
	if s.Timeout == s.timeout {
		return nil
	}

	params := C.Z3_mk_params(s.ctx.raw)
	C.Z3_params_inc_ref(s.ctx.raw, params)
	defer C.Z3_params_dec_ref(s.ctx.raw, params)

	cname := C.CString("timeout")
	defer C.free(unsafe.Pointer(cname))
	C.Z3_params_set_uint(s.ctx.raw, params, C.Z3_mk_string_symbol(s.ctx.raw, cname), C.uint(s.Timeout/time.Millisecond))
	C.Z3_solver_set_params(s.ctx.raw, s.raw, params)
	if err := s.ctx.err("Z3_solver_set_params"); err != nil {
		return err
	}
	s.timeout = s.Timeout
	return nil
}

// Push opens a new scope.
func (s *Solver) Push() error {
	C.Z3_solver_push(s.ctx.raw, s.raw)
	if err := s.ctx.err("Z3_solver_push"); err != nil {
		return err
	}
	s.depth++
	return nil
}

// Pop discards the innermost scope.
func (s *Solver) Pop() error {
	if s.depth == 0 {
		return fmt.Errorf("%w: z3: pop on empty scope stack", gcl.ErrSolverProtocol)
	}
	C.Z3_solver_pop(s.ctx.raw, s.raw, 1)
	if err := s.ctx.err("Z3_solver_pop"); err != nil {
		return err
	}
	s.depth--
	s.sat = false
	return nil
}

// Value returns the value of v in the model found by the last Check.
// Unconstrained variables are completed to zero by Z3.
func (s *Solver) Value(v *gcl.Var) (gcl.Binding, error) {
	if !s.sat {
		return nil, fmt.Errorf("%w: z3: no model available", gcl.ErrSolverProtocol)
	}

	model := C.Z3_solver_get_model(s.ctx.raw, s.raw)
	if err := s.ctx.err("Z3_solver_get_model"); err != nil {
		return nil, err
	}
	C.Z3_model_inc_ref(s.ctx.raw, model)
	defer C.Z3_model_dec_ref(s.ctx.raw, model)

	if v.IsMemory() {
		buf, err := s.ctx.evalArray(model, gcl.NewArray(v, v.Size))
		if err != nil {
			return nil, err
		}
		a := gcl.NewZeroArray(v.Size)
		for i, b := range buf {
			a = a.Store(gcl.NewConstantExpr64(uint64(i)), gcl.NewConstantExpr8(uint64(b)), true)
		}
		return a, nil
	}

	ast, err := s.ctx.makeVar(v)
	if err != nil {
		return nil, err
	}
	value, err := s.ctx.evalScalar(model, ast, v.Width)
	if err != nil {
		return nil, err
	}
	return gcl.NewConstantExpr(value, v.Width), nil
}

// Context represents a Z3 context object that is used for constructing expressions.
type Context struct {
	raw C.Z3_context
}

// NewContext returns a new instance of Context.
func NewContext() *Context {
	config := C.Z3_mk_config()
	defer C.Z3_del_config(config)

	raw := C.Z3_mk_context(config)
	C.Z3_set_error_handler(raw, nil)
	C.Z3_set_ast_print_mode(raw, C.Z3_PRINT_SMTLIB2_COMPLIANT)
	return &Context{raw: raw}
}

// Close deletes the underlying Z3 context.
func (ctx *Context) Close() error {
	C.Z3_del_context(ctx.raw)
	return nil
}

// err returns the error for the last API call. Returns nil if last call was successful.
func (ctx *Context) err(op string) error {
	if code := C.Z3_get_error_code(ctx.raw); code != C.Z3_OK {
		return &Error{Code: int(code), Op: op, Message: C.GoString(C.Z3_get_error_msg(ctx.raw, code))}
	}
	return nil
}

// toAST returns a new instance of Z3_ast from an expression. Expressions of
// width 1 use the boolean sort; everything else is a bit-vector.
func (ctx *Context) toAST(expr gcl.Expr) (C.Z3_ast, error) {
	switch expr := expr.(type) {
	case *gcl.ConstantExpr:
		return ctx.toConstantAST(expr)
	case *gcl.VarExpr:
		return ctx.makeVar(expr.Var)
	case *gcl.SelectExpr:
		return ctx.toSelectAST(expr)
	case *gcl.ConcatExpr:
		return ctx.toConcatAST(expr)
	case *gcl.ExtractExpr:
		return ctx.toExtractAST(expr)
	case *gcl.CastExpr:
		return ctx.toCastAST(expr)
	case *gcl.NotExpr:
		return ctx.toNotAST(expr)
	case *gcl.BinaryExpr:
		return ctx.toBinaryAST(expr)
	default:
		return nil, fmt.Errorf("%w: z3: expression %T", gcl.ErrUnsupported, expr)
	}
}

func (ctx *Context) toConstantAST(expr *gcl.ConstantExpr) (C.Z3_ast, error) {
	if expr.Width == 1 {
		if expr.IsTrue() {
			return ctx.makeTrue()
		}
		return ctx.makeFalse()
	} else if expr.Width <= 32 {
		return ctx.makeUint(expr.Width, uint32(expr.Value))
	} else if expr.Width <= 64 {
		return ctx.makeUint64(expr.Width, expr.Value)
	}
	return nil, fmt.Errorf("z3.Context.toConstantAST: invalid expression width: %d", expr.Width)
}

// toSelectAST reads one byte. Reads past the end of the array yield zero.
func (ctx *Context) toSelectAST(expr *gcl.SelectExpr) (C.Z3_ast, error) {
	array, err := ctx.makeArrayWithUpdate(expr.Array, expr.Array.Updates)
	if err != nil {
		return nil, err
	}
	index, err := ctx.toAST(expr.Index)
	if err != nil {
		return nil, err
	}
	sel := C.Z3_mk_select(ctx.raw, array, index)
	if err := ctx.err("Z3_mk_select"); err != nil {
		return nil, err
	}

	if k, ok := expr.Index.(*gcl.ConstantExpr); ok && k.Value < uint64(expr.Array.Size) {
		return sel, nil
	}
	size, err := ctx.makeUint64(gcl.Width64, uint64(expr.Array.Size))
	if err != nil {
		return nil, err
	}
	zero, err := ctx.makeUint64(gcl.Width8, 0)
	if err != nil {
		return nil, err
	}
	inBounds := C.Z3_mk_bvult(ctx.raw, index, size)
	if err := ctx.err("Z3_mk_bvult"); err != nil {
		return nil, err
	}
	return C.Z3_mk_ite(ctx.raw, inBounds, sel, zero), ctx.err("Z3_mk_ite")
}

func (ctx *Context) toConcatAST(expr *gcl.ConcatExpr) (C.Z3_ast, error) {
	msb, err := ctx.toBitVectorAST(expr.MSB)
	if err != nil {
		return nil, err
	}
	lsb, err := ctx.toBitVectorAST(expr.LSB)
	if err != nil {
		return nil, err
	}
	return C.Z3_mk_concat(ctx.raw, msb, lsb), ctx.err("Z3_mk_concat")
}

// toBitVectorAST converts expr, lifting booleans to a 1-bit vector.
func (ctx *Context) toBitVectorAST(expr gcl.Expr) (C.Z3_ast, error) {
	ast, err := ctx.toAST(expr)
	if err != nil {
		return nil, err
	} else if gcl.ExprWidth(expr) != gcl.WidthBool {
		return ast, nil
	}
	one, err := ctx.makeUint64(1, 1)
	if err != nil {
		return nil, err
	}
	zero, err := ctx.makeUint64(1, 0)
	if err != nil {
		return nil, err
	}
	return C.Z3_mk_ite(ctx.raw, ast, one, zero), ctx.err("Z3_mk_ite")
}

func (ctx *Context) toExtractAST(expr *gcl.ExtractExpr) (C.Z3_ast, error) {
	src, err := ctx.toAST(expr.Expr)
	if err != nil {
		return nil, err
	} else if gcl.ExprWidth(expr.Expr) == gcl.WidthBool {
		return src, nil
	}

	// If extracting single bit, use EQ expression to convert to bool sort.
	if expr.Width == 1 {
		extractExpr := C.Z3_mk_extract(ctx.raw, C.uint(expr.Offset), C.uint(expr.Offset), src)
		if err := ctx.err("Z3_mk_extract[bool]"); err != nil {
			return nil, err
		}
		one, err := ctx.makeUint64(1, 1)
		if err != nil {
			return nil, err
		}
		return C.Z3_mk_eq(ctx.raw, extractExpr, one), ctx.err("Z3_mk_eq")
	}

	return C.Z3_mk_extract(ctx.raw, C.uint(expr.Offset+expr.Width-1), C.uint(expr.Offset), src), ctx.err("Z3_mk_extract")
}

func (ctx *Context) toCastAST(expr *gcl.CastExpr) (C.Z3_ast, error) {
	src, err := ctx.toAST(expr.Src)
	if err != nil {
		return nil, err
	}

	// Convert boolean cast to if-then-else expression.
	if gcl.ExprWidth(expr.Src) == 1 {
		var value uint64 = 1
		if expr.Signed {
			value = ^uint64(0)
		}
		whenTrue, err := ctx.makeUint64(expr.Width, value)
		if err != nil {
			return nil, err
		}
		whenFalse, err := ctx.makeUint64(expr.Width, 0)
		if err != nil {
			return nil, err
		}
		return C.Z3_mk_ite(ctx.raw, src, whenTrue, whenFalse), ctx.err("Z3_mk_ite")
	}

	n := C.uint(expr.Width - ctx.bvSize(src))
	if expr.Signed {
		return C.Z3_mk_sign_ext(ctx.raw, n, src), ctx.err("Z3_mk_sign_ext")
	}
	return C.Z3_mk_zero_ext(ctx.raw, n, src), ctx.err("Z3_mk_zero_ext")
}

func (ctx *Context) toNotAST(expr *gcl.NotExpr) (C.Z3_ast, error) {
	src, err := ctx.toAST(expr.Expr)
	if err != nil {
		return nil, err
	}

	// If boolean, use boolean NOT operation.
	if gcl.ExprWidth(expr.Expr) == 1 {
		return C.Z3_mk_not(ctx.raw, src), ctx.err("Z3_mk_not")
	}
	return C.Z3_mk_bvnot(ctx.raw, src), ctx.err("Z3_mk_bvnot")
}

func (ctx *Context) toBinaryAST(expr *gcl.BinaryExpr) (C.Z3_ast, error) {
	lhs, err := ctx.toAST(expr.LHS)
	if err != nil {
		return nil, err
	}
	rhs, err := ctx.toAST(expr.RHS)
	if err != nil {
		return nil, err
	}

	if gcl.ExprWidth(expr.LHS) == gcl.WidthBool {
		return ctx.toBoolBinaryAST(expr.Op, lhs, rhs)
	}

	var ast C.Z3_ast
	switch expr.Op {
	case gcl.ADD:
		ast = C.Z3_mk_bvadd(ctx.raw, lhs, rhs)
	case gcl.SUB:
		ast = C.Z3_mk_bvsub(ctx.raw, lhs, rhs)
	case gcl.MUL:
		ast = C.Z3_mk_bvmul(ctx.raw, lhs, rhs)
	case gcl.UDIV:
		ast = C.Z3_mk_bvudiv(ctx.raw, lhs, rhs)
	case gcl.SDIV:
		ast = C.Z3_mk_bvsdiv(ctx.raw, lhs, rhs)
	case gcl.UREM:
		ast = C.Z3_mk_bvurem(ctx.raw, lhs, rhs)
	case gcl.SREM:
		ast = C.Z3_mk_bvsrem(ctx.raw, lhs, rhs)
	case gcl.AND:
		ast = C.Z3_mk_bvand(ctx.raw, lhs, rhs)
	case gcl.OR:
		ast = C.Z3_mk_bvor(ctx.raw, lhs, rhs)
	case gcl.XOR:
		ast = C.Z3_mk_bvxor(ctx.raw, lhs, rhs)
	case gcl.SHL:
		ast = C.Z3_mk_bvshl(ctx.raw, lhs, rhs)
	case gcl.LSHR:
		ast = C.Z3_mk_bvlshr(ctx.raw, lhs, rhs)
	case gcl.ASHR:
		ast = C.Z3_mk_bvashr(ctx.raw, lhs, rhs)
	case gcl.EQ:
		ast = C.Z3_mk_eq(ctx.raw, lhs, rhs)
	case gcl.NE:
		eq := C.Z3_mk_eq(ctx.raw, lhs, rhs)
		if err := ctx.err("Z3_mk_eq"); err != nil {
			return nil, err
		}
		ast = C.Z3_mk_not(ctx.raw, eq)
	case gcl.ULT:
		ast = C.Z3_mk_bvult(ctx.raw, lhs, rhs)
	case gcl.ULE:
		ast = C.Z3_mk_bvule(ctx.raw, lhs, rhs)
	case gcl.UGT:
		ast = C.Z3_mk_bvugt(ctx.raw, lhs, rhs)
	case gcl.UGE:
		ast = C.Z3_mk_bvuge(ctx.raw, lhs, rhs)
	case gcl.SLT:
		ast = C.Z3_mk_bvslt(ctx.raw, lhs, rhs)
	case gcl.SLE:
		ast = C.Z3_mk_bvsle(ctx.raw, lhs, rhs)
	case gcl.SGT:
		ast = C.Z3_mk_bvsgt(ctx.raw, lhs, rhs)
	case gcl.SGE:
		ast = C.Z3_mk_bvsge(ctx.raw, lhs, rhs)
	default:
		return nil, fmt.Errorf("%w: z3: binary op %s", gcl.ErrUnsupported, expr.Op)
	}
	return ast, ctx.err("Z3_mk_" + expr.Op.String())
}

// toBoolBinaryAST builds an operation on two boolean operands. Arithmetic on
// single bits reduces to connectives.
func (ctx *Context) toBoolBinaryAST(op gcl.BinaryOp, lhs, rhs C.Z3_ast) (C.Z3_ast, error) {
	args := [2]C.Z3_ast{lhs, rhs}
	switch op {
	case gcl.AND, gcl.MUL:
		return C.Z3_mk_and(ctx.raw, 2, &args[0]), ctx.err("Z3_mk_and")
	case gcl.OR:
		return C.Z3_mk_or(ctx.raw, 2, &args[0]), ctx.err("Z3_mk_or")
	case gcl.XOR, gcl.ADD, gcl.SUB, gcl.NE:
		return C.Z3_mk_xor(ctx.raw, lhs, rhs), ctx.err("Z3_mk_xor")
	case gcl.EQ:
		return C.Z3_mk_iff(ctx.raw, lhs, rhs), ctx.err("Z3_mk_iff")
	case gcl.ULT, gcl.SGT: // !l && r
		args[0] = C.Z3_mk_not(ctx.raw, lhs)
		return C.Z3_mk_and(ctx.raw, 2, &args[0]), ctx.err("Z3_mk_and")
	case gcl.UGT, gcl.SLT: // l && !r
		args[1] = C.Z3_mk_not(ctx.raw, rhs)
		return C.Z3_mk_and(ctx.raw, 2, &args[0]), ctx.err("Z3_mk_and")
	case gcl.ULE, gcl.SGE: // !l || r
		args[0] = C.Z3_mk_not(ctx.raw, lhs)
		return C.Z3_mk_or(ctx.raw, 2, &args[0]), ctx.err("Z3_mk_or")
	case gcl.UGE, gcl.SLE: // l || !r
		args[1] = C.Z3_mk_not(ctx.raw, rhs)
		return C.Z3_mk_or(ctx.raw, 2, &args[0]), ctx.err("Z3_mk_or")
	default:
		return nil, fmt.Errorf("%w: z3: boolean op %s", gcl.ErrUnsupported, op)
	}
}

func (ctx *Context) makeTrue() (C.Z3_ast, error) {
	return C.Z3_mk_true(ctx.raw), ctx.err("Z3_mk_true")
}

func (ctx *Context) makeFalse() (C.Z3_ast, error) {
	return C.Z3_mk_false(ctx.raw), ctx.err("Z3_mk_false")
}

func (ctx *Context) makeBVSort(width uint) (C.Z3_sort, error) {
	return C.Z3_mk_bv_sort(ctx.raw, C.uint(width)), ctx.err("Z3_mk_bv_sort")
}

func (ctx *Context) makeUint(width uint, value uint32) (C.Z3_ast, error) {
	t, err := ctx.makeBVSort(width)
	if err != nil {
		return nil, err
	}
	return C.Z3_mk_unsigned_int(ctx.raw, C.uint(value), t), ctx.err("Z3_mk_unsigned_int")
}

func (ctx *Context) makeUint64(width uint, value uint64) (C.Z3_ast, error) {
	t, err := ctx.makeBVSort(width)
	if err != nil {
		return nil, err
	}
	return C.Z3_mk_unsigned_int64(ctx.raw, C.ulonglong(value), t), ctx.err("Z3_mk_unsigned_int64")
}

// makeVar returns the constant for a scalar variable.
func (ctx *Context) makeVar(v *gcl.Var) (C.Z3_ast, error) {
	var t C.Z3_sort
	if v.Width == gcl.WidthBool {
		t = C.Z3_mk_bool_sort(ctx.raw)
	} else {
		t = C.Z3_mk_bv_sort(ctx.raw, C.uint(v.Width))
	}
	if err := ctx.err("Z3_mk_sort[var]"); err != nil {
		return nil, err
	}
	return ctx.makeConst(fmt.Sprintf("v%d", v.ID), t)
}

func (ctx *Context) makeConst(name string, t C.Z3_sort) (C.Z3_ast, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	nameSymbol := C.Z3_mk_string_symbol(ctx.raw, cname)
	return C.Z3_mk_const(ctx.raw, nameSymbol, t), ctx.err("Z3_mk_const")
}

func (ctx *Context) bvSize(expr C.Z3_ast) uint {
	t := C.Z3_get_sort(ctx.raw, expr)
	if err := ctx.err("Z3_get_sort"); err != nil {
		panic(err)
	}
	return ctx.bvSortSize(t)
}

// bvSortSize returns the size of t in bits. Panic if t is not a bit-vector sort.
func (ctx *Context) bvSortSize(t C.Z3_sort) uint {
	sz := uint(C.Z3_get_bv_sort_size(ctx.raw, t))
	if err := ctx.err("Z3_get_bv_sort_size"); err != nil {
		panic(err)
	}
	return sz
}

// makeArrayConst returns the base array with no updates: the memory
// variable's initial contents, or all zeros when the array has no root.
func (ctx *Context) makeArrayConst(array *gcl.Array) (C.Z3_ast, error) {
	domainSort := C.Z3_mk_bv_sort(ctx.raw, C.uint(gcl.Width64))
	if err := ctx.err("Z3_mk_bv_sort[domain]"); err != nil {
		return nil, err
	}

	if array.Root == nil {
		zero, err := ctx.makeUint64(gcl.Width8, 0)
		if err != nil {
			return nil, err
		}
		return C.Z3_mk_const_array(ctx.raw, domainSort, zero), ctx.err("Z3_mk_const_array")
	}

	rangeSort := C.Z3_mk_bv_sort(ctx.raw, C.uint(gcl.Width8))
	if err := ctx.err("Z3_mk_bv_sort[range]"); err != nil {
		return nil, err
	}
	arraySort := C.Z3_mk_array_sort(ctx.raw, domainSort, rangeSort)
	if err := ctx.err("Z3_mk_array_sort"); err != nil {
		return nil, err
	}
	return ctx.makeConst(arrayName(array), arraySort)
}

// makeArrayWithUpdate returns an array with updates recursively applied.
func (ctx *Context) makeArrayWithUpdate(root *gcl.Array, upd *gcl.ArrayUpdate) (C.Z3_ast, error) {
	if upd == nil {
		return ctx.makeArrayConst(root)
	}

	array, err := ctx.makeArrayWithUpdate(root, upd.Next)
	if err != nil {
		return nil, err
	}
	index, err := ctx.toAST(upd.Index)
	if err != nil {
		return nil, err
	}
	value, err := ctx.toAST(upd.Value)
	if err != nil {
		return nil, err
	}
	return C.Z3_mk_store(ctx.raw, array, index, value), ctx.err("Z3_mk_store")
}

// evalScalar evaluates ast against the model.
func (ctx *Context) evalScalar(model C.Z3_model, ast C.Z3_ast, width uint) (uint64, error) {
	var out C.Z3_ast
	C.Z3_model_eval(ctx.raw, model, ast, C.bool(true), &out)
	if err := ctx.err("Z3_model_eval"); err != nil {
		return 0, err
	}

	if width == gcl.WidthBool {
		if C.Z3_get_bool_value(ctx.raw, out) == C.Z3_L_TRUE {
			return 1, nil
		}
		return 0, ctx.err("Z3_get_bool_value")
	}

	var value C.uint64_t
	C.Z3_get_numeral_uint64(ctx.raw, out, &value)
	if err := ctx.err("Z3_get_numeral_uint64"); err != nil {
		return 0, err
	}
	return uint64(value), nil
}

// evalArray evaluates a single array into its initial byte slice value.
func (ctx *Context) evalArray(model C.Z3_model, array *gcl.Array) ([]byte, error) {
	z3Array, err := ctx.makeArrayConst(array)
	if err != nil {
		return nil, err
	}

	value := make([]byte, 0, array.Size)
	for offset := uint(0); offset < array.Size; offset++ {
		z3Offset, err := ctx.makeUint64(64, uint64(offset))
		if err != nil {
			return nil, err
		}

		// Generate an expression to select a single byte from the array.
		z3Select := C.Z3_mk_select(ctx.raw, z3Array, z3Offset)
		if err := ctx.err("Z3_mk_select"); err != nil {
			return nil, err
		}

		b, err := ctx.evalScalar(model, z3Select, gcl.Width8)
		if err != nil {
			return nil, err
		}
		value = append(value, byte(b))
	}
	return value, nil
}

func arrayName(array *gcl.Array) string {
	return fmt.Sprintf("m%d", array.Root.ID)
}

// Error represents an error from the Z3 API.
type Error struct {
	Code    int
	Op      string
	Message string
}

// Error returns the error as a string.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (%d)", e.Op, e.Message, e.Code)
}

// Possible error codes.
const (
	ErrorCodeOK = iota
	ErrorCodeSortError
	ErrorCodeIOB
	ErrorCodeInvalidArg
	ErrorCodeParserError
	ErrorCodeNoParser
	ErrorCodeInvalidPattern
	ErrorCodeMemoutFail
	ErrorCodeFileAccessError
	ErrorCodeInternalFatal
	ErrorCodeInvalidUsage
	ErrorCodeDecRefError
	ErrorCodeException
)

// Stats represents statistics about the solver.
type Stats struct {
	AssertN   int
	CheckN    int
	CheckTime time.Duration
}
