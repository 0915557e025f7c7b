package lower

import (
	"fmt"
	"go/constant"
	"go/token"
	"go/types"

	"github.com/benbjohnson/gcl"
	"github.com/pkg/errors"
	"golang.org/x/tools/go/ssa"
)

// allocation is a local memory object. Every store produces a new version.
type allocation struct {
	instr *ssa.Alloc
	size  uint // bytes
	n     int  // version sequence
}

// next returns a fresh version variable for the allocation.
func (a *allocation) next() *gcl.Var {
	v := gcl.NewMemoryVar(fmt.Sprintf("%s.%d", a.instr.Name(), a.n), a.size)
	a.n++
	return v
}

// pointer is an address within an allocation.
type pointer struct {
	alloc  *allocation
	offset gcl.Expr // 64-bit byte offset
}

// state holds the current memory version of each allocation on a path.
type state struct {
	mem map[*allocation]*gcl.Var
}

func newState() *state {
	return &state{mem: make(map[*allocation]*gcl.Var)}
}

func (s *state) clone() *state {
	other := newState()
	for a, v := range s.mem {
		other.mem[a] = v
	}
	return other
}

// translate lowers a straight-line sequence of instructions. Control
// transfers are not allowed.
func (l *Lowerer) translate(st *state, instrs []ssa.Instruction) (gcl.Prog, error) {
	var p gcl.Prog
	for _, instr := range instrs {
		stmts, err := l.instr(st, instr)
		if err != nil {
			return nil, err
		}
		p = append(p, stmts...)
	}
	return p, nil
}

func (l *Lowerer) instr(st *state, instr ssa.Instruction) (gcl.Prog, error) {
	switch instr := instr.(type) {
	case *ssa.Phi, *ssa.DebugRef:
		return nil, nil
	case *ssa.Alloc:
		return l.alloc(st, instr)
	case *ssa.BinOp:
		return l.binOp(instr)
	case *ssa.UnOp:
		return l.unOp(st, instr)
	case *ssa.Convert:
		return l.convert(instr)
	case *ssa.ChangeType:
		return l.changeType(instr)
	case *ssa.FieldAddr:
		return l.fieldAddr(instr)
	case *ssa.IndexAddr:
		return l.indexAddr(instr)
	case *ssa.Store:
		return l.store(st, instr)
	case *ssa.Call:
		return l.call(instr)
	case *ssa.If, *ssa.Jump, *ssa.Return, *ssa.Panic:
		return nil, errors.Wrapf(gcl.ErrMalformedInput, "%s: control transfer in straight-line code: %s", l.position(instr.Pos()), instr)
	default:
		return nil, l.unsupported(instr)
	}
}

// assign binds the value of instr to x.
func (l *Lowerer) assign(instr ssa.Value, x gcl.Expr) (gcl.Prog, error) {
	v, err := l.define(instr)
	if err != nil {
		return nil, err
	}
	return gcl.Prog{gcl.NewAssignStmt(v, x)}, nil
}

func (l *Lowerer) alloc(st *state, instr *ssa.Alloc) (gcl.Prog, error) {
	size := uint(l.sizes.Sizeof(deref(instr.Type())))
	if size == 0 {
		return nil, l.unsupported(instr)
	}

	a, ok := l.allocs[instr]
	if !ok {
		a = &allocation{instr: instr, size: size}
		l.allocs[instr] = a
		l.order = append(l.order, a)
	}
	l.ptrs[instr] = pointer{alloc: a, offset: gcl.NewConstantExpr64(0)}

	v := a.next()
	st.mem[a] = v
	return gcl.Prog{gcl.NewAssignStmt(v, gcl.NewZeroArray(size))}, nil
}

func (l *Lowerer) binOp(instr *ssa.BinOp) (gcl.Prog, error) {
	basic, ok := instr.X.Type().Underlying().(*types.Basic)
	if !ok {
		return nil, l.unsupported(instr)
	}

	x, err := l.Expr(instr.X)
	if err != nil {
		return nil, l.wrap(err, instr)
	}
	y, err := l.Expr(instr.Y)
	if err != nil {
		return nil, l.wrap(err, instr)
	}

	info := basic.Info()
	switch {
	case info&types.IsBoolean != 0:
		value, err := binOpBoolean(instr.Op, x, y)
		if err != nil {
			return nil, l.wrap(err, instr)
		}
		return l.assign(instr, value)

	case info&types.IsInteger != 0:
		// Division by zero and negative shift counts panic.
		var cond gcl.Expr = gcl.NewBoolConstantExpr(true)
		switch instr.Op {
		case token.QUO, token.REM:
			cond = gcl.NewBinaryExpr(gcl.NE, y, gcl.NewConstantExpr(0, gcl.ExprWidth(y)))
		case token.SHL, token.SHR:
			if isSigned(instr.Y.Type()) {
				cond = gcl.NewBinaryExpr(gcl.SGE, y, gcl.NewConstantExpr(0, gcl.ExprWidth(y)))
			}
		}
		var p gcl.Prog
		if !gcl.IsConstantTrue(cond) {
			p = append(p, gcl.NewAssertStmt(cond))
		}

		value, err := binOpInteger(instr.Op, x, y, info&types.IsUnsigned == 0)
		if err != nil {
			return nil, l.wrap(err, instr)
		}
		stmts, err := l.assign(instr, value)
		if err != nil {
			return nil, l.wrap(err, instr)
		}
		return append(p, stmts...), nil

	default:
		return nil, l.unsupported(instr)
	}
}

func binOpBoolean(op token.Token, x, y gcl.Expr) (gcl.Expr, error) {
	switch op {
	case token.AND:
		return gcl.NewBinaryExpr(gcl.AND, x, y), nil
	case token.OR:
		return gcl.NewBinaryExpr(gcl.OR, x, y), nil
	case token.EQL:
		return gcl.NewBinaryExpr(gcl.EQ, x, y), nil
	case token.NEQ:
		return gcl.NewBinaryExpr(gcl.NE, x, y), nil
	default:
		return nil, errors.Wrapf(gcl.ErrUnsupported, "boolean operator %s", op)
	}
}

func binOpInteger(op token.Token, x, y gcl.Expr, signed bool) (gcl.Expr, error) {
	switch op {
	case token.ADD:
		return gcl.NewBinaryExpr(gcl.ADD, x, y), nil
	case token.SUB:
		return gcl.NewBinaryExpr(gcl.SUB, x, y), nil
	case token.MUL:
		return gcl.NewBinaryExpr(gcl.MUL, x, y), nil
	case token.QUO:
		if signed {
			return gcl.NewBinaryExpr(gcl.SDIV, x, y), nil
		}
		return gcl.NewBinaryExpr(gcl.UDIV, x, y), nil
	case token.REM:
		if signed {
			return gcl.NewBinaryExpr(gcl.SREM, x, y), nil
		}
		return gcl.NewBinaryExpr(gcl.UREM, x, y), nil
	case token.AND:
		return gcl.NewBinaryExpr(gcl.AND, x, y), nil
	case token.OR:
		return gcl.NewBinaryExpr(gcl.OR, x, y), nil
	case token.XOR:
		return gcl.NewBinaryExpr(gcl.XOR, x, y), nil
	case token.AND_NOT:
		return gcl.NewBinaryExpr(gcl.AND, x, gcl.NewNotExpr(y)), nil
	case token.SHL:
		return shift(gcl.SHL, x, y, signed), nil
	case token.SHR:
		if signed {
			return shift(gcl.ASHR, x, y, signed), nil
		}
		return shift(gcl.LSHR, x, y, signed), nil
	case token.EQL:
		return gcl.NewBinaryExpr(gcl.EQ, x, y), nil
	case token.NEQ:
		return gcl.NewBinaryExpr(gcl.NE, x, y), nil
	case token.LSS:
		if signed {
			return gcl.NewBinaryExpr(gcl.SLT, x, y), nil
		}
		return gcl.NewBinaryExpr(gcl.ULT, x, y), nil
	case token.LEQ:
		if signed {
			return gcl.NewBinaryExpr(gcl.SLE, x, y), nil
		}
		return gcl.NewBinaryExpr(gcl.ULE, x, y), nil
	case token.GTR:
		if signed {
			return gcl.NewBinaryExpr(gcl.SGT, x, y), nil
		}
		return gcl.NewBinaryExpr(gcl.UGT, x, y), nil
	case token.GEQ:
		if signed {
			return gcl.NewBinaryExpr(gcl.SGE, x, y), nil
		}
		return gcl.NewBinaryExpr(gcl.UGE, x, y), nil
	default:
		return nil, errors.Wrapf(gcl.ErrUnsupported, "integer operator %s", op)
	}
}

// shift returns x shifted by y. The count may have any integer width, so a
// wider count is applied at its own width and the result truncated.
func shift(op gcl.BinaryOp, x, y gcl.Expr, signed bool) gcl.Expr {
	xw, yw := gcl.ExprWidth(x), gcl.ExprWidth(y)
	if yw <= xw {
		return gcl.NewBinaryExpr(op, x, gcl.NewCastExpr(y, xw, false))
	}
	return gcl.NewCastExpr(gcl.NewBinaryExpr(op, gcl.NewCastExpr(x, yw, signed), y), xw, false)
}

func (l *Lowerer) unOp(st *state, instr *ssa.UnOp) (gcl.Prog, error) {
	if instr.Op == token.MUL {
		return l.load(st, instr)
	}

	x, err := l.Expr(instr.X)
	if err != nil {
		return nil, l.wrap(err, instr)
	}

	var value gcl.Expr
	switch instr.Op {
	case token.NOT:
		value = gcl.NewIsZeroExpr(x)
	case token.SUB:
		value = gcl.NewBinaryExpr(gcl.SUB, gcl.NewConstantExpr(0, gcl.ExprWidth(x)), x)
	case token.XOR:
		value = gcl.NewNotExpr(x)
	default:
		return nil, l.unsupported(instr)
	}

	stmts, err := l.assign(instr, value)
	if err != nil {
		return nil, l.wrap(err, instr)
	}
	return stmts, nil
}

func (l *Lowerer) convert(instr *ssa.Convert) (gcl.Prog, error) {
	src, ok := instr.X.Type().Underlying().(*types.Basic)
	if !ok || src.Info()&types.IsInteger == 0 {
		return nil, l.unsupported(instr)
	}
	dst, ok := instr.Type().Underlying().(*types.Basic)
	if !ok || dst.Info()&types.IsInteger == 0 {
		return nil, l.unsupported(instr)
	}

	x, err := l.Expr(instr.X)
	if err != nil {
		return nil, l.wrap(err, instr)
	}
	signed := src.Info()&types.IsUnsigned == 0
	return l.assign(instr, gcl.NewCastExpr(x, l.Sizeof(dst), signed))
}

func (l *Lowerer) changeType(instr *ssa.ChangeType) (gcl.Prog, error) {
	if p, ok := l.ptrs[instr.X]; ok {
		l.ptrs[instr] = p
		return nil, nil
	}

	x, err := l.Expr(instr.X)
	if err != nil {
		return nil, l.wrap(err, instr)
	}
	stmts, err := l.assign(instr, x)
	if err != nil {
		return nil, l.wrap(err, instr)
	}
	return stmts, nil
}

func (l *Lowerer) fieldAddr(instr *ssa.FieldAddr) (gcl.Prog, error) {
	p, ok := l.ptrs[instr.X]
	if !ok {
		return nil, l.unsupported(instr)
	}
	typ, ok := deref(instr.X.Type()).Underlying().(*types.Struct)
	if !ok {
		return nil, l.unsupported(instr)
	}

	fields := make([]*types.Var, typ.NumFields())
	for i := range fields {
		fields[i] = typ.Field(i)
	}
	offset := l.sizes.Offsetsof(fields)[instr.Field]

	l.ptrs[instr] = pointer{
		alloc:  p.alloc,
		offset: gcl.NewBinaryExpr(gcl.ADD, p.offset, gcl.NewConstantExpr64(uint64(offset))),
	}
	return nil, nil
}

func (l *Lowerer) indexAddr(instr *ssa.IndexAddr) (gcl.Prog, error) {
	p, ok := l.ptrs[instr.X]
	if !ok {
		return nil, l.unsupported(instr)
	}
	typ, ok := deref(instr.X.Type()).Underlying().(*types.Array)
	if !ok {
		return nil, l.unsupported(instr)
	}

	x, err := l.Expr(instr.Index)
	if err != nil {
		return nil, l.wrap(err, instr)
	}
	index := gcl.NewCastExpr(x, gcl.Width64, isSigned(instr.Index.Type()))
	elemSize := gcl.NewConstantExpr64(uint64(l.sizes.Sizeof(typ.Elem())))

	l.ptrs[instr] = pointer{
		alloc:  p.alloc,
		offset: gcl.NewBinaryExpr(gcl.ADD, p.offset, gcl.NewBinaryExpr(gcl.MUL, index, elemSize)),
	}

	// Out of range indexes panic. Negative indexes wrap to large unsigned values.
	if gcl.IsConstantExpr(index) {
		return nil, nil
	}
	return gcl.Prog{gcl.NewAssertStmt(gcl.NewBinaryExpr(gcl.ULT, index, gcl.NewConstantExpr64(uint64(typ.Len()))))}, nil
}

func (l *Lowerer) load(st *state, instr *ssa.UnOp) (gcl.Prog, error) {
	p, ok := l.ptrs[instr.X]
	if !ok {
		return nil, l.unsupported(instr)
	}
	cur, ok := st.mem[p.alloc]
	if !ok {
		return nil, errors.Wrapf(gcl.ErrMalformedInput, "%s: load from unallocated %s", l.position(instr.Pos()), p.alloc.instr.Name())
	}

	width, err := l.width(instr.Type())
	if err != nil {
		return nil, l.wrap(err, instr)
	}
	value := gcl.NewArray(cur, p.alloc.size).Select(p.offset, width, l.IsLittleEndian())
	return l.assign(instr, value)
}

func (l *Lowerer) store(st *state, instr *ssa.Store) (gcl.Prog, error) {
	p, ok := l.ptrs[instr.Addr]
	if !ok {
		return nil, l.unsupported(instr)
	}
	cur, ok := st.mem[p.alloc]
	if !ok {
		return nil, errors.Wrapf(gcl.ErrMalformedInput, "%s: store to unallocated %s", l.position(instr.Pos()), p.alloc.instr.Name())
	}
	array := gcl.NewArray(cur, p.alloc.size)

	if c, ok := instr.Val.(*ssa.Const); ok && c.Value == nil && !isScalar(c.Type()) {
		// Zero value of an aggregate.
		for i := int64(0); i < l.sizes.Sizeof(c.Type()); i++ {
			offset := gcl.NewBinaryExpr(gcl.ADD, p.offset, gcl.NewConstantExpr64(uint64(i)))
			array = array.Store(offset, gcl.NewConstantExpr8(0), l.IsLittleEndian())
		}
	} else {
		value, err := l.Expr(instr.Val)
		if err != nil {
			return nil, l.wrap(err, instr)
		}
		// Booleans occupy a full byte.
		if gcl.ExprWidth(value) == gcl.WidthBool {
			value = gcl.NewCastExpr(value, gcl.Width8, false)
		}
		array = array.Store(p.offset, value, l.IsLittleEndian())
	}

	v := p.alloc.next()
	st.mem[p.alloc] = v
	return gcl.Prog{gcl.NewAssignStmt(v, array)}, nil
}

func (l *Lowerer) call(instr *ssa.Call) (gcl.Prog, error) {
	if instr.Call.IsInvoke() {
		return nil, l.unsupported(instr)
	}

	var key funcKey
	switch fn := instr.Call.Value.(type) {
	case *ssa.Function:
		if fn.Pkg == nil {
			return nil, l.unsupported(instr)
		}
		key = funcKey{fn.Pkg.Pkg.Path(), fn.Name()}
	case *ssa.Builtin:
		key = funcKey{"", fn.Name()}
	default:
		return nil, l.unsupported(instr)
	}

	h := l.fns[key]
	if h == nil {
		return nil, l.unsupported(instr)
	}
	p, err := h(l, instr)
	if err != nil {
		return nil, l.wrap(err, instr)
	}
	return p, nil
}

// constant returns the expression for a scalar constant.
func (l *Lowerer) constant(c *ssa.Const) (gcl.Expr, error) {
	width, err := l.width(c.Type())
	if err != nil {
		return nil, err
	} else if c.Value == nil {
		return gcl.NewConstantExpr(0, width), nil
	}

	switch c.Value.Kind() {
	case constant.Bool:
		return gcl.NewBoolConstantExpr(constant.BoolVal(c.Value)), nil
	case constant.Int:
		if u, exact := constant.Uint64Val(c.Value); exact {
			return gcl.NewConstantExpr(u, width), nil
		}
		i, _ := constant.Int64Val(c.Value)
		return gcl.NewConstantExpr(uint64(i), width), nil
	default:
		return nil, errors.Wrapf(gcl.ErrUnsupported, "constant %s", c)
	}
}

func isScalar(typ types.Type) bool {
	basic, ok := typ.Underlying().(*types.Basic)
	return ok && basic.Info()&(types.IsBoolean|types.IsInteger) != 0
}

func isSigned(typ types.Type) bool {
	basic, ok := typ.Underlying().(*types.Basic)
	return ok && basic.Info()&types.IsUnsigned == 0
}
