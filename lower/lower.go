// Package lower translates acyclic Go SSA functions into passified
// structured programs.
package lower

import (
	"fmt"
	"go/token"
	"go/types"
	"runtime"

	"github.com/benbjohnson/gcl"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/tools/go/ssa"
)

// Import path of the package providing gcl.Assert.
const gclPath = "github.com/benbjohnson/gcl"

// Options configures lowering.
type Options struct {
	// Target architecture for integer sizes and byte order.
	// Defaults to runtime.GOARCH. See `go tool dist list`.
	Arch string

	Logger *zap.Logger
}

// Result is a lowered function.
type Result struct {
	Func *ssa.Function
	Prog gcl.Prog

	// Input variables, by parameter index.
	Params []*gcl.Var

	// Output variables, by result index. Assigned on every returning path.
	Results []*gcl.Var
}

// Func lowers fn to a passified structured program.
func Func(fn *ssa.Function, opts Options) (*Result, error) {
	l, err := NewLowerer(fn, opts)
	if err != nil {
		return nil, err
	}
	return l.Lower()
}

// CallHandler lowers a call to a registered function.
type CallHandler func(l *Lowerer, instr *ssa.Call) (gcl.Prog, error)

type funcKey struct {
	path string
	name string
}

// Lowerer translates a single function. Every SSA value is given exactly
// one variable so the output is passified by construction.
type Lowerer struct {
	fn     *ssa.Function
	arch   string
	sizes  types.Sizes
	logger *zap.Logger

	fns map[funcKey]CallHandler // registered call handlers

	ipdom   map[*ssa.BasicBlock]*ssa.BasicBlock
	vars    map[ssa.Value]*gcl.Var
	ptrs    map[ssa.Value]pointer
	allocs  map[*ssa.Alloc]*allocation
	order   []*allocation // allocations in creation order
	results []*gcl.Var
}

// NewLowerer returns a new instance of Lowerer.
func NewLowerer(fn *ssa.Function, opts Options) (*Lowerer, error) {
	arch := opts.Arch
	if arch == "" {
		arch = runtime.GOARCH
	}
	sizes := types.SizesFor("gc", arch)
	if sizes == nil {
		return nil, errors.Wrapf(gcl.ErrUnsupported, "architecture %q", arch)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	l := &Lowerer{
		fn:     fn,
		arch:   arch,
		sizes:  sizes,
		logger: logger,
		fns:    make(map[funcKey]CallHandler),
		vars:   make(map[ssa.Value]*gcl.Var),
		ptrs:   make(map[ssa.Value]pointer),
		allocs: make(map[*ssa.Alloc]*allocation),
	}

	// Default registrations.
	l.Register(gclPath, "Assert", lowerAssert)

	return l, nil
}

// Register registers a handler for calls to the named function. Builtins
// use an empty path.
func (l *Lowerer) Register(path, name string, h CallHandler) {
	l.fns[funcKey{path, name}] = h
}

// Lower translates the function. A Lowerer can only be used once.
func (l *Lowerer) Lower() (*Result, error) {
	fn := l.fn
	if len(fn.Blocks) == 0 {
		return nil, errors.Wrapf(gcl.ErrUnsupported, "%s: function has no body", fn)
	} else if len(fn.FreeVars) > 0 {
		return nil, errors.Wrapf(gcl.ErrUnsupported, "%s: closures", fn)
	}

	ipdom, err := postdominators(fn.Blocks[0])
	if err != nil {
		return nil, errors.Wrapf(err, "%s", fn)
	}
	l.ipdom = ipdom

	res := &Result{Func: fn}
	for _, p := range fn.Params {
		v, err := l.define(p)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: parameter %s", fn, p.Name())
		}
		res.Params = append(res.Params, v)
	}

	results := fn.Signature.Results()
	for i := 0; i < results.Len(); i++ {
		r := results.At(i)
		width, err := l.width(r.Type())
		if err != nil {
			return nil, errors.Wrapf(err, "%s: result %d", fn, i)
		}
		name := r.Name()
		if name == "" || name == "_" {
			name = fmt.Sprintf("r%d", i)
		}
		l.results = append(l.results, gcl.NewVar(name, width))
	}
	res.Results = l.results

	prog, err := l.region(newState(), nil, fn.Blocks[0], nil)
	if err != nil {
		return nil, err
	}
	res.Prog = prog
	return res, nil
}

// Sizes returns the type sizes of the target architecture.
func (l *Lowerer) Sizes() types.Sizes {
	return l.sizes
}

// Sizeof returns the size of typ in bits.
func (l *Lowerer) Sizeof(typ types.Type) uint {
	return uint(l.sizes.Sizeof(typ)) * 8
}

// IsLittleEndian returns true if the target architecture is little endian.
func (l *Lowerer) IsLittleEndian() bool {
	return IsLittleEndian(l.arch)
}

// IsLittleEndian returns true if arch is a little endian architecture.
func IsLittleEndian(arch string) bool {
	switch arch {
	case "ppc64", "mips", "mips64", "s390x":
		return false
	default:
		return true
	}
}

// Expr returns the expression for an already lowered value.
func (l *Lowerer) Expr(v ssa.Value) (gcl.Expr, error) {
	if c, ok := v.(*ssa.Const); ok {
		return l.constant(c)
	}
	if x, ok := l.vars[v]; ok {
		return gcl.NewVarExpr(x), nil
	} else if _, ok := l.ptrs[v]; ok {
		return nil, errors.Wrapf(gcl.ErrUnsupported, "pointer value %s", v.Name())
	}
	return nil, errors.Wrapf(gcl.ErrUnsupported, "value %s (%s)", v.Name(), v.Type())
}

// region lowers blocks starting at b until stop is reached or every path
// has left the function. from is the predecessor b is entered from, or nil
// if b's phis are already assigned.
func (l *Lowerer) region(st *state, from, b, stop *ssa.BasicBlock) (gcl.Prog, error) {
	var p gcl.Prog
	for {
		if from != nil {
			stmts, err := l.edge(from, b)
			if err != nil {
				return nil, err
			}
			p = append(p, stmts...)
		}
		if b == stop {
			return p, nil
		}

		l.logger.Debug("lower block",
			zap.String("func", l.fn.Name()),
			zap.Int("index", b.Index),
			zap.String("comment", b.Comment),
		)

		// A panicking block ends the path, so its body has no effect.
		term := b.Instrs[len(b.Instrs)-1]
		if _, ok := term.(*ssa.Panic); ok {
			return append(p, gcl.NewAssertStmt(gcl.NewBoolConstantExpr(false))), nil
		}

		stmts, err := l.translate(st, b.Instrs[:len(b.Instrs)-1])
		if err != nil {
			return nil, err
		}
		p = append(p, stmts...)

		switch term := term.(type) {
		case *ssa.Jump:
			from, b = b, b.Succs[0]

		case *ssa.If:
			stmt, err := l.ite(st, term)
			if err != nil {
				return nil, err
			}
			p = append(p, stmt)

			// Arms that never reconverge run to the end of the function.
			join := l.ipdom[b]
			if join == nil {
				return p, nil
			}
			from, b = nil, join

		case *ssa.Return:
			for i, r := range term.Results {
				x, err := l.Expr(r)
				if err != nil {
					return nil, l.wrap(err, term)
				}
				p = append(p, gcl.NewAssignStmt(l.results[i], x))
			}
			return p, nil

		default:
			return nil, l.unsupported(term)
		}
	}
}

// ite lowers both arms of a branch up to the branch's join point.
func (l *Lowerer) ite(st *state, instr *ssa.If) (gcl.Stmt, error) {
	b := instr.Block()
	cond, err := l.Expr(instr.Cond)
	if err != nil {
		return nil, l.wrap(err, instr)
	}

	join := l.ipdom[b]
	tst, fst := st.clone(), st.clone()
	then, err := l.region(tst, b, b.Succs[0], join)
	if err != nil {
		return nil, err
	}
	els, err := l.region(fst, b, b.Succs[1], join)
	if err != nil {
		return nil, err
	}

	if join != nil {
		then, els = l.joinMemory(st, tst, then, fst, els)
	}
	return gcl.NewIteStmt(cond, then, els), nil
}

// joinMemory assigns a fresh version in both arms for every allocation
// whose version differs between them and makes it current in st.
func (l *Lowerer) joinMemory(st, tst *state, then gcl.Prog, fst *state, els gcl.Prog) (gcl.Prog, gcl.Prog) {
	for _, a := range l.order {
		if _, ok := st.mem[a]; !ok {
			continue
		}
		vt, vf := tst.mem[a], fst.mem[a]
		if vt == vf {
			st.mem[a] = vt
			continue
		}

		v := a.next()
		then = append(then, gcl.NewAssignStmt(v, gcl.NewArray(vt, a.size)))
		els = append(els, gcl.NewAssignStmt(v, gcl.NewArray(vf, a.size)))
		st.mem[a] = v
	}
	return then, els
}

// edge assigns the phis of to for the edge entered from from.
func (l *Lowerer) edge(from, to *ssa.BasicBlock) (gcl.Prog, error) {
	index := -1
	for i, pred := range to.Preds {
		if pred == from {
			index = i
			break
		}
	}
	if index == -1 {
		return nil, errors.Wrapf(gcl.ErrMalformedInput, "block %d is not a predecessor of block %d", from.Index, to.Index)
	}

	var p gcl.Prog
	for _, instr := range to.Instrs {
		phi, ok := instr.(*ssa.Phi)
		if !ok {
			continue
		}

		v, err := l.define(phi)
		if err != nil {
			return nil, l.wrap(err, phi)
		}
		x, err := l.Expr(phi.Edges[index])
		if err != nil {
			return nil, l.wrap(err, phi)
		}
		p = append(p, gcl.NewAssignStmt(v, x))
	}
	return p, nil
}

// define returns the variable holding v, creating it on first use.
func (l *Lowerer) define(v ssa.Value) (*gcl.Var, error) {
	if x, ok := l.vars[v]; ok {
		return x, nil
	}
	width, err := l.width(v.Type())
	if err != nil {
		return nil, err
	}
	x := gcl.NewVar(v.Name(), width)
	l.vars[v] = x
	return x, nil
}

// width returns the bit width of a scalar type.
func (l *Lowerer) width(typ types.Type) (uint, error) {
	if basic, ok := typ.Underlying().(*types.Basic); ok {
		info := basic.Info()
		if info&types.IsBoolean != 0 {
			return gcl.WidthBool, nil
		} else if info&types.IsInteger != 0 {
			return l.Sizeof(typ), nil
		}
	}
	return 0, errors.Wrapf(gcl.ErrUnsupported, "type %s", typ)
}

// position returns the source position of pos, if known.
func (l *Lowerer) position(pos token.Pos) string {
	if !pos.IsValid() || l.fn.Prog == nil {
		return l.fn.String()
	}
	return l.fn.Prog.Fset.Position(pos).String()
}

// wrap adds the instruction and its position to err.
func (l *Lowerer) wrap(err error, instr ssa.Instruction) error {
	return errors.Wrapf(err, "%s: %s", l.position(instr.Pos()), instr)
}

func (l *Lowerer) unsupported(instr ssa.Instruction) error {
	return errors.Wrapf(gcl.ErrUnsupported, "%s: %T: %s", l.position(instr.Pos()), instr, instr)
}

// lowerAssert lowers gcl.Assert(cond).
func lowerAssert(l *Lowerer, instr *ssa.Call) (gcl.Prog, error) {
	if len(instr.Call.Args) != 1 {
		return nil, errors.Wrapf(gcl.ErrMalformedInput, "assert: expected 1 argument, got %d", len(instr.Call.Args))
	}
	cond, err := l.Expr(instr.Call.Args[0])
	if err != nil {
		return nil, err
	}
	return gcl.Prog{gcl.NewAssertStmt(cond)}, nil
}

// deref returns a pointer's element type; otherwise it returns typ.
func deref(typ types.Type) types.Type {
	if p, ok := typ.Underlying().(*types.Pointer); ok {
		return p.Elem()
	}
	return typ
}
