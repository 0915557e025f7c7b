package gcl

import (
	"fmt"
	"sync/atomic"
)

// Var represents a program variable. Scalar variables have a bit width while
// memory variables have a size in bytes. Variables are identified by ID; two
// *Var values with the same ID refer to the same variable.
type Var struct {
	ID    uint64
	Name  string
	Width uint // bit width, scalar variables only
	Size  uint // byte size, memory variables only
}

var varID uint64

// NewVar returns a new scalar variable with a unique ID.
func NewVar(name string, width uint) *Var {
	assert(width > 0 && width <= Width64, "invalid var width: %d", width)
	return &Var{ID: atomic.AddUint64(&varID, 1), Name: name, Width: width}
}

// NewMemoryVar returns a new memory variable with a unique ID.
func NewMemoryVar(name string, size uint) *Var {
	assert(size > 0, "memory var requires a non-zero size")
	return &Var{ID: atomic.AddUint64(&varID, 1), Name: name, Size: size}
}

// IsMemory returns true if v names a memory object.
func (v *Var) IsMemory() bool {
	return v.Size > 0
}

// String returns the name of the variable.
func (v *Var) String() string {
	if v.Name != "" {
		return v.Name
	}
	return fmt.Sprintf("v%d", v.ID)
}

// Ref returns the binding that reads the current value of v: a VarExpr for
// scalars or a root-only array for memory.
func (v *Var) Ref() Binding {
	if v.IsMemory() {
		return NewArray(v, v.Size)
	}
	return NewVarExpr(v)
}

// CompareVar returns an integer comparing two variables by ID.
func CompareVar(a, b *Var) int {
	if a == nil && b != nil {
		return -1
	} else if a != nil && b == nil {
		return 1
	} else if a == nil && b == nil {
		return 0
	}
	return compareUint(a.ID, b.ID)
}

// varComparer orders variables for use as sorted map keys.
type varComparer struct{}

func (varComparer) Compare(a, b *Var) int { return CompareVar(a, b) }

// Binding represents anything a variable may be bound to: an expression for
// scalars or an array for memory.
type Binding interface {
	binding()
	String() string
}

func (*BinaryExpr) binding()   {}
func (*CastExpr) binding()     {}
func (*ConcatExpr) binding()   {}
func (*ConstantExpr) binding() {}
func (*ExtractExpr) binding()  {}
func (*NotExpr) binding()      {}
func (*SelectExpr) binding()   {}
func (*VarExpr) binding()      {}
func (*Array) binding()        {}

// CompareBinding returns an integer comparing two bindings. Expressions sort
// before arrays.
func CompareBinding(a, b Binding) int {
	switch a := a.(type) {
	case Expr:
		if other, ok := b.(Expr); ok {
			return CompareExpr(a, other)
		} else if b == nil {
			return 1
		}
		return -1
	case *Array:
		if b, ok := b.(*Array); ok {
			return CompareArray(a, b)
		}
		return 1
	default:
		if b == nil {
			return 0
		}
		return -1
	}
}

// ValueKind distinguishes evaluated values.
type ValueKind int

const (
	// Symbolic values could not be reduced to a constant.
	Symbolic ValueKind = iota

	// Concrete values are constant scalars or fully concrete arrays.
	Concrete
)

// String returns the name of the kind.
func (k ValueKind) String() string {
	switch k {
	case Concrete:
		return "concrete"
	case Symbolic:
		return "symbolic"
	default:
		return fmt.Sprintf("ValueKind<%d>", int(k))
	}
}

// Value is the result of simplifying a binding under a value context.
type Value struct {
	Kind    ValueKind
	Binding Binding
}

// ConcreteValue returns a concrete value for a constant or concrete array.
func ConcreteValue(b Binding) Value {
	return Value{Kind: Concrete, Binding: b}
}

// SymbolicValue returns a symbolic value wrapping b.
func SymbolicValue(b Binding) Value {
	return Value{Kind: Symbolic, Binding: b}
}

// ValueOf classifies b as concrete or symbolic.
func ValueOf(b Binding) Value {
	switch b := b.(type) {
	case *ConstantExpr:
		return ConcreteValue(b)
	case *Array:
		if !b.IsSymbolic() {
			return ConcreteValue(b)
		}
	}
	return SymbolicValue(b)
}

// IsConcrete returns true if the value is concrete.
func (v Value) IsConcrete() bool { return v.Kind == Concrete }

// Constant returns the scalar constant, if v is one.
func (v Value) Constant() (*ConstantExpr, bool) {
	if v.Kind != Concrete {
		return nil, false
	}
	k, ok := v.Binding.(*ConstantExpr)
	return k, ok
}

// Memory returns the concrete array, if v is one.
func (v Value) Memory() (*Array, bool) {
	if v.Kind != Concrete {
		return nil, false
	}
	a, ok := v.Binding.(*Array)
	return a, ok
}

// Equal returns true if both values have the same kind and identical bindings.
func (v Value) Equal(other Value) bool {
	return v.Kind == other.Kind && CompareBinding(v.Binding, other.Binding) == 0
}

// String returns the string representation of the value.
func (v Value) String() string {
	return fmt.Sprintf("%s:%s", v.Kind, v.Binding)
}
