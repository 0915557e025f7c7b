package gcl

import (
	"fmt"
)

// Solver represents an incremental constraint solver with a stack of
// assertion scopes.
type Solver interface {
	// Assert adds a boolean constraint to the current scope.
	Assert(expr Expr) error

	// Check returns true if the conjunction of all live constraints is
	// satisfiable.
	Check() (bool, error)

	// Push opens a new scope.
	Push() error

	// Pop discards the innermost scope and every constraint asserted in it.
	Pop() error
}

// Model is implemented by solvers that can report a satisfying assignment
// after a successful Check.
type Model interface {
	// Value returns the value of v in the current model: a constant for a
	// scalar variable or a concrete array for a memory variable.
	Value(v *Var) (Binding, error)
}

// Feasibility classifies a branch condition against the current path.
type Feasibility int

const (
	// Unsat means the condition cannot hold on this path.
	Unsat Feasibility = iota

	// Sat means the condition may hold on this path.
	Sat

	// Valid means the condition is the literal true.
	Valid
)

// String returns the name of the feasibility class.
func (f Feasibility) String() string {
	switch f {
	case Unsat:
		return "unsat"
	case Sat:
		return "sat"
	case Valid:
		return "valid"
	default:
		return fmt.Sprintf("Feasibility<%d>", int(f))
	}
}

// scopedSolver wraps a Solver and tracks scope depth so unbalanced use of
// Push and Pop is reported instead of corrupting the caller's solver state.
type scopedSolver struct {
	Solver
	depth int
}

func newScopedSolver(s Solver) *scopedSolver {
	return &scopedSolver{Solver: s}
}

func (s *scopedSolver) Push() error {
	if err := s.Solver.Push(); err != nil {
		return err
	}
	s.depth++
	return nil
}

func (s *scopedSolver) Pop() error {
	if s.depth == 0 {
		return fmt.Errorf("%w: pop without matching push", ErrSolverProtocol)
	}
	if err := s.Solver.Pop(); err != nil {
		return err
	}
	s.depth--
	return nil
}

// withScope runs fn inside a new solver scope. The scope is popped on every
// exit path, including panics.
func (s *scopedSolver) withScope(fn func() error) (err error) {
	if err := s.Push(); err != nil {
		return err
	}
	defer func() {
		if e := s.Pop(); e != nil && err == nil {
			err = e
		}
	}()
	return fn()
}

// feasibility checks cond under a temporary scope.
func (s *scopedSolver) feasibility(cond Expr) (Feasibility, error) {
	switch {
	case IsConstantTrue(cond):
		return Valid, nil
	case IsConstantFalse(cond):
		return Unsat, nil
	}

	var sat bool
	if err := s.withScope(func() (err error) {
		if err := s.Assert(cond); err != nil {
			return err
		}
		sat, err = s.Check()
		return err
	}); err != nil {
		return Unsat, err
	}
	if sat {
		return Sat, nil
	}
	return Unsat, nil
}
