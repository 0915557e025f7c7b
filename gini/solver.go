// Package gini implements an incremental bit-vector solver on top of the
// pure Go gini SAT solver.
//
// Expressions are bit-blasted into a gini/logic circuit which is converted to
// CNF incrementally as constraints arrive. Scopes are implemented with
// activation literals: a constraint asserted in a scope only binds while that
// scope's literal is assumed, and popping a scope retires its literal for
// good.
package gini

import (
	"fmt"
	"time"

	"github.com/benbjohnson/gcl"
	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"
)

// Ensure solver implements interfaces.
var (
	_ gcl.Solver = (*Solver)(nil)
	_ gcl.Model  = (*Solver)(nil)
)

// Solver represents an incremental solver backed by gini.
type Solver struct {
	// Maximum time spent in a single Check. Zero means no limit.
	Timeout time.Duration

	c    *logic.C
	g    *gini.Gini
	mark []int8

	// Activation literals of open scopes, innermost last.
	scopes []z.Lit

	vars  map[uint64]bits   // scalar variable bits by var ID
	mems  map[uint64][]bits // memory variable bytes by var ID
	nodes map[gcl.Expr]bits // blasted nodes by identity
	reads map[uint64][]read // blasted array reads by structural hash

	sat   bool
	stats Stats
}

// bits holds the literals of a bit-vector, least significant bit first.
type bits []z.Lit

type read struct {
	expr gcl.Expr
	bits bits
}

// NewSolver returns a new instance of Solver.
func NewSolver() *Solver {
	return &Solver{
		c:     logic.NewC(),
		g:     gini.New(),
		vars:  make(map[uint64]bits),
		mems:  make(map[uint64][]bits),
		nodes: make(map[gcl.Expr]bits),
		reads: make(map[uint64][]read),
	}
}

// Stats returns statistics for the solver.
func (s *Solver) Stats() Stats {
	return s.stats
}

// Depth returns the number of open scopes.
func (s *Solver) Depth() int {
	return len(s.scopes)
}

// Assert adds a boolean constraint to the innermost scope.
func (s *Solver) Assert(expr gcl.Expr) error {
	if w := gcl.ExprWidth(expr); w != gcl.WidthBool {
		return fmt.Errorf("gini: assert: non-boolean constraint of width %d", w)
	}

	b, err := s.blast(expr)
	if err != nil {
		return err
	}
	root := b[0]

	s.stats.AssertN++
	s.sat = false
	if root == s.c.T {
		return nil
	}

	s.mark, _ = s.c.CnfSince(s.g, s.mark, root)
	if n := len(s.scopes); n > 0 {
		s.g.Add(s.scopes[n-1].Not())
	}
	s.g.Add(root)
	s.g.Add(0)
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

	// Scopes without constraints never reached the SAT solver.
	max := s.g.MaxVar()
	for _, act := range s.scopes {
		if act.Var() <= max {
			s.g.Assume(act)
		}
	}

	var ret int
	if s.Timeout > 0 {
		ret = s.g.Try(s.Timeout)
	} else {
		ret = s.g.Solve()
	}

	switch ret {
	case 1:
		s.sat = true
		return true, nil
	case -1:
		s.sat = false
		return false, nil
	default:
		s.sat = false
		if s.Timeout > 0 {
			return false, gcl.ErrSolverTimeout
		}
		return false, gcl.ErrSolverCanceled
	}
}

// Push opens a new scope.
func (s *Solver) Push() error {
	s.scopes = append(s.scopes, s.c.Lit())
	return nil
}

// Pop discards the innermost scope.
func (s *Solver) Pop() error {
	n := len(s.scopes)
	if n == 0 {
		return fmt.Errorf("%w: gini: pop on empty scope stack", gcl.ErrSolverProtocol)
	}
	act := s.scopes[n-1]
	s.scopes = s.scopes[:n-1]

	s.g.Add(act.Not())
	s.g.Add(0)
	s.sat = false
	return nil
}

// Value returns the value of v in the model found by the last Check.
// Variables that never appeared in a constraint are reported as zero.
func (s *Solver) Value(v *gcl.Var) (gcl.Binding, error) {
	if !s.sat {
		return nil, fmt.Errorf("%w: gini: no model available", gcl.ErrSolverProtocol)
	}

	if v.IsMemory() {
		mem := s.mems[v.ID]
		a := gcl.NewZeroArray(v.Size)
		for i := uint(0); i < v.Size; i++ {
			var b uint64
			if mem != nil {
				b = s.valueOf(mem[i])
			}
			a = a.Store(gcl.NewConstantExpr64(uint64(i)), gcl.NewConstantExpr8(b), true)
		}
		return a, nil
	}

	b, ok := s.vars[v.ID]
	if !ok {
		return gcl.NewConstantExpr(0, v.Width), nil
	}
	return gcl.NewConstantExpr(s.valueOf(b), v.Width), nil
}

func (s *Solver) valueOf(b bits) uint64 {
	var x uint64
	for i, m := range b {
		if s.litValue(m) {
			x |= 1 << uint(i)
		}
	}
	return x
}

func (s *Solver) litValue(m z.Lit) bool {
	switch {
	case m == s.c.T:
		return true
	case m == s.c.F:
		return false
	case m.Var() > s.g.MaxVar():
		return false
	}
	return s.g.Value(m)
}

// Stats represents statistics about the solver.
type Stats struct {
	AssertN   int
	CheckN    int
	CheckTime time.Duration
	CacheHits int
}
