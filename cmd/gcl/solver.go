package main

import (
	"time"

	"github.com/benbjohnson/gcl"
	"github.com/benbjohnson/gcl/gini"
	"github.com/benbjohnson/gcl/internal/config"
	"github.com/pkg/errors"
)

// Solver is a solver backend that reports models.
type Solver interface {
	gcl.Solver
	gcl.Model
	Close() error
}

// solvers holds the available backends by name.
var solvers = map[string]func(timeout time.Duration) Solver{
	config.SolverGini: newGiniSolver,
}

// newSolver returns the backend named in the configuration.
func (m *Main) newSolver() (Solver, error) {
	fn := solvers[m.Config.Solver]
	if fn == nil {
		return nil, errors.Errorf("solver %q not available in this build", m.Config.Solver)
	}
	return fn(m.Config.Timeout), nil
}

type giniSolver struct {
	*gini.Solver
}

func newGiniSolver(timeout time.Duration) Solver {
	s := gini.NewSolver()
	s.Timeout = timeout
	return giniSolver{s}
}

func (giniSolver) Close() error { return nil }
