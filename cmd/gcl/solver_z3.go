//go:build z3

package main

import (
	"time"

	"github.com/benbjohnson/gcl/internal/config"
	"github.com/benbjohnson/gcl/z3"
)

func init() {
	solvers[config.SolverZ3] = func(timeout time.Duration) Solver {
		s := z3.NewSolver()
		s.Timeout = timeout
		return s
	}
}
