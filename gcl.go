package gcl

import (
	"errors"
	"fmt"
)

// Standard widths.
const (
	WidthBool = 1
	Width8    = 8
	Width16   = 16
	Width32   = 32
	Width64   = 64
)

// Solver errors.
var (
	ErrSolverTimeout       = errors.New("Solver timeout")
	ErrSolverCanceled      = errors.New("Solver canceled")
	ErrSolverResourceLimit = errors.New("Solver resource limit")
	ErrSolverUnknown       = errors.New("Solver unknown error")
)

// Evaluation errors. None of them are recoverable except ErrNotBound, which
// only signals that a value must be read from the formula instead.
var (
	ErrNotBound           = errors.New("gcl: variable not bound")
	ErrMalformedInput     = errors.New("gcl: malformed input")
	ErrUnsupported        = errors.New("gcl: unsupported construct")
	ErrInvariantViolation = errors.New("gcl: internal invariant violation")
	ErrSolverProtocol     = errors.New("gcl: solver protocol misuse")
)

// Assert marks cond as a program assertion. Calls to Assert are lowered to
// assert statements; at runtime it is a no-op.
func Assert(cond bool) {}

// assert panics if condition is false.
func assert(condition bool, format string, args ...interface{}) {
	if !condition {
		panic(fmt.Sprintf("assert: "+format, args...))
	}
}
