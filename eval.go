package gcl

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Strategy names an evaluation strategy.
type Strategy string

// Evaluation strategies.
const (
	StrategyNaiveUnpassified Strategy = "naive-unpassified"
	StrategyNaive            Strategy = "naive"
	StrategyEfse             Strategy = "efse"
	StrategyEfseFeas         Strategy = "efse-feas"
)

// Strategies lists every supported strategy.
var Strategies = []Strategy{StrategyNaiveUnpassified, StrategyNaive, StrategyEfse, StrategyEfseFeas}

// ParseStrategy returns the strategy with the given name.
func ParseStrategy(s string) (Strategy, error) {
	for _, strategy := range Strategies {
		if string(strategy) == s {
			return strategy, nil
		}
	}
	return "", fmt.Errorf("unknown strategy: %q", s)
}

// Evaluator builds path conditions for structured programs. The value
// context implementation is chosen by D.
//
// An Evaluator is not safe for concurrent use when a Solver is attached.
type Evaluator[D Delta[D]] struct {
	// Returns an empty value context. Required.
	NewDelta func() D

	// Incremental solver used by EfseFeas. EfseFeas owns the solver's scope
	// stack for the duration of the call and leaves it as it found it.
	Solver Solver

	Logger *zap.Logger
}

// NewEvaluator returns a new Evaluator using newDelta for empty contexts.
func NewEvaluator[D Delta[D]](newDelta func() D) *Evaluator[D] {
	return &Evaluator[D]{
		NewDelta: newDelta,
		Logger:   zap.NewNop(),
	}
}

func (e *Evaluator[D]) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

// Eval evaluates p from an empty context with the given strategy and returns
// the resulting path condition.
func (e *Evaluator[D]) Eval(ctx context.Context, strategy Strategy, p Prog, pi Expr) (Expr, error) {
	d := e.NewDelta()
	switch strategy {
	case StrategyNaiveUnpassified:
		return e.NaiveUnpassified(d, p, pi)
	case StrategyNaive:
		return e.Naive(d, p, pi)
	case StrategyEfse:
		_, pi, err := e.Efse(d, p, pi)
		return pi, err
	case StrategyEfseFeas:
		_, pi, err := e.EfseFeas(ctx, d, p, pi)
		return pi, err
	default:
		return nil, fmt.Errorf("unknown strategy: %q", strategy)
	}
}

// NaiveUnpassified evaluates a program whose variables may be reassigned.
// Assignments become substitutions in the context, so the result only
// mentions variables that are never assigned. At every branch the remainder
// of the program is evaluated once per arm, so the result may grow
// exponentially with the number of sequential branches.
//
// The context must retain every binding it is given; NopDelta is not valid
// here.
func (e *Evaluator[D]) NaiveUnpassified(d D, p Prog, pi Expr) (Expr, error) {
	for i, s := range p {
		if IsConstantFalse(pi) {
			return pi, nil
		}

		switch s := s.(type) {
		case *AssignStmt:
			d = d.Set(s.Var, d.Simplify(s.Value))

		case *AssertStmt:
			pi = NewBinaryExpr(AND, pi, simplifyExpr(d, s.Cond))

		case *IteStmt:
			cond, tail := simplifyExpr(d, s.Cond), p[i+1:]
			if IsConstantTrue(cond) {
				return e.NaiveUnpassified(d, concatProg(s.Then, tail), pi)
			} else if IsConstantFalse(cond) {
				return e.NaiveUnpassified(d, concatProg(s.Else, tail), pi)
			}

			pt, err := e.NaiveUnpassified(d, concatProg(s.Then, tail), NewBinaryExpr(AND, pi, cond))
			if err != nil {
				return nil, err
			}
			pf, err := e.NaiveUnpassified(d, concatProg(s.Else, tail), NewBinaryExpr(AND, pi, NewIsZeroExpr(cond)))
			if err != nil {
				return nil, err
			}
			return NewBinaryExpr(OR, pt, pf), nil

		default:
			return nil, fmt.Errorf("%w: statement %T", ErrUnsupported, s)
		}
	}
	return pi, nil
}

// Naive evaluates a passified program by duplicating the remainder of the
// program into both arms of every branch. Assignments are recorded in the
// formula and, when concrete, cached in the context.
func (e *Evaluator[D]) Naive(d D, p Prog, pi Expr) (Expr, error) {
	for i, s := range p {
		if IsConstantFalse(pi) {
			return pi, nil
		}

		switch s := s.(type) {
		case *AssignStmt:
			var eq Expr
			d, eq = recordAssign(d, s)
			pi = NewBinaryExpr(AND, pi, eq)

		case *AssertStmt:
			pi = NewBinaryExpr(AND, pi, simplifyExpr(d, s.Cond))

		case *IteStmt:
			cond, tail := simplifyExpr(d, s.Cond), p[i+1:]
			if IsConstantTrue(cond) {
				return e.Naive(d, concatProg(s.Then, tail), pi)
			} else if IsConstantFalse(cond) {
				return e.Naive(d, concatProg(s.Else, tail), pi)
			}

			pt, err := e.Naive(d, concatProg(s.Then, tail), NewBinaryExpr(AND, pi, cond))
			if err != nil {
				return nil, err
			}
			pf, err := e.Naive(d, concatProg(s.Else, tail), NewBinaryExpr(AND, pi, NewIsZeroExpr(cond)))
			if err != nil {
				return nil, err
			}
			return NewBinaryExpr(OR, pt, pf), nil

		default:
			return nil, fmt.Errorf("%w: statement %T", ErrUnsupported, s)
		}
	}
	return pi, nil
}

// Efse evaluates a passified program visiting every statement exactly once.
// Both arms of a branch are evaluated independently, their contexts merged,
// and the remainder evaluated once against the merged context:
//
//	pi ∧ (pt ∨ pf) ∧ ptail
//
// The result grows linearly with the size of the program.
func (e *Evaluator[D]) Efse(d D, p Prog, pi Expr) (D, Expr, error) {
	for i, s := range p {
		if IsConstantFalse(pi) {
			return d, pi, nil
		}

		switch s := s.(type) {
		case *AssignStmt:
			var eq Expr
			d, eq = recordAssign(d, s)
			pi = NewBinaryExpr(AND, pi, eq)

		case *AssertStmt:
			pi = NewBinaryExpr(AND, pi, simplifyExpr(d, s.Cond))

		case *IteStmt:
			cond := simplifyExpr(d, s.Cond)
			if IsConstantTrue(cond) || IsConstantFalse(cond) {
				arm := s.Then
				if IsConstantFalse(cond) {
					arm = s.Else
				}
				var err error
				if d, pi, err = e.Efse(d, arm, pi); err != nil {
					return d, nil, err
				}
				continue
			}

			dt, pt, err := e.Efse(d, s.Then, cond)
			if err != nil {
				return d, nil, err
			}
			df, pf, err := e.Efse(d, s.Else, NewIsZeroExpr(cond))
			if err != nil {
				return d, nil, err
			}

			joined, either := joinArms(dt, pt, df, pf)
			if IsConstantFalse(either) {
				return d, either, nil
			}

			dd, ptail, err := e.Efse(joined, p[i+1:], NewBoolConstantExpr(true))
			if err != nil {
				return d, nil, err
			}
			return dd, NewAndExpr(pi, either, ptail), nil

		default:
			return d, nil, fmt.Errorf("%w: statement %T", ErrUnsupported, s)
		}
	}
	return d, pi, nil
}

// EfseFeas evaluates like Efse but consults the Solver at every branch with a
// non-literal condition and skips arms that are infeasible on the current
// path. Every recorded equality and assertion is also asserted into the
// solver so it tracks the path being explored.
//
// The solver's scope stack is returned to its original depth before EfseFeas
// returns. Both arms of a branch being infeasible means the path leading to
// it was already infeasible, which indicates a malformed program or a solver
// fault, and is reported as ErrInvariantViolation.
func (e *Evaluator[D]) EfseFeas(ctx context.Context, d D, p Prog, pi Expr) (_ D, _ Expr, err error) {
	if e.Solver == nil {
		return d, nil, fmt.Errorf("%w: no solver attached", ErrSolverProtocol)
	} else if IsConstantFalse(pi) {
		return d, pi, nil
	}

	s := newScopedSolver(e.Solver)
	err = s.withScope(func() error {
		if !IsConstantTrue(pi) {
			if err := s.Assert(pi); err != nil {
				return err
			}
		}
		d, pi, err = e.efseFeas(ctx, s, d, p, pi)
		return err
	})
	if err != nil {
		return d, nil, err
	} else if s.depth != 0 {
		return d, nil, fmt.Errorf("%w: %d scopes left open", ErrSolverProtocol, s.depth)
	}
	return d, pi, nil
}

func (e *Evaluator[D]) efseFeas(ctx context.Context, s *scopedSolver, d D, p Prog, pi Expr) (D, Expr, error) {
	for i, stmt := range p {
		if IsConstantFalse(pi) {
			return d, pi, nil
		} else if err := ctx.Err(); err != nil {
			return d, nil, err
		}

		switch stmt := stmt.(type) {
		case *AssignStmt:
			var eq Expr
			d, eq = recordAssign(d, stmt)
			pi = NewBinaryExpr(AND, pi, eq)
			if err := assertLive(s, eq); err != nil {
				return d, nil, err
			}

		case *AssertStmt:
			cond := simplifyExpr(d, stmt.Cond)
			pi = NewBinaryExpr(AND, pi, cond)
			if IsConstantExpr(cond) {
				continue
			}
			if err := s.Assert(cond); err != nil {
				return d, nil, err
			}
			if sat, err := s.Check(); err != nil {
				return d, nil, err
			} else if !sat {
				e.logger().Debug("assert pruned", zap.Stringer("cond", cond))
				return d, NewBoolConstantExpr(false), nil
			}

		case *IteStmt:
			cond := simplifyExpr(d, stmt.Cond)
			ncond := NewIsZeroExpr(cond)

			ft, err := s.feasibility(cond)
			if err != nil {
				return d, nil, err
			}
			ff, err := s.feasibility(ncond)
			if err != nil {
				return d, nil, err
			}
			e.logger().Debug("ite",
				zap.Stringer("cond", cond),
				zap.Stringer("then", ft),
				zap.Stringer("else", ff),
			)

			switch {
			case ft == Unsat && ff == Unsat:
				return d, nil, fmt.Errorf("%w: both arms of %s are infeasible", ErrInvariantViolation, cond)

			case ff == Unsat:
				// Only the then arm is reachable, and cond is implied by the path.
				if d, pi, err = e.efseFeas(ctx, s, d, stmt.Then, pi); err != nil {
					return d, nil, err
				}
				continue

			case ft == Unsat:
				if d, pi, err = e.efseFeas(ctx, s, d, stmt.Else, pi); err != nil {
					return d, nil, err
				}
				continue
			}

			dt, pt, err := e.efseFeasArm(ctx, s, d, stmt.Then, cond)
			if err != nil {
				return d, nil, err
			}
			df, pf, err := e.efseFeasArm(ctx, s, d, stmt.Else, ncond)
			if err != nil {
				return d, nil, err
			}

			joined, either := joinArms(dt, pt, df, pf)
			if IsConstantFalse(either) {
				return d, either, nil
			} else if err := assertLive(s, either); err != nil {
				return d, nil, err
			}

			dd, ptail, err := e.efseFeas(ctx, s, joined, p[i+1:], NewBoolConstantExpr(true))
			if err != nil {
				return d, nil, err
			}
			return dd, NewAndExpr(pi, either, ptail), nil

		default:
			return d, nil, fmt.Errorf("%w: statement %T", ErrUnsupported, stmt)
		}
	}
	return d, pi, nil
}

// efseFeasArm evaluates one arm of a branch under its own solver scope so its
// constraints do not leak into the other arm.
func (e *Evaluator[D]) efseFeasArm(ctx context.Context, s *scopedSolver, d D, arm Prog, cond Expr) (dd D, pi Expr, err error) {
	err = s.withScope(func() error {
		if err := s.Assert(cond); err != nil {
			return err
		}
		dd, pi, err = e.efseFeas(ctx, s, d, arm, cond)
		return err
	})
	return dd, pi, err
}

// recordAssign applies an assignment to the context and returns the equality
// it contributes to the path condition. Concrete values are cached in the
// context. Constants are recorded directly while every other value is
// recorded against the assignment's original right-hand side.
func recordAssign[D Delta[D]](d D, s *AssignStmt) (D, Expr) {
	value := d.Simplify(s.Value)
	if !value.IsConcrete() {
		return d, equality(s.Var, s.Value)
	}

	d = d.Set(s.Var, value)
	if k, ok := value.Constant(); ok {
		return d, NewBinaryExpr(EQ, NewVarExpr(s.Var), k)
	}
	return d, equality(s.Var, s.Value)
}

// equality returns the constraint v = b for a scalar or memory variable.
func equality(v *Var, b Binding) Expr {
	switch b := b.(type) {
	case *Array:
		return NewArray(v, v.Size).Equal(b)
	case Expr:
		return NewBinaryExpr(EQ, NewVarExpr(v), b)
	default:
		panic(fmt.Sprintf("unexpected binding: %T", b))
	}
}

// joinArms combines the results of both arms of a branch. An infeasible arm
// contributes nothing, so the other arm's context is used unmerged.
func joinArms[D Delta[D]](dt D, pt Expr, df D, pf Expr) (D, Expr) {
	switch {
	case IsConstantFalse(pt):
		return df, pf
	case IsConstantFalse(pf):
		return dt, pt
	default:
		return dt.Merge(df), NewBinaryExpr(OR, pt, pf)
	}
}

// assertLive adds a non-literal constraint to the solver.
func assertLive(s *scopedSolver, expr Expr) error {
	if IsConstantTrue(expr) {
		return nil
	}
	return s.Assert(expr)
}

func simplifyExpr[D Delta[D]](d D, expr Expr) Expr {
	return d.Simplify(expr).Binding.(Expr)
}

// concatProg returns a new program running a then b.
func concatProg(a, b Prog) Prog {
	p := make(Prog, 0, len(a)+len(b))
	p = append(p, a...)
	return append(p, b...)
}
