package main

import (
	"context"
	"fmt"

	"github.com/benbjohnson/gcl"
	"github.com/benbjohnson/gcl/lower"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newEvalCommand(m *Main) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval <package>",
		Short: "Print the path condition of a function",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := m.lowerFunc(args[0])
			if err != nil {
				return err
			}

			s, err := m.newSolver()
			if err != nil {
				return err
			}
			defer s.Close()

			pi, err := m.eval(cmd.Context(), s, res)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), pi)
			return nil
		},
	}
	cmd.Flags().StringVar(&m.Strategy, "strategy", "", "Evaluation strategy (overrides the configuration)")
	return cmd
}

// eval returns the path condition of a lowered function from true using
// the configured strategy.
func (m *Main) eval(ctx context.Context, s gcl.Solver, res *lower.Result) (gcl.Expr, error) {
	strategy, err := gcl.ParseStrategy(m.Config.Strategy)
	if err != nil {
		return nil, err
	}

	e := gcl.NewEvaluator(gcl.NewMapDelta)
	e.Solver = s
	e.Logger = m.Logger

	pi, err := e.Eval(ctx, strategy, res.Prog, gcl.NewBoolConstantExpr(true))
	if err != nil {
		return nil, errors.Wrapf(err, "eval %s", res.Func)
	}
	return pi, nil
}
