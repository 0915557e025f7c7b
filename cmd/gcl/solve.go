package main

import (
	"fmt"

	"github.com/benbjohnson/gcl"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newSolveCommand(m *Main) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve <package>",
		Short: "Print inputs and results satisfying the path condition of a function",
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

			out := cmd.OutOrStdout()
			if err := s.Assert(pi); err != nil {
				return err
			}
			if sat, err := s.Check(); err != nil {
				return err
			} else if !sat {
				fmt.Fprintln(out, "unsat")
				return nil
			}

			for _, v := range append(append([]*gcl.Var{}, res.Params...), res.Results...) {
				b, err := s.Value(v)
				if err != nil {
					return errors.Wrapf(err, "value of %s", v)
				}
				k, ok := b.(*gcl.ConstantExpr)
				if !ok {
					return errors.Errorf("value of %s is not a constant: %s", v, b)
				}
				fmt.Fprintf(out, "%s = %d\n", v, k.Value)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&m.Strategy, "strategy", "", "Evaluation strategy (overrides the configuration)")
	return cmd
}
