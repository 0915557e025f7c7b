package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/benbjohnson/gcl"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func newPrintCommand(m *Main) *cobra.Command {
	return &cobra.Command{
		Use:   "print <package>",
		Short: "Print the lowered program of a function",
		Long: `Print lowers the function named by -f to a passified guarded-command
program and prints it.
Example) gcl print ./pkg -f Abs`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := m.lowerFunc(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			pr := m.printer(out)
			fmt.Fprintf(out, "// %s\n", res.Func)
			fmt.Fprintf(out, "// inputs: %s\n", joinVars(res.Params))
			fmt.Fprintf(out, "// results: %s\n", joinVars(res.Results))
			fmt.Fprint(out, pr.Format(res.Prog))
			return nil
		},
	}
}

// printer returns a program printer that highlights keywords when w
// supports color.
func (m *Main) printer(w io.Writer) gcl.Printer {
	if !m.useColor(w) {
		return gcl.Printer{}
	}
	style := color.New(color.FgCyan, color.Bold)
	style.EnableColor()
	return gcl.Printer{Keyword: func(s string) string { return style.Sprint(s) }}
}

func (m *Main) useColor(w io.Writer) bool {
	switch m.Color {
	case "always":
		return true
	case "never":
		return false
	}

	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func joinVars(a []*gcl.Var) string {
	names := make([]string, len(a))
	for i, v := range a {
		names[i] = v.String()
	}
	return strings.Join(names, " ")
}
