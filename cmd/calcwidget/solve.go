package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/njchilds90/calcwidget/expr"
	"github.com/njchilds90/calcwidget/internal/server"
)

var solveCmd = &cobra.Command{
	Use:   "solve <request>",
	Short: "Solve one integral or derivative request",
	Long: `Solve classifies and solves a single request. Arguments are joined with
spaces, so quoting is optional:

  calcwidget solve ∫ 3*x^2 dx
  calcwidget solve "d/dx x^3 - 4x"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSolve,
}

func init() {
	solveCmd.Flags().Bool("latex", false, "print the result as LaTeX")
	solveCmd.Flags().Bool("json", false, "print the full result as JSON")
	solveCmd.Flags().Bool("strict", false, "exit non-zero when the request fails")

	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	asLaTeX, _ := cmd.Flags().GetBool("latex")
	asJSON, _ := cmd.Flags().GetBool("json")
	strict, _ := cmd.Flags().GetBool("strict")

	res := newSolver(cmd).Evaluate(strings.Join(args, " "))
	out := cmd.OutOrStdout()
	switch {
	case asJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(server.NewResponse(res)); err != nil {
			return err
		}
	case asLaTeX && res.Err == nil:
		fmt.Fprintln(out, expr.LaTeX(res.Tree))
	default:
		fmt.Fprintln(out, res.Display())
	}

	if strict && res.Err != nil {
		return fmt.Errorf("%s", res.Err.Kind)
	}
	return nil
}
