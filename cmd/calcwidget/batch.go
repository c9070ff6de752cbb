package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/njchilds90/calcwidget"
)

// batchFile is the input document: a list of request strings.
type batchFile struct {
	Requests []string `yaml:"requests"`
}

// batchResult is one output entry. Result and Error are exclusive.
type batchResult struct {
	Input     string `yaml:"input"`
	Kind      string `yaml:"kind,omitempty"`
	Variable  string `yaml:"variable,omitempty"`
	Result    string `yaml:"result,omitempty"`
	ErrorKind string `yaml:"error_kind,omitempty"`
	Error     string `yaml:"error,omitempty"`
}

var batchCmd = &cobra.Command{
	Use:   "batch <file.yaml>",
	Short: "Solve every request listed in a YAML file",
	Long: `Batch reads a YAML document of the form

  requests:
    - "∫ x^2 dx"
    - "d/dx sin(x)"

and writes a YAML list of results to stdout. Use "-" to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().Bool("fail-on-error", false, "exit non-zero if any request fails")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	failOnError, _ := cmd.Flags().GetBool("fail-on-error")

	var (
		data []byte
		err  error
	)
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("reading batch file: %w", err)
	}

	var in batchFile
	if err := yaml.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("parsing batch file: %w", err)
	}

	results := newSolver(cmd).SolveAll(in.Requests)
	out := make([]batchResult, len(results))
	failed := 0
	for i, res := range results {
		out[i] = toBatchResult(res)
		if res.Err != nil {
			failed++
		}
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}

	if failOnError && failed > 0 {
		return fmt.Errorf("%d of %d request(s) failed", failed, len(results))
	}
	return nil
}

func toBatchResult(res calcwidget.Result) batchResult {
	r := batchResult{Input: res.Input}
	if res.Request.Kind != 0 {
		r.Kind = res.Request.Kind.String()
		r.Variable = res.Request.Variable
	}
	if res.Err != nil {
		r.ErrorKind = res.Err.Kind.String()
		r.Error = res.Err.Message()
		return r
	}
	r.Result = res.Text
	return r
}
