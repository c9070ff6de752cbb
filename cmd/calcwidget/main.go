// Package main is the calcwidget command: solve requests from the shell,
// run them in batch, serve the HTTP endpoint or open the terminal widget.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/njchilds90/calcwidget"
	"github.com/njchilds90/calcwidget/internal/config"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg is loaded before any subcommand runs.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "calcwidget",
	Short: "Solve single-variable integrals and derivatives",
	Long: `calcwidget solves calculator-style calculus requests:

  calcwidget solve "∫ 3*x^2 dx"
  calcwidget solve "d/dx sin(x)"

Integrals cover power-rule monomials (x^n, c*x^n, x, c*x). Derivatives use the
symbolic engine. Settings come from calcwidget.yaml and CALCWIDGET_* variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		cfg = loaded
		log.SetLevel(cfg.Level())
		if debug, _ := cmd.Flags().GetBool("debug"); debug {
			log.SetLevel(log.DebugLevel)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./calcwidget.yaml or ~/.config/calcwidget/calcwidget.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("no-simplify", false, "return results without simplification")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	config.Setup(viper.GetViper(), cfgFile)
}

// newSolver builds the solver the subcommands share.
func newSolver(cmd *cobra.Command) *calcwidget.Solver {
	var opts []calcwidget.Option
	noSimplify, _ := cmd.Flags().GetBool("no-simplify")
	if !cfg.Simplify || noSimplify {
		opts = append(opts, calcwidget.WithoutSimplifier())
	}
	return calcwidget.Default(opts...)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
