package main

import (
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/njchilds90/calcwidget/internal/widget"
)

var widgetCmd = &cobra.Command{
	Use:   "widget",
	Short: "Open the interactive terminal widget",
	RunE: func(cmd *cobra.Command, args []string) error {
		// The view owns the terminal while the program runs.
		log.SetOutput(io.Discard)
		return widget.Run(newSolver(cmd))
	},
}

func init() {
	rootCmd.AddCommand(widgetCmd)
}
