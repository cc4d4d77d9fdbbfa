package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "raven",
	Short: "Raven Vehicle Management CLI",
	Long: `raven orchestrates the Raven vehicle software stack on the onboard
computer: service lifecycle, multi-repo sync and deploy, firmware
flashing, health monitoring, and documentation.

Commands run against the nearest raven.yaml, found by walking up
from the current directory.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags can be added here
}
