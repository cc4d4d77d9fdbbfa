package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"raven/internal/config"
	"raven/internal/repo"
)

var testCmd = &cobra.Command{
	Use:   "test [repo-name]",
	Short: "Run a repo's test suite",
	Long: `Run the test command configured for a repo in raven.yaml.

Without an argument every repo that has a test command runs, stopping
at the first failure. The underlying tool's exit status is propagated.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	projectDir, err := config.FindProjectRoot(dir)
	if err != nil {
		return err
	}

	cfg, err := config.Load(projectDir)
	if err != nil {
		return err
	}

	mgr := repo.NewManager(projectDir, cfg)

	if len(args) == 1 {
		return mgr.Test(cmd.Context(), args[0])
	}
	return mgr.TestAll(cmd.Context())
}
