package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"raven/internal/config"
	"raven/internal/repo"
)

var pushMessage string

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Pull updates for every configured repo",
	Long: `Fast-forward every configured repo from its remote. Missing
checkouts are cloned. Failures are reported per repo and do not stop
the remaining repos.`,
	Args: cobra.NoArgs,
	RunE: runPull,
}

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Commit and push local changes in every configured repo",
	Long: `Commit any local changes (with the given message) and push every
configured repo. Repos with nothing to commit and nothing to push are
left untouched, so pull followed by push on an unmodified tree is a
no-op.`,
	Args: cobra.NoArgs,
	RunE: runPush,
}

func init() {
	pushCmd.Flags().StringVarP(&pushMessage, "message", "m", "", "Commit message for uncommitted changes")

	rootCmd.AddCommand(pullCmd)
	rootCmd.AddCommand(pushCmd)
}

func runPull(cmd *cobra.Command, args []string) error {
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

	fmt.Printf("Pulling %d repo(s)...\n", len(cfg.Repos))
	results := mgr.PullAll(cmd.Context())
	printSyncResults(results)

	if failed := repo.Failed(results); len(failed) > 0 {
		return fmt.Errorf("%d repo(s) failed to pull", len(failed))
	}
	return nil
}

func runPush(cmd *cobra.Command, args []string) error {
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

	fmt.Printf("Pushing %d repo(s)...\n", len(cfg.Repos))
	results := mgr.PushAll(cmd.Context(), pushMessage)
	printSyncResults(results)

	if failed := repo.Failed(results); len(failed) > 0 {
		return fmt.Errorf("%d repo(s) failed to push", len(failed))
	}
	return nil
}

// printSyncResults prints one line per repo result
func printSyncResults(results []repo.Result) {
	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Printf("  %s: %s: %v\n", r.Name, r.Action, r.Err)
		case r.Detail != "":
			fmt.Printf("  %s: %s (%s)\n", r.Name, r.Action, r.Detail)
		default:
			fmt.Printf("  %s: %s\n", r.Name, r.Action)
		}
	}
}
