package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"raven/internal/config"
	"raven/internal/repo"
	"raven/internal/service"
	"raven/internal/state"
	"raven/internal/ui"
)

var deployNoRestart bool

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Pull updates and restart the running stack",
	Long: `Pull every configured repo, then restart the stack in its current
mode so the updated code takes effect. Without a running session only
the pull happens.

Use --no-restart to skip the restart even when the stack is running.`,
	Args: cobra.NoArgs,
	RunE: runDeploy,
}

func init() {
	deployCmd.Flags().BoolVar(&deployNoRestart, "no-restart", false, "Pull only, do not restart services")

	rootCmd.AddCommand(deployCmd)
}

func runDeploy(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	projectDir, err := config.FindProjectRoot(dir)
	if err != nil {
		return err
	}

	cfg, err := config.LoadAndValidate(projectDir)
	if err != nil {
		return err
	}

	mgr := repo.NewManager(projectDir, cfg)

	ui.Info("Deploying: pulling %d repo(s)...", len(cfg.Repos))
	results := mgr.PullAll(ctx)
	printSyncResults(results)

	if failed := repo.Failed(results); len(failed) > 0 {
		return fmt.Errorf("deploy aborted: %d repo(s) failed to pull", len(failed))
	}

	updated := 0
	for _, r := range results {
		if r.Action == repo.ActionPulled || r.Action == repo.ActionCloned {
			updated++
		}
	}
	if updated == 0 {
		ui.Info("All repos already up to date")
	}

	session, err := state.Load(projectDir)
	if err != nil || session == nil {
		ui.Info("Stack not running, skipping restart")
		return nil
	}
	if deployNoRestart {
		ui.Warn("Stack is running; restart skipped (--no-restart)")
		return nil
	}

	mode, err := service.ParseMode(session.Mode)
	if err != nil {
		return fmt.Errorf("session has invalid mode: %w", err)
	}

	ui.Info("Restarting stack in %s mode...", mode)

	controller := service.NewController(cfg)
	services := cfg.ServicesForMode(session.Mode)
	errs := controller.StopAll(ctx, services, func(svc config.Service) {
		ui.Step("Stopping %s...", svc.Name)
	})
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", e)
	}

	started, err := controller.StartMode(ctx, mode, func(svc config.Service) {
		ui.Step("Starting %s...", svc.Name)
	})
	if err != nil {
		ui.Error("Restart failed: %v", err)
		return err
	}

	units := make([]string, 0, len(started))
	for _, svc := range started {
		units = append(units, svc.Unit)
	}
	session.Services = units
	if err := state.Save(projectDir, session); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save session state: %v\n", err)
	}

	ui.Success("Deploy complete.")
	return nil
}
