package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"raven/internal/config"
	"raven/internal/service"
	"raven/internal/state"
	"raven/internal/ui"
)

var startCmd = &cobra.Command{
	Use:   "start [mode]",
	Short: "Start the vehicle stack",
	Long: `Start the vehicle software stack in the given mode.

Modes:
  autonomous  perception, state machine, and embedded controller (default)
  manual      embedded controller and dashboard for remote driving
  debug       everything, for bench diagnosis

The services applicable to the mode start in the order they are
declared in raven.yaml. The first failure aborts the sequence.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
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

	modeName := cfg.DefaultMode
	if len(args) > 0 {
		modeName = args[0]
	}
	mode, err := service.ParseMode(modeName)
	if err != nil {
		return err
	}

	// Refuse a double start; the session file tracks what is running
	if session, err := state.Load(projectDir); err == nil && session != nil {
		return fmt.Errorf("stack already running in %s mode since %s (run 'raven stop' first)",
			session.Mode, session.StartedAt.Format(time.Kitchen))
	}

	ui.Info("Starting RAVEN stack in mode: %s", mode)

	controller := service.NewController(cfg)
	started, err := controller.StartMode(ctx, mode, func(svc config.Service) {
		ui.Step("Starting %s (%s)...", svc.Name, svc.Unit)
	})
	if err != nil {
		ui.Error("Start failed: %v", err)
		if len(started) > 0 {
			ui.Warn("%d service(s) were already started; run 'raven stop' to halt them", len(started))
		}
		return err
	}

	units := make([]string, 0, len(started))
	for _, svc := range started {
		units = append(units, svc.Unit)
	}

	session := &state.Session{
		Project:   cfg.Project,
		Mode:      string(mode),
		Services:  units,
		StartedAt: time.Now(),
	}
	if err := state.Save(projectDir, session); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save session state: %v\n", err)
	}

	ui.Success("RAVEN is ONLINE and READY.")
	return nil
}
