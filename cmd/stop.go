package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"raven/internal/config"
	"raven/internal/service"
	"raven/internal/state"
	"raven/internal/ui"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop all vehicle services",
	Long: `Stop the vehicle software stack.

Services stop in reverse start order. Without a recorded session every
configured service is stopped, so a stale session file cannot leave
services running.`,
	Args: cobra.NoArgs,
	RunE: runStop,
}

func init() {
	rootCmd.AddCommand(stopCmd)
}

func runStop(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

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

	// Prefer the session record; fall back to everything configured
	services := cfg.Services
	session, err := state.Load(projectDir)
	if err == nil && session != nil {
		byUnit := make(map[string]config.Service, len(cfg.Services))
		for _, svc := range cfg.Services {
			byUnit[svc.Unit] = svc
		}
		var recorded []config.Service
		for _, unit := range session.Services {
			if svc, ok := byUnit[unit]; ok {
				recorded = append(recorded, svc)
			}
		}
		if len(recorded) > 0 {
			services = recorded
		}
	}

	ui.Warn("Stopping RAVEN stack...")

	controller := service.NewController(cfg)
	errs := controller.StopAll(ctx, services, func(svc config.Service) {
		ui.Step("Stopping %s (%s)...", svc.Name, svc.Unit)
	})
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", e)
	}

	if err := state.Clear(projectDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("%d service(s) failed to stop", len(errs))
	}

	ui.Success("RAVEN system HALTED.")
	return nil
}
