package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"raven/internal/config"
	"raven/internal/logs"
)

var (
	logsFollow bool
	logsLines  int
)

var logsCmd = &cobra.Command{
	Use:   "logs [service...]",
	Short: "Show aggregated service logs",
	Long: `Print journal output for the stack's services, one [service] prefix
per line, mirrored into the rotating capture file from raven.yaml.

Without arguments all configured services are shown; name services to
restrict the set. Use --follow to stream new lines until interrupted.`,
	RunE: runLogs,
}

func init() {
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Stream new log lines")
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 0, "Lines per service (default from config)")

	rootCmd.AddCommand(logsCmd)
}

func runLogs(cmd *cobra.Command, args []string) error {
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

	services, err := selectServices(cfg, args)
	if err != nil {
		return err
	}
	if len(services) == 0 {
		return fmt.Errorf("no services configured")
	}

	agg := logs.NewAggregator(projectDir, cfg, services, os.Stdout)

	if logsFollow {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return agg.Follow(ctx)
	}

	lines := logsLines
	if lines <= 0 {
		lines = cfg.Logs.Lines
	}
	return agg.Tail(cmd.Context(), lines)
}

// selectServices resolves service name arguments against the config
func selectServices(cfg *config.Config, names []string) ([]config.Service, error) {
	if len(names) == 0 {
		return cfg.Services, nil
	}

	byName := make(map[string]config.Service, len(cfg.Services))
	for _, svc := range cfg.Services {
		byName[svc.Name] = svc
	}

	var selected []config.Service
	for _, name := range names {
		svc, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown service: %s", name)
		}
		selected = append(selected, svc)
	}
	return selected, nil
}
