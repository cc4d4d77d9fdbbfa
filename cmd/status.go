package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"raven/internal/config"
	"raven/internal/status"
)

var (
	statusBrief bool
	statusJSON  bool
	statusWatch bool
)

// collectTimeout bounds one status collection pass
const collectTimeout = 30 * time.Second

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system diagnostic status",
	Long: `Show a dashboard of service health, repo sync state, and board vitals.

The exit code is 0 only when every configured service reports healthy.

Output formats:
  (default)  Full dashboard
  --brief    One-line summary
  --json     Machine-readable JSON output
  --watch    Redraw the dashboard every 2 seconds`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVarP(&statusBrief, "brief", "b", false, "Show one-line summary")
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output as JSON")
	statusCmd.Flags().BoolVarP(&statusWatch, "watch", "w", false, "Redraw every 2 seconds")

	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
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

	collector := status.NewCollector(projectDir, cfg)

	if statusWatch {
		return watchStatus(cmd.Context(), collector)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), collectTimeout)
	defer cancel()

	s, err := collector.Collect(ctx)
	if err != nil {
		return fmt.Errorf("failed to collect status: %w", err)
	}

	switch {
	case statusJSON:
		err = printStatusJSON(s)
	case statusBrief:
		err = printStatusBrief(s)
	default:
		err = printStatusFull(s)
	}
	if err != nil {
		return err
	}

	if !s.Healthy() {
		return fmt.Errorf("%d service(s) unhealthy", s.UnhealthyCount())
	}
	return nil
}

// watchStatus redraws the dashboard until interrupted
func watchStatus(ctx context.Context, collector *status.Collector) error {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		cctx, cancel := context.WithTimeout(ctx, collectTimeout)
		s, err := collector.Collect(cctx)
		cancel()
		if err != nil {
			return err
		}

		// Clear screen and move cursor home
		fmt.Print("\033[2J\033[H")
		if err := printStatusFull(s); err != nil {
			return err
		}
		fmt.Printf("\nUpdated %s  (ctrl-c to exit)\n", s.Timestamp.Format("15:04:05"))

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func printStatusFull(s *status.Status) error {
	fmt.Printf("--- RAVEN SYSTEM STATUS: %s ---\n", s.Project)
	fmt.Println()

	// Session section
	if s.Session.Active {
		fmt.Printf("Session: %s mode, up since %s\n",
			s.Session.Mode, s.Session.StartedAt.Format("15:04:05"))
	} else {
		fmt.Println("Session: not running")
	}
	fmt.Println()

	// Services section
	fmt.Println("Services:")
	if len(s.Services) == 0 {
		fmt.Println("  No services configured")
	} else {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  NAME\tUNIT\tSTATE\tPID\tHEALTH")
		for _, h := range s.Services {
			stateStr := h.Sub
			if stateStr == "" {
				stateStr = "unknown"
			}
			pid := "-"
			if h.PID > 0 {
				pid = fmt.Sprintf("%d", h.PID)
			}
			health := healthSymbol(h.Healthy) + " "
			if h.Healthy {
				health += "healthy"
			} else if h.Error != "" {
				health += truncate(h.Error, 40)
			} else {
				health += "unhealthy"
			}
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n", h.Name, h.Unit, stateStr, pid, health)
		}
		w.Flush()
	}
	fmt.Println()

	// Repos section
	fmt.Println("Repos:")
	if len(s.Repos) == 0 {
		fmt.Println("  No repos configured")
	} else {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  NAME\tBRANCH\tCOMMIT\tSTATE")
		for _, r := range s.Repos {
			if r.Missing {
				fmt.Fprintf(w, "  %s\t-\t-\tmissing checkout\n", r.Name)
				continue
			}
			if r.Error != "" {
				fmt.Fprintf(w, "  %s\t-\t-\terror: %s\n", r.Name, truncate(r.Error, 40))
				continue
			}
			state := "clean"
			if r.Dirty {
				state = "dirty"
			}
			if r.Ahead > 0 {
				state += fmt.Sprintf(", %d ahead", r.Ahead)
			}
			if r.Behind > 0 {
				state += fmt.Sprintf(", %d behind", r.Behind)
			}
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", r.Name, r.Branch, r.Commit, state)
		}
		w.Flush()
	}
	fmt.Println()

	// Vitals section
	fmt.Print("Vitals: ")
	printed := false
	if s.Vitals.CPUTempC > 0 {
		fmt.Printf("CPU %.1f°C", s.Vitals.CPUTempC)
		printed = true
	}
	if s.Vitals.VoltageV > 0 {
		if printed {
			fmt.Print("  ")
		}
		fmt.Printf("Supply %.1fV", s.Vitals.VoltageV)
		printed = true
	}
	if s.Vitals.Load1 > 0 {
		if printed {
			fmt.Print("  ")
		}
		fmt.Printf("Load %.2f", s.Vitals.Load1)
		printed = true
	}
	if !printed {
		fmt.Print("unavailable")
	}
	fmt.Println()

	return nil
}

func printStatusBrief(s *status.Status) error {
	healthyCount := 0
	for _, h := range s.Services {
		if h.Healthy {
			healthyCount++
		}
	}

	dirtyCount := 0
	for _, r := range s.Repos {
		if r.Dirty {
			dirtyCount++
		}
	}

	mode := "stopped"
	if s.Session.Active {
		mode = s.Session.Mode
	}

	fmt.Printf("mode: %s | services: %d/%d healthy | repos: %d dirty | cpu: %.1f°C\n",
		mode, healthyCount, len(s.Services), dirtyCount, s.Vitals.CPUTempC)

	return nil
}

func printStatusJSON(s *status.Status) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(s)
}

// healthSymbol returns the Unicode symbol for health status
func healthSymbol(healthy bool) string {
	if healthy {
		return "●"
	}
	return "○"
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
